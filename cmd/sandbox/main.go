package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quillworks/quill/engine/config"
	"github.com/quillworks/quill/engine/core"
	"github.com/quillworks/quill/engine/platform"
)

var flags struct {
	config  string
	backend string
	width   int
	height  int
	vsync   bool
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:           "sandbox",
	Short:         "Quill engine demo: a counter layer plus a debug overlay",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flags.config, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().StringVarP(&flags.backend, "backend", "b", "glfw", "windowing backend: glfw or sdl")
	rootCmd.Flags().IntVar(&flags.width, "width", 0, "window width (overrides config)")
	rootCmd.Flags().IntVar(&flags.height, "height", 0, "window height (overrides config)")
	rootCmd.Flags().BoolVar(&flags.vsync, "vsync", true, "enable vsync")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	if flags.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = flags.width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = flags.height
	}
	if cmd.Flags().Changed("vsync") {
		cfg.VSync = flags.vsync
	}

	var backend core.Backend
	switch flags.backend {
	case "glfw":
		backend = platform.NewGLFW()
	case "sdl":
		backend = platform.NewSDL()
	default:
		return fmt.Errorf("unknown backend %q", flags.backend)
	}

	eng := core.New(backend, cfg)
	if err := eng.Layers.Push(NewCounterLayer(10)); err != nil {
		return err
	}
	if err := eng.Layers.PushOverlay(NewDebugOverlay()); err != nil {
		return err
	}
	return eng.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("sandbox failed")
		os.Exit(1)
	}
}
