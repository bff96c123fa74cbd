// Package config builds the engine configuration from compiled defaults,
// an optional YAML file, and environment overrides, in that precedence
// order. The result is passed to the backend untouched.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/quillworks/quill/engine/colors"
	"github.com/quillworks/quill/engine/core"
)

// Default returns the compiled-in configuration.
func Default() core.Config {
	return core.Config{
		Title:              "Quill",
		Width:              1280,
		Height:             720,
		VSync:              true,
		ClearColor:         colors.DarkGray,
		TargetFPS:          0,
		MaxFrameDelta:      0.25,
		MaxBackendFailures: 60,
		Audio: core.AudioConfig{
			SampleRate: 44100,
			Channels:   2,
			BufferSize: 2048,
		},
	}
}

// fileConfig mirrors core.Config for YAML decoding. Fields absent from the
// file keep their prefilled default values.
type fileConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"`

	TargetFPS          int     `yaml:"target_fps"`
	MaxFrameDelta      float64 `yaml:"max_frame_delta"`
	MaxBackendFailures int     `yaml:"max_backend_failures"`

	Audio struct {
		SampleRate int `yaml:"sample_rate"`
		Channels   int `yaml:"channels"`
		BufferSize int `yaml:"buffer_size"`
	} `yaml:"audio"`
}

// envOverrides are applied last. Pointer fields stay nil when the variable
// is unset, leaving the file/default value in place.
type envOverrides struct {
	Title     *string `env:"QUILL_TITLE"`
	Width     *int    `env:"QUILL_WIDTH"`
	Height    *int    `env:"QUILL_HEIGHT"`
	VSync     *bool   `env:"QUILL_VSYNC"`
	TargetFPS *int    `env:"QUILL_TARGET_FPS"`
}

// Load builds the configuration. An empty path, or a missing file at the
// given path, yields the defaults; a malformed file is an error.
func Load(path string) (core.Config, error) {
	// A local .env supplements the process environment, never overrides it.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return core.Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			fc := fromCore(cfg)
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return core.Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg = fc.toCore()
		}
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return core.Config{}, fmt.Errorf("parse env: %w", err)
	}
	ov.apply(&cfg)
	return cfg, nil
}

func fromCore(c core.Config) fileConfig {
	fc := fileConfig{
		Title:              c.Title,
		Width:              c.Width,
		Height:             c.Height,
		VSync:              c.VSync,
		ClearColor:         c.ClearColor,
		TargetFPS:          c.TargetFPS,
		MaxFrameDelta:      c.MaxFrameDelta,
		MaxBackendFailures: c.MaxBackendFailures,
	}
	fc.Audio.SampleRate = c.Audio.SampleRate
	fc.Audio.Channels = c.Audio.Channels
	fc.Audio.BufferSize = c.Audio.BufferSize
	return fc
}

func (fc fileConfig) toCore() core.Config {
	return core.Config{
		Title:              fc.Title,
		Width:              fc.Width,
		Height:             fc.Height,
		VSync:              fc.VSync,
		ClearColor:         fc.ClearColor,
		TargetFPS:          fc.TargetFPS,
		MaxFrameDelta:      fc.MaxFrameDelta,
		MaxBackendFailures: fc.MaxBackendFailures,
		Audio: core.AudioConfig{
			SampleRate: fc.Audio.SampleRate,
			Channels:   fc.Audio.Channels,
			BufferSize: fc.Audio.BufferSize,
		},
	}
}

func (ov envOverrides) apply(c *core.Config) {
	if ov.Title != nil {
		c.Title = *ov.Title
	}
	if ov.Width != nil {
		c.Width = *ov.Width
	}
	if ov.Height != nil {
		c.Height = *ov.Height
	}
	if ov.VSync != nil {
		c.VSync = *ov.VSync
	}
	if ov.TargetFPS != nil {
		c.TargetFPS = *ov.TargetFPS
	}
}
