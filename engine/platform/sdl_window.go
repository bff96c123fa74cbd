package platform

import (
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/mix"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/quillworks/quill/engine/colors"
	"github.com/quillworks/quill/engine/core"
)

// SDL implements core.Backend on SDL2, including the audio device. Teardown
// order mirrors init: mixer closes before the window, SDL quits last.
type SDL struct {
	win       *sdl.Window
	ren       *sdl.Renderer
	clear     [4]float32
	audioOpen bool
}

func NewSDL() *SDL { return &SDL{} }

func (b *SDL) CreateContext(cfg core.Config) (*core.Resources, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	win, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	ren, err := sdl.CreateRenderer(win, -1, flags)
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, err
	}

	if err := mix.OpenAudio(cfg.Audio.SampleRate, mix.DEFAULT_FORMAT, cfg.Audio.Channels, cfg.Audio.BufferSize); err != nil {
		ren.Destroy()
		win.Destroy()
		sdl.Quit()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"sample_rate": cfg.Audio.SampleRate,
		"channels":    cfg.Audio.Channels,
	}).Info("SDL context created")

	b.win = win
	b.ren = ren
	b.clear = cfg.ClearColor
	b.audioOpen = true

	b.clearFrame()
	return &core.Resources{Window: &sdlWindow{w: win}, Audio: &sdlAudio{}}, nil
}

func (b *SDL) PollEvents() ([]core.Event, error) {
	var events []core.Event
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if ce, ok := translateSDLEvent(ev); ok {
			events = append(events, ce)
		}
	}
	return events, nil
}

func (b *SDL) Present(_ *core.Resources) error {
	b.ren.Present()
	return b.clearFrame()
}

func (b *SDL) DestroyContext(_ *core.Resources) error {
	if b.audioOpen {
		mix.CloseAudio()
		b.audioOpen = false
	}
	b.ren.Destroy()
	b.win.Destroy()
	b.ren, b.win = nil, nil
	sdl.Quit()
	return nil
}

func (b *SDL) clearFrame() error {
	r, g, bl, a := colors.Color(b.clear).RGBA8()
	if err := b.ren.SetDrawColor(r, g, bl, a); err != nil {
		return err
	}
	return b.ren.Clear()
}

// sdlWindow implements core.WindowHandle.
type sdlWindow struct{ w *sdl.Window }

func (s *sdlWindow) FramebufferSize() (int, int) {
	w, h := s.w.GetSize()
	return int(w), int(h)
}

func (s *sdlWindow) SetTitle(t string) { s.w.SetTitle(t) }

// sdlAudio implements core.AudioHandle over the shared mixer device.
type sdlAudio struct{}

func (sdlAudio) Pause() {
	mix.Pause(-1)
	mix.PauseMusic()
}

func (sdlAudio) Resume() {
	mix.Resume(-1)
	mix.ResumeMusic()
}

func translateSDLEvent(ev sdl.Event) (core.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return core.EventQuit{}, true
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return core.EventResize{W: int(e.Data1), H: int(e.Data2)}, true
		}
	case *sdl.KeyboardEvent:
		if e.Repeat > 0 {
			return nil, false
		}
		k := translateSDLKey(e.Keysym.Sym)
		if k == core.KeyUnknown {
			return nil, false
		}
		return core.EventKey{Key: k, Down: e.Type == sdl.KEYDOWN, Mods: translateSDLMods(e.Keysym.Mod)}, true
	case *sdl.MouseMotionEvent:
		return core.EventMouseMove{X: float64(e.X), Y: float64(e.Y)}, true
	case *sdl.MouseButtonEvent:
		mb, ok := translateSDLButton(e.Button)
		if !ok {
			return nil, false
		}
		return core.EventMouseButton{Button: mb, Down: e.Type == sdl.MOUSEBUTTONDOWN, X: float64(e.X), Y: float64(e.Y)}, true
	case *sdl.MouseWheelEvent:
		return core.EventScroll{Xoff: float64(e.X), Yoff: float64(e.Y)}, true
	}
	return nil, false
}

func translateSDLKey(k sdl.Keycode) core.Key {
	switch k {
	case sdl.K_ESCAPE:
		return core.KeyEscape
	case sdl.K_SPACE:
		return core.KeySpace
	case sdl.K_RETURN:
		return core.KeyEnter
	case sdl.K_w:
		return core.KeyW
	case sdl.K_a:
		return core.KeyA
	case sdl.K_s:
		return core.KeyS
	case sdl.K_d:
		return core.KeyD
	case sdl.K_UP:
		return core.KeyUp
	case sdl.K_DOWN:
		return core.KeyDown
	case sdl.K_LEFT:
		return core.KeyLeft
	case sdl.K_RIGHT:
		return core.KeyRight
	default:
		return core.KeyUnknown
	}
}

func translateSDLMods(m uint16) core.Mod {
	var out core.Mod
	if m&sdl.KMOD_SHIFT != 0 {
		out |= core.ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= core.ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= core.ModAlt
	}
	if m&sdl.KMOD_GUI != 0 {
		out |= core.ModSuper
	}
	return out
}

func translateSDLButton(b uint8) (core.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return core.MouseButtonLeft, true
	case sdl.BUTTON_RIGHT:
		return core.MouseButtonRight, true
	case sdl.BUTTON_MIDDLE:
		return core.MouseButtonMiddle, true
	default:
		return 0, false
	}
}
