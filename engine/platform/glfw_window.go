package platform

import (
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sirupsen/logrus"

	"github.com/quillworks/quill/engine/core"
)

// GLFW implements core.Backend on top of a GLFW window with an OpenGL
// context. Window callbacks accumulate events into a buffer that PollEvents
// hands to the engine each frame.
type GLFW struct {
	win    *glfw.Window
	events []core.Event
	clear  [4]float32
}

func NewGLFW() *GLFW { return &GLFW{} }

// CreateContext must run on the main thread before any GL call.
func (b *GLFW) CreateContext(cfg core.Config) (*core.Resources, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// GL 3.2+ core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	logrus.WithField("gl", gl.GoStr(gl.GetString(gl.VERSION))).Info("GL context created")

	b.win = win
	b.clear = cfg.ClearColor
	b.installCallbacks()

	gl.ClearColor(b.clear[0], b.clear[1], b.clear[2], b.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	return &core.Resources{Window: &glfwWindow{w: win}}, nil
}

// Callbacks -> translate to core.Event
func (b *GLFW) installCallbacks() {
	b.win.SetCloseCallback(func(*glfw.Window) { b.emit(core.EventQuit{}) })
	b.win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		b.emit(core.EventResize{W: w, H: h})
	})
	b.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		b.emit(core.EventMouseMove{X: x, Y: y})
	})
	b.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		b.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	b.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		mb, ok := translateButton(button)
		if !ok {
			return
		}
		x, y := b.win.GetCursorPos()
		b.emit(core.EventMouseButton{Button: mb, Down: action != glfw.Release, X: x, Y: y})
	})
	b.win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		b.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})
}

func (b *GLFW) emit(ev core.Event) { b.events = append(b.events, ev) }

func (b *GLFW) PollEvents() ([]core.Event, error) {
	glfw.PollEvents()
	events := b.events
	b.events = nil
	return events, nil
}

func (b *GLFW) Present(_ *core.Resources) error {
	b.win.SwapBuffers()
	// Clear ahead of the next frame's render pass.
	gl.ClearColor(b.clear[0], b.clear[1], b.clear[2], b.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (b *GLFW) DestroyContext(_ *core.Resources) error {
	b.win.Destroy()
	b.win = nil
	glfw.Terminate()
	return nil
}

// glfwWindow implements core.WindowHandle.
type glfwWindow struct{ w *glfw.Window }

func (g *glfwWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }
func (g *glfwWindow) SetTitle(t string)           { g.w.SetTitle(t) }

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyEnter:
		return core.KeyEnter
	case glfw.KeyW:
		return core.KeyW
	case glfw.KeyA:
		return core.KeyA
	case glfw.KeyS:
		return core.KeyS
	case glfw.KeyD:
		return core.KeyD
	case glfw.KeyUp:
		return core.KeyUp
	case glfw.KeyDown:
		return core.KeyDown
	case glfw.KeyLeft:
		return core.KeyLeft
	case glfw.KeyRight:
		return core.KeyRight
	default:
		return core.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}

func translateButton(b glfw.MouseButton) (core.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return core.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return core.MouseButtonMiddle, true
	default:
		return 0, false
	}
}
