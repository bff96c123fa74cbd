package core

// WindowHandle is the engine-owned window/graphics-context handle. Layers
// borrow it during hooks; only the backend creates or destroys it.
type WindowHandle interface {
	FramebufferSize() (int, int)
	SetTitle(title string)
}

// AudioHandle is the engine-owned audio device. Mixing internals stay in
// the backend; layers get coarse device control only.
type AudioHandle interface {
	Pause()
	Resume()
}

// Resources bundles the process-wide handles shared by all layers. Exactly
// one live instance exists per running engine: created before the first
// layer attaches, destroyed after the last one detaches.
type Resources struct {
	Window WindowHandle
	Audio  AudioHandle // nil when the backend has no audio device
}

// Backend is the windowing/graphics/audio collaborator contract.
type Backend interface {
	// CreateContext initializes the backend and returns the shared handles.
	// The configuration is passed through untouched.
	CreateContext(cfg Config) (*Resources, error)

	// PollEvents returns the events accumulated since the previous poll.
	// Called once per frame; blocking must be finite.
	PollEvents() ([]Event, error)

	// Present swaps/presents the frame. Called once per frame.
	Present(res *Resources) error

	// DestroyContext tears the backend down. Called once, during shutdown.
	DestroyContext(res *Resources) error
}

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32 // RGBA

	// TargetFPS caps the frame rate; 0 leaves it uncapped.
	TargetFPS int
	// MaxFrameDelta clamps the per-frame delta, in seconds.
	MaxFrameDelta float64
	// MaxBackendFailures is the number of consecutive poll or present
	// failures tolerated before the engine forces shutdown.
	MaxBackendFailures int

	Audio AudioConfig
}

// AudioConfig is passed through to the backend's audio device.
type AudioConfig struct {
	SampleRate int
	Channels   int
	BufferSize int
}
