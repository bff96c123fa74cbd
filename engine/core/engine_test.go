package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct{}

func (fakeWindow) FramebufferSize() (int, int) { return 640, 480 }
func (fakeWindow) SetTitle(string)             {}

// fakeBackend feeds a scripted sequence of per-frame event batches and
// records lifecycle calls.
type fakeBackend struct {
	createErr  error
	presentErr error
	script     [][]Event

	polls     int
	presents  int
	created   bool
	destroyed bool
}

func (b *fakeBackend) CreateContext(Config) (*Resources, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.created = true
	return &Resources{Window: fakeWindow{}}, nil
}

func (b *fakeBackend) PollEvents() ([]Event, error) {
	i := b.polls
	b.polls++
	if i < len(b.script) {
		return b.script[i], nil
	}
	return nil, nil
}

func (b *fakeBackend) Present(*Resources) error {
	b.presents++
	return b.presentErr
}

func (b *fakeBackend) DestroyContext(*Resources) error {
	b.destroyed = true
	return nil
}

// quitAfter builds a script of n empty frames followed by a quit event.
func quitAfter(n int) [][]Event {
	script := make([][]Event, n+1)
	script[n] = []Event{EventQuit{}}
	return script
}

func TestEngine_InitFailureLeavesUninitialized(t *testing.T) {
	boom := errors.New("no display")
	backend := &fakeBackend{createErr: boom}
	eng := New(backend, Config{})

	l := newStub("game")
	require.NoError(t, eng.Layers.Push(l))

	err := eng.Run()
	require.ErrorIs(t, err, ErrInitialization)
	assert.Equal(t, Uninitialized, eng.State())
	assert.Zero(t, l.attached, "no attach hook may run without a context")
	assert.False(t, backend.destroyed)
}

func TestEngine_LifecycleQuitEvent(t *testing.T) {
	backend := &fakeBackend{script: quitAfter(2)}
	eng := New(backend, Config{})

	l := newStub("game")
	l.attachFn = func(e *Engine) {
		require.NotNil(t, e.Resources(), "context must exist before attach")
	}
	require.NoError(t, eng.Layers.Push(l))
	assert.Zero(t, l.attached, "attach waits for Run")

	require.NoError(t, eng.Run())

	assert.Equal(t, Stopped, eng.State())
	assert.Equal(t, 1, l.attached)
	assert.Equal(t, 1, l.detached)
	assert.True(t, backend.destroyed)
	// The quit frame skips update/render; the two prior frames ran.
	assert.Equal(t, []uint64{1, 2}, l.updates)
	assert.Equal(t, []uint64{1, 2}, l.renders)
}

func TestEngine_SecondRunRejected(t *testing.T) {
	backend := &fakeBackend{script: quitAfter(0)}
	eng := New(backend, Config{})

	require.NoError(t, eng.Run())
	require.Equal(t, Stopped, eng.State())

	err := eng.Run()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, Stopped, eng.State())
	assert.Equal(t, 1, backend.polls, "a spent engine must not touch the backend again")
}

func TestEngine_DispatchTopDownUntilHandled(t *testing.T) {
	// Normal layers A, B; overlay O. A and O ignore the event, B handles
	// it: visit order must be [O, B] and A must never see it.
	var visited []string
	record := func(name string, handled bool) func(*Engine, Event) bool {
		return func(_ *Engine, ev Event) bool {
			if _, ok := ev.(EventApp); !ok {
				return false
			}
			visited = append(visited, name)
			return handled
		}
	}

	a, b, o := newStub("A"), newStub("B"), newStub("O")
	a.eventFn = record("A", false)
	b.eventFn = record("B", true)
	o.eventFn = record("O", false)

	backend := &fakeBackend{script: [][]Event{{EventApp{Data: "ping"}}, {EventQuit{}}}}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(a))
	require.NoError(t, eng.Layers.Push(b))
	require.NoError(t, eng.Layers.PushOverlay(o))

	require.NoError(t, eng.Run())

	assert.Equal(t, []string{"O", "B"}, visited)
	// Event handling never withholds updates: every layer ran that frame.
	assert.Equal(t, []uint64{1}, a.updates)
	assert.Equal(t, []uint64{1}, b.updates)
	assert.Equal(t, []uint64{1}, o.updates)
}

func TestEngine_RenderErrorDetachesLayer(t *testing.T) {
	a, b, c := newStub("A"), newStub("B"), newStub("C")
	b.renderFn = func(*Engine, Frame) error { return errors.New("gpu sulks") }

	backend := &fakeBackend{script: quitAfter(2)}
	eng := New(backend, Config{})
	for _, l := range []*stubLayer{a, b, c} {
		require.NoError(t, eng.Layers.Push(l))
	}

	require.NoError(t, eng.Run())

	// Siblings still rendered the failing frame, and kept going after.
	assert.Equal(t, []uint64{1, 2}, a.renders)
	assert.Equal(t, []uint64{1, 2}, c.renders)
	// The offender rendered once, was detached, and never came back.
	assert.Equal(t, []uint64{1}, b.renders)
	assert.Equal(t, []uint64{1}, b.updates)
	assert.Equal(t, 1, b.detached)
}

func TestEngine_UpdatePanicIsolated(t *testing.T) {
	a, b := newStub("A"), newStub("B")
	b.updateFn = func(*Engine, Frame) error { panic("nil deref in game code") }

	backend := &fakeBackend{script: quitAfter(2)}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(a))
	require.NoError(t, eng.Layers.Push(b))

	require.NoError(t, eng.Run())

	assert.Equal(t, []uint64{1, 2}, a.updates)
	assert.Equal(t, []uint64{1}, b.updates)
	// A failed update keeps the layer out of the same frame's render pass.
	assert.Empty(t, b.renders)
	assert.Equal(t, 1, b.detached)
}

func TestEngine_PopSelfDuringUpdate(t *testing.T) {
	a, b, c := newStub("A"), newStub("B"), newStub("C")
	b.updateFn = func(e *Engine, f Frame) error {
		if f.Count == 1 {
			require.NoError(t, e.Layers.Pop("B"))
		}
		return nil
	}

	backend := &fakeBackend{script: quitAfter(2)}
	eng := New(backend, Config{})
	for _, l := range []*stubLayer{a, b, c} {
		require.NoError(t, eng.Layers.Push(l))
	}

	require.NoError(t, eng.Run())

	// No sibling skipped an update on the pop frame.
	assert.Equal(t, []uint64{1, 2}, a.updates)
	assert.Equal(t, []uint64{1, 2}, c.updates)
	// The popped layer finished the frame (render included) and was gone
	// from the next one.
	assert.Equal(t, []uint64{1}, b.updates)
	assert.Equal(t, []uint64{1}, b.renders)
	assert.Equal(t, 1, b.detached)
}

func TestEngine_PushDuringUpdateVisibleNextFrame(t *testing.T) {
	late := newStub("late")
	a := newStub("A")
	a.updateFn = func(e *Engine, f Frame) error {
		if f.Count == 1 {
			require.NoError(t, e.Layers.Push(late))
		}
		return nil
	}

	backend := &fakeBackend{script: quitAfter(2)}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(a))

	require.NoError(t, eng.Run())

	// Deferred to end of frame 1: neither updated nor rendered on frame 1.
	assert.Equal(t, []uint64{2}, late.updates)
	assert.Equal(t, []uint64{2}, late.renders)
	assert.Equal(t, 1, late.attached)
	assert.Equal(t, 1, late.detached) // shutdown detaches it
}

func TestEngine_DeltaClamped(t *testing.T) {
	backend := &fakeBackend{script: quitAfter(3)}
	eng := New(backend, Config{MaxFrameDelta: 0.25})

	// Simulate a 10s stall between every frame.
	now := time.Unix(0, 0)
	eng.clock.now = func() time.Time {
		now = now.Add(10 * time.Second)
		return now
	}

	var deltas []float64
	l := newStub("game")
	l.updateFn = func(_ *Engine, f Frame) error {
		deltas = append(deltas, f.Delta)
		return nil
	}
	require.NoError(t, eng.Layers.Push(l))

	require.NoError(t, eng.Run())

	require.Len(t, deltas, 3)
	for _, dt := range deltas {
		assert.GreaterOrEqual(t, dt, 0.0)
		assert.LessOrEqual(t, dt, 0.25)
	}
	assert.Equal(t, []uint64{1, 2, 3}, l.updates)
}

func TestEngine_StopHonoredAtFrameBoundary(t *testing.T) {
	l := newStub("game")
	l.updateFn = func(e *Engine, _ Frame) error {
		e.Stop()
		return nil
	}

	backend := &fakeBackend{}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(l))

	require.NoError(t, eng.Run())

	// The stopping frame still completed its render pass.
	assert.Equal(t, []uint64{1}, l.updates)
	assert.Equal(t, []uint64{1}, l.renders)
	assert.Equal(t, Stopped, eng.State())
	assert.True(t, backend.destroyed)
}

func TestEngine_PersistentPresentFailureEscalates(t *testing.T) {
	backend := &fakeBackend{presentErr: errors.New("swapchain lost")}
	eng := New(backend, Config{MaxBackendFailures: 3})

	l := newStub("game")
	require.NoError(t, eng.Layers.Push(l))

	require.NoError(t, eng.Run())

	assert.Equal(t, Stopped, eng.State())
	assert.Equal(t, 3, backend.presents)
	assert.Equal(t, []uint64{1, 2, 3}, l.updates)
	assert.True(t, backend.destroyed)
}

func TestEngine_EventErrorDetachesHandler(t *testing.T) {
	a, b := newStub("A"), newStub("B")
	b.eventFn = func(*Engine, Event) bool { panic("handler bug") }

	backend := &fakeBackend{script: [][]Event{{EventApp{}}, {EventQuit{}}}}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(a))
	require.NoError(t, eng.Layers.Push(b))

	require.NoError(t, eng.Run())

	// Propagation continued past the failing handler.
	assert.Len(t, a.events, 1)
	assert.Equal(t, 1, b.detached)
	assert.Empty(t, b.updates)
	assert.Equal(t, []uint64{1}, a.updates)
}

func TestEngine_InputStateTracksEvents(t *testing.T) {
	var down bool
	var mx, my float64
	l := newStub("game")
	l.updateFn = func(e *Engine, _ Frame) error {
		down = e.Input().IsKeyDown(KeyW)
		mx, my = e.Input().Mouse()
		return nil
	}

	backend := &fakeBackend{script: [][]Event{{
		EventKey{Key: KeyW, Down: true},
		EventMouseMove{X: 12, Y: 34},
	}, {EventQuit{}}}}
	eng := New(backend, Config{})
	require.NoError(t, eng.Layers.Push(l))

	require.NoError(t, eng.Run())

	assert.True(t, down)
	assert.Equal(t, 12.0, mx)
	assert.Equal(t, 34.0, my)
}
