package core

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// State of the engine lifecycle.
type State int

const (
	Uninitialized State = iota
	Running
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Engine owns the resource context, the event queue, and the layer stack,
// and drives the per-frame schedule: poll, dispatch top-down, update
// bottom-up, render bottom-up, apply deferred mutations, present.
//
// Single-threaded cooperative scheduling: hooks never run concurrently with
// each other or with the engine's own bookkeeping.
type Engine struct {
	Layers *LayerStack

	cfg     Config
	backend Backend
	queue   *EventQueue
	input   *Input
	clock   *frameClock
	res     *Resources
	state   State
	log     *logrus.Entry

	pollFails    int
	presentFails int
}

func New(backend Backend, cfg Config) *Engine {
	e := &Engine{
		cfg:     cfg,
		backend: backend,
		queue:   NewEventQueue(),
		input:   NewInput(),
		clock:   newFrameClock(cfg.MaxFrameDelta),
		log:     logrus.WithField("component", "engine"),
	}
	e.Layers = newLayerStack(e)
	return e
}

func (e *Engine) State() State          { return e.state }
func (e *Engine) Config() Config        { return e.cfg }
func (e *Engine) Input() *Input         { return e.input }
func (e *Engine) Resources() *Resources { return e.res }

// Stop requests shutdown. Honored at the next frame boundary; the in-flight
// frame always completes its passes.
func (e *Engine) Stop() {
	if e.state == Running {
		e.log.Info("stop requested")
		e.state = ShuttingDown
	}
}

// Run creates the resource context, executes the frame loop until shutdown,
// then detaches every layer and destroys the context. A context creation
// failure is fatal and returned before any layer attaches.
func (e *Engine) Run() error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	if e.state != Uninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, e.state)
	}
	res, err := e.backend.CreateContext(e.cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	e.res = res
	e.state = Running
	e.log.WithField("title", e.cfg.Title).Info("engine running")

	e.Layers.activate()
	e.clock.start()

	for e.state == Running {
		e.frame()
	}

	e.Layers.shutdown()
	if err := e.backend.DestroyContext(e.res); err != nil {
		e.log.WithError(err).Error(ErrShutdown.Error())
	}
	e.res = nil
	e.state = Stopped
	e.log.Info("engine stopped")
	return nil
}

func (e *Engine) frame() {
	start := e.clock.now()

	// 1. Poll backend events into the queue.
	events, err := e.backend.PollEvents()
	if err != nil {
		e.backendFailure("poll", err, &e.pollFails)
	} else {
		e.pollFails = 0
		for _, ev := range events {
			e.queue.Enqueue(ev)
		}
	}

	// 2. Drain FIFO, dispatching each event top-down. A quit event flips
	// the state and stops dispatch; the rest of the queue is discarded.
	e.queue.Drain(func(ev Event) bool {
		if _, ok := ev.(EventQuit); ok {
			e.log.Info("quit requested")
			e.state = ShuttingDown
			return false
		}
		e.input.Handle(ev)
		e.dispatch(ev)
		return true
	})
	if e.state != Running {
		e.Layers.applyPending()
		return
	}

	// 3-5. Clamped delta, then update and render every live layer.
	frame := e.clock.tick()
	e.Layers.ForEachBottomUp(func(l Layer) {
		if err := e.safeUpdate(l, frame); err != nil {
			e.layerFailure(l, "update", err)
		}
	})
	e.Layers.ForEachBottomUp(func(l Layer) {
		if err := e.safeRender(l, frame); err != nil {
			e.layerFailure(l, "render", err)
		}
	})

	// 6. Apply layer mutations deferred during dispatch/update/render.
	e.Layers.applyPending()

	// 7. Present.
	if err := e.backend.Present(e.res); err != nil {
		e.backendFailure("present", err, &e.presentFails)
	} else {
		e.presentFails = 0
	}

	if e.cfg.TargetFPS > 0 {
		budget := time.Second / time.Duration(e.cfg.TargetFPS)
		if d := budget - e.clock.now().Sub(start); d > 0 {
			time.Sleep(d)
		}
	}
}

func (e *Engine) dispatch(ev Event) {
	e.Layers.ForEachTopDown(func(l Layer) bool {
		handled, err := e.safeEvent(l, ev)
		if err != nil {
			e.layerFailure(l, "event", err)
			return false
		}
		return handled
	})
}

// layerFailure logs a hook failure and forcibly detaches the layer. The
// frame continues with the remaining layers.
func (e *Engine) layerFailure(l Layer, hook string, err error) {
	lerr := &LayerError{Layer: l.Name(), Hook: hook, Err: err}
	e.log.WithError(lerr).Error("layer failed, detaching")
	e.Layers.discard(l)
}

// backendFailure logs a poll/present failure; the step is skipped for this
// frame. Persistent failures escalate to a forced shutdown.
func (e *Engine) backendFailure(step string, err error, count *int) {
	*count++
	e.log.WithError(err).WithField("consecutive", *count).Warnf("backend %s failed", step)
	if e.cfg.MaxBackendFailures > 0 && *count >= e.cfg.MaxBackendFailures && e.state == Running {
		e.log.Errorf("backend %s failing persistently, shutting down", step)
		e.state = ShuttingDown
	}
}

func (e *Engine) safeUpdate(l Layer, f Frame) (err error) {
	defer recoverHook(&err)
	return l.OnUpdate(e, f)
}

func (e *Engine) safeRender(l Layer, f Frame) (err error) {
	defer recoverHook(&err)
	return l.OnRender(e, f)
}

func (e *Engine) safeEvent(l Layer, ev Event) (handled bool, err error) {
	defer recoverHook(&err)
	return l.OnEvent(e, ev), nil
}

// recoverHook converts a panicking layer hook into an error so one
// misbehaving layer cannot take the process down.
func recoverHook(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}
