package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLayer reports a push of a layer whose name is already
	// taken in the stack (or by a push queued this frame).
	ErrDuplicateLayer = errors.New("layer already present")

	// ErrLayerNotFound reports a pop of a layer absent from the addressed
	// region.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrAlreadyStarted reports a Run call on an engine whose lifecycle has
	// already begun. Engines are single-use; construct a fresh one instead.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrInitialization wraps a resource context creation failure. Fatal:
	// the engine never reaches Running and no layer is attached.
	ErrInitialization = errors.New("resource context initialization failed")

	// ErrShutdown wraps a resource context teardown failure. Logged only;
	// shutdown is already in progress when it can occur.
	ErrShutdown = errors.New("resource context teardown failed")
)

// LayerError describes a layer hook failure. The engine logs it, forcibly
// detaches the layer, and keeps running.
type LayerError struct {
	Layer string
	Hook  string
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %q: %s hook: %v", e.Layer, e.Hook, e.Err)
}

func (e *LayerError) Unwrap() error { return e.Err }
