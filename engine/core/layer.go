package core

import "github.com/sirupsen/logrus"

// Frame is the transient per-tick value handed to update/render hooks.
type Frame struct {
	Delta float64 // seconds since the previous frame start, clamped
	Count uint64  // monotonically increasing frame counter
}

// Layer is a pluggable unit of per-frame behavior. Identity is the layer
// name; the stack rejects duplicates. Hooks may push/pop layers (including
// the receiver); mutations issued mid-pass are deferred to the end of the
// frame. Layers borrow engine resources inside hooks and must not retain
// them beyond the hook's return.
type Layer interface {
	Name() string
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, frame Frame) error
	OnRender(e *Engine, frame Frame) error
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

// BaseLayer supplies identity plus no-op hooks so concrete layers only
// implement the subset they care about.
type BaseLayer struct{ name string }

func NewBaseLayer(name string) BaseLayer { return BaseLayer{name: name} }

func (b BaseLayer) Name() string { return b.name }

func (BaseLayer) OnAttach(*Engine)              {}
func (BaseLayer) OnDetach(*Engine)              {}
func (BaseLayer) OnUpdate(*Engine, Frame) error { return nil }
func (BaseLayer) OnRender(*Engine, Frame) error { return nil }
func (BaseLayer) OnEvent(*Engine, Event) bool   { return false }

type layerEntry struct {
	layer    Layer
	overlay  bool
	attached bool
	dead     bool // forcibly detached this frame; skipped by every pass
}

type mutationKind int

const (
	mutationPush mutationKind = iota
	mutationPop
)

type mutation struct {
	kind    mutationKind
	layer   Layer  // push
	name    string // pop
	overlay bool
}

// LayerStack is the ordered sequence of live layers: a normal region
// followed by a contiguous overlay region at the tail. Overlays therefore
// render after (on top of) normal layers and see events first.
//
// Mutations requested while a pass is in flight are queued and applied by
// the engine at the end of the frame, so in-flight iteration is never
// invalidated. Misuse (duplicate push, pop of an absent layer) is still
// reported synchronously to the caller.
type LayerStack struct {
	eng       *Engine
	entries   []layerEntry
	split     int // index of the first overlay entry
	live      bool
	iterating int
	pending   []mutation
}

func newLayerStack(e *Engine) *LayerStack { return &LayerStack{eng: e} }

// Len reports the number of layers not marked for removal.
func (ls *LayerStack) Len() int {
	n := 0
	for _, ent := range ls.entries {
		if !ent.dead {
			n++
		}
	}
	return n
}

// Push inserts a layer at the end of the normal region.
func (ls *LayerStack) Push(l Layer) error { return ls.push(l, false) }

// PushOverlay inserts a layer at the end of the overlay region, i.e. at the
// very end of the full sequence.
func (ls *LayerStack) PushOverlay(l Layer) error { return ls.push(l, true) }

func (ls *LayerStack) push(l Layer, overlay bool) error {
	if ls.has(l.Name()) {
		return ErrDuplicateLayer
	}
	if ls.iterating > 0 {
		ls.pending = append(ls.pending, mutation{kind: mutationPush, layer: l, overlay: overlay})
		return nil
	}
	ls.pushNow(l, overlay)
	return nil
}

// Pop detaches and removes a layer from the normal region.
func (ls *LayerStack) Pop(name string) error { return ls.pop(name, false) }

// PopOverlay detaches and removes a layer from the overlay region.
func (ls *LayerStack) PopOverlay(name string) error { return ls.pop(name, true) }

func (ls *LayerStack) pop(name string, overlay bool) error {
	if ls.find(name, overlay) < 0 || ls.pendingPop(name) {
		return ErrLayerNotFound
	}
	if ls.iterating > 0 {
		ls.pending = append(ls.pending, mutation{kind: mutationPop, name: name, overlay: overlay})
		return nil
	}
	return ls.popNow(name, overlay)
}

// ForEachTopDown visits the overlay region then the normal region, each in
// reverse insertion order, stopping as soon as a visitor reports handled.
func (ls *LayerStack) ForEachTopDown(fn func(Layer) bool) {
	ls.iterating++
	defer func() { ls.iterating-- }()
	for i := len(ls.entries) - 1; i >= 0; i-- {
		if ls.entries[i].dead {
			continue
		}
		if fn(ls.entries[i].layer) {
			return
		}
	}
}

// ForEachBottomUp visits the normal region then the overlay region, each in
// forward insertion order. Every live layer is always visited.
func (ls *LayerStack) ForEachBottomUp(fn func(Layer)) {
	ls.iterating++
	defer func() { ls.iterating-- }()
	for i := range ls.entries {
		if ls.entries[i].dead {
			continue
		}
		fn(ls.entries[i].layer)
	}
}

// applyPending applies queued mutations in request order. Hooks running
// during application see the stack at rest, so their own mutations apply
// immediately and in order.
func (ls *LayerStack) applyPending() {
	for len(ls.pending) > 0 {
		batch := ls.pending
		ls.pending = nil
		for _, m := range batch {
			switch m.kind {
			case mutationPush:
				ls.pushNow(m.layer, m.overlay)
			case mutationPop:
				// Validated when queued; the layer may since have been
				// force-detached, in which case there is nothing left to do.
				_ = ls.popNow(m.name, m.overlay)
			}
		}
	}
}

// discard marks a layer dead so no pass visits it again this frame, and
// queues its removal. Used by the engine when a hook fails.
func (ls *LayerStack) discard(l Layer) {
	for i := range ls.entries {
		if ls.entries[i].layer == l && !ls.entries[i].dead {
			ls.entries[i].dead = true
			ls.pending = append(ls.pending, mutation{kind: mutationPop, name: l.Name(), overlay: ls.entries[i].overlay})
			return
		}
	}
}

// activate runs attach hooks for layers pushed before the engine owned a
// resource context. Attach hooks may push more layers; those are deferred
// and applied right after.
func (ls *LayerStack) activate() {
	ls.live = true
	ls.iterating++
	for i := range ls.entries {
		if !ls.entries[i].attached {
			ls.entries[i].attached = true
			ls.entries[i].layer.OnAttach(ls.eng)
		}
	}
	ls.iterating--
	ls.applyPending()
}

// shutdown detaches every remaining layer bottom-up and empties the stack.
// Mutations requested by detach hooks at this point are dropped, with a
// warning per drop; the stack is past the point of hosting new layers.
func (ls *LayerStack) shutdown() {
	ls.iterating++
	for i := range ls.entries {
		if ls.entries[i].attached {
			ls.entries[i].layer.OnDetach(ls.eng)
		}
	}
	ls.iterating--
	if len(ls.pending) > 0 {
		logrus.WithField("dropped", len(ls.pending)).
			Warn("layer mutations requested during shutdown were dropped")
	}
	ls.entries = nil
	ls.split = 0
	ls.pending = nil
	ls.live = false
}

func (ls *LayerStack) pushNow(l Layer, overlay bool) {
	ent := layerEntry{layer: l, overlay: overlay, attached: ls.live}
	if overlay {
		ls.entries = append(ls.entries, ent)
	} else {
		ls.entries = append(ls.entries, layerEntry{})
		copy(ls.entries[ls.split+1:], ls.entries[ls.split:])
		ls.entries[ls.split] = ent
		ls.split++
	}
	if ent.attached {
		l.OnAttach(ls.eng)
	}
}

func (ls *LayerStack) popNow(name string, overlay bool) error {
	i := ls.findAny(name, overlay)
	if i < 0 {
		return ErrLayerNotFound
	}
	l := ls.entries[i].layer
	attached := ls.entries[i].attached
	// Mark the entry dead before running the hook: a re-entrant pop of the
	// same layer (self-pop, or two layers popping each other from their
	// detach hooks) then finds nothing, so the hook runs exactly once.
	ls.entries[i].dead = true
	if attached {
		l.OnDetach(ls.eng)
		// The hook may mutate the stack, so re-locate before removing.
		i = ls.findAny(name, overlay)
		if i < 0 {
			return nil
		}
	}
	ls.entries = append(ls.entries[:i], ls.entries[i+1:]...)
	if !overlay {
		ls.split--
	}
	return nil
}

// find locates a live entry by name within one region.
func (ls *LayerStack) find(name string, overlay bool) int {
	for i := range ls.entries {
		if ls.entries[i].overlay == overlay && !ls.entries[i].dead && ls.entries[i].layer.Name() == name {
			return i
		}
	}
	return -1
}

// findAny locates an entry by name within one region, dead or not.
func (ls *LayerStack) findAny(name string, overlay bool) int {
	for i := range ls.entries {
		if ls.entries[i].overlay == overlay && ls.entries[i].layer.Name() == name {
			return i
		}
	}
	return -1
}

// has reports whether a name is taken by any entry or queued push.
func (ls *LayerStack) has(name string) bool {
	for i := range ls.entries {
		if ls.entries[i].layer.Name() == name {
			return true
		}
	}
	for _, m := range ls.pending {
		if m.kind == mutationPush && m.layer.Name() == name {
			return true
		}
	}
	return false
}

func (ls *LayerStack) pendingPop(name string) bool {
	for _, m := range ls.pending {
		if m.kind == mutationPop && m.name == name {
			return true
		}
	}
	return false
}
