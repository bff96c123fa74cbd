package main

import (
	"github.com/sirupsen/logrus"

	"github.com/quillworks/quill/engine/core"
)

// CounterLayer increments a counter once per second of accumulated frame
// time, logs it, and stops the engine past the limit. Escape quits early.
type CounterLayer struct {
	core.BaseLayer
	limit   int
	counter int
	elapsed float64
}

func NewCounterLayer(limit int) *CounterLayer {
	return &CounterLayer{BaseLayer: core.NewBaseLayer("counter"), limit: limit}
}

func (l *CounterLayer) OnAttach(e *core.Engine) {
	logrus.WithField("limit", l.limit).Info("counter layer attached")
}

func (l *CounterLayer) OnUpdate(e *core.Engine, frame core.Frame) error {
	l.elapsed += frame.Delta
	for l.elapsed >= 1 {
		l.elapsed--
		l.counter++
		logrus.WithFields(logrus.Fields{
			"counter": l.counter,
			"frame":   frame.Count,
		}).Info("tick")

		if l.counter >= l.limit {
			e.Stop()
		}
	}
	return nil
}

func (l *CounterLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Stop()
		return true
	}
	return false
}
