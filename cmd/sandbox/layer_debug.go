package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/quillworks/quill/engine/core"
	"github.com/quillworks/quill/engine/scene"
)

// DebugOverlay sits above every normal layer: it tracks frame timing, keeps
// a camera sized to the framebuffer, and reports clicks on a probe region.
type DebugOverlay struct {
	core.BaseLayer
	cam     *scene.Camera2D
	ctl     *scene.CamController2D
	probe   scene.Rect
	frames  int
	elapsed float64
	worstDt float64
}

func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{BaseLayer: core.NewBaseLayer("debug-overlay")}
}

func (l *DebugOverlay) OnAttach(e *core.Engine) {
	w, h := e.Resources().Window.FramebufferSize()
	l.cam = scene.NewCamera2D(w, h)
	l.ctl = scene.NewCamController2D(l.cam)
	l.probe = scene.NewRect(0, 0, 128, 128)
}

func (l *DebugOverlay) OnUpdate(e *core.Engine, frame core.Frame) error {
	l.ctl.Update(e, frame.Delta)

	l.frames++
	l.elapsed += frame.Delta
	if frame.Delta > l.worstDt {
		l.worstDt = frame.Delta
	}
	if l.elapsed >= 5 {
		logrus.WithFields(logrus.Fields{
			"fps":      float64(l.frames) / l.elapsed,
			"worst_dt": l.worstDt,
			"frame":    frame.Count,
		}).Debug("frame stats")
		l.frames, l.elapsed, l.worstDt = 0, 0, 0
	}
	return nil
}

func (l *DebugOverlay) OnEvent(e *core.Engine, ev core.Event) bool {
	if l.ctl.HandleEvent(ev) {
		return true
	}
	switch v := ev.(type) {
	case core.EventResize:
		l.cam.SetViewportPixels(v.W, v.H)
		logrus.WithFields(logrus.Fields{"w": v.W, "h": v.H}).Debug("resized")
	case core.EventMouseButton:
		if v.Down && l.probe.Contains(mgl32.Vec2{float32(v.X), float32(v.Y)}) {
			logrus.WithFields(logrus.Fields{"x": v.X, "y": v.Y}).Info("probe hit")
			return true
		}
	}
	return false
}
