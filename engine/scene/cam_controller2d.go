package scene

import "github.com/quillworks/quill/engine/core"

// CamController2D: WASD/arrow move, scroll zoom.
type CamController2D struct {
	MoveSpeed float32
	ZoomStep  float32
	Camera    *Camera2D
}

func NewCamController2D(cam *Camera2D) *CamController2D {
	return &CamController2D{
		MoveSpeed: 300,
		ZoomStep:  1.1,
		Camera:    cam,
	}
}

func (cc *CamController2D) Update(e *core.Engine, dt float64) {
	in := e.Input()
	speed := cc.MoveSpeed * float32(dt)

	if in.IsKeyDown(core.KeyW) || in.IsKeyDown(core.KeyUp) {
		cc.Camera.Move(0, speed)
	}
	if in.IsKeyDown(core.KeyS) || in.IsKeyDown(core.KeyDown) {
		cc.Camera.Move(0, -speed)
	}
	if in.IsKeyDown(core.KeyA) || in.IsKeyDown(core.KeyLeft) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyD) || in.IsKeyDown(core.KeyRight) {
		cc.Camera.Move(speed, 0)
	}
}

// HandleEvent applies scroll-wheel zoom. Returns true when consumed.
func (cc *CamController2D) HandleEvent(ev core.Event) bool {
	if s, ok := ev.(core.EventScroll); ok && s.Yoff != 0 {
		if s.Yoff > 0 {
			cc.Camera.SetZoom(cc.Camera.Zoom * cc.ZoomStep)
		} else {
			cc.Camera.SetZoom(cc.Camera.Zoom / cc.ZoomStep)
		}
		return true
	}
	return false
}
