package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera2D provides an orthographic camera with position, rotation, zoom.
type Camera2D struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
	X, Y                     float32
	RotationRad              float32
	Zoom                     float32 // 1 = no zoom
	vp                       mgl32.Mat4
	dirty                    bool
}

func NewCamera2D(width, height int) *Camera2D {
	halfW := float32(width) * 0.5
	halfH := float32(height) * 0.5
	c := &Camera2D{
		Left: -halfW, Right: halfW,
		Bottom: -halfH, Top: halfH,
		Near: -1, Far: 1,
		Zoom: 1,
	}
	c.Recalculate()
	return c
}

func (c *Camera2D) Width() float32  { return c.Right - c.Left }
func (c *Camera2D) Height() float32 { return c.Top - c.Bottom }

func (c *Camera2D) SetViewportPixels(w, h int) {
	halfW := float32(w) * 0.5
	halfH := float32(h) * 0.5
	c.Left, c.Right = -halfW, halfW
	c.Bottom, c.Top = -halfH, halfH
	c.dirty = true
}

func (c *Camera2D) SetPosition(x, y float32) { c.X, c.Y = x, y; c.dirty = true }
func (c *Camera2D) Move(dx, dy float32)      { c.X += dx; c.Y += dy; c.dirty = true }
func (c *Camera2D) Rotate(dRad float32)      { c.RotationRad += dRad; c.dirty = true }

func (c *Camera2D) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
	c.dirty = true
}

func (c *Camera2D) VP() mgl32.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

func (c *Camera2D) Recalculate() {
	// Ortho scaled by Zoom
	z := c.Zoom
	proj := mgl32.Ortho(c.Left/z, c.Right/z, c.Bottom/z, c.Top/z, c.Near, c.Far)

	// view = R(-rot) · T(-pos), column-vector math
	view := mgl32.HomogRotate3DZ(-c.RotationRad).Mul4(mgl32.Translate3D(-c.X, -c.Y, 0))

	c.vp = proj.Mul4(view)
	c.dirty = false
}
