package scene

import "github.com/go-gl/mathgl/mgl32"

// Rect is an axis-aligned rectangle, used for pointer hit-testing.
type Rect struct {
	Min, Max mgl32.Vec2
}

func NewRect(x, y, w, h float32) Rect {
	return Rect{
		Min: mgl32.Vec2{x, y},
		Max: mgl32.Vec2{x + w, y + h},
	}
}

func (r Rect) Size() mgl32.Vec2   { return r.Max.Sub(r.Min) }
func (r Rect) Center() mgl32.Vec2 { return r.Min.Add(r.Max).Mul(0.5) }

func (r Rect) Contains(p mgl32.Vec2) bool {
	return p.X() >= r.Min.X() && p.X() <= r.Max.X() &&
		p.Y() >= r.Min.Y() && p.Y() <= r.Max.Y()
}

func (r Rect) Intersects(o Rect) bool {
	return r.Min.X() <= o.Max.X() && r.Max.X() >= o.Min.X() &&
		r.Min.Y() <= o.Max.Y() && r.Max.Y() >= o.Min.Y()
}

// Translated returns the rect shifted by d.
func (r Rect) Translated(d mgl32.Vec2) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}
