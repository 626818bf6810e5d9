package physics

import "math"

// AABB is an axis-aligned bounding box. It is derived from geometry and
// recomputed rather than mutated.
type AABB struct {
	MinX float64 `json:"minX" yaml:"min_x"`
	MinY float64 `json:"minY" yaml:"min_y"`
	MaxX float64 `json:"maxX" yaml:"max_x"`
	MaxY float64 `json:"maxY" yaml:"max_y"`
}

func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Overlap reports whether the open intervals of a and b intersect on both
// axes. Boxes that only touch do not overlap.
func Overlap(a, b AABB) bool {
	return a.MaxX > b.MinX && a.MinX < b.MaxX && a.MaxY > b.MinY && a.MinY < b.MaxY
}

func (b AABB) Overlaps(o AABB) bool { return Overlap(b, o) }

func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

func (b AABB) Center() Vec2 {
	return Vec2{X: (b.MinX + b.MaxX) * 0.5, Y: (b.MinY + b.MaxY) * 0.5}
}

func (b AABB) Width() float64 { return b.MaxX - b.MinX }

func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Transform returns the bounds of this box's corners mapped through t.
func (b AABB) Transform(t Transform) AABB {
	return boundsOf(t.TransformPoints([]Vec2{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}))
}

func boundsOf(points []Vec2) AABB {
	box := AABB{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range points {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	return box
}
