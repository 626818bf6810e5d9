package physics

import "fmt"

// Transform maps body-local points into world space: scale, then rotate,
// then translate.
type Transform struct {
	Position        Vec2    `json:"position" yaml:"position"`
	Scale           Vec2    `json:"scale" yaml:"scale"`
	RotationDegrees float64 `json:"rotation" yaml:"rotation"`
}

func NewTransform(position, scale Vec2, rotationDegrees float64) Transform {
	return Transform{Position: position, Scale: scale, RotationDegrees: rotationDegrees}
}

// Identity places a unit-scaled, unrotated shape at position.
func Identity(position Vec2) Transform {
	return Transform{Position: position, Scale: V(1, 1)}
}

// Validate rejects transforms that cannot be inverted.
func (t Transform) Validate() error {
	if t.Scale.X == 0 || t.Scale.Y == 0 || !t.Scale.IsFinite() {
		return fmt.Errorf("%w: %v", ErrInvalidScale, t.Scale)
	}
	if !t.Position.IsFinite() || !isFinite(t.RotationDegrees) {
		return fmt.Errorf("%w: non-finite position or rotation", ErrInvalidTransform)
	}
	return nil
}

// Apply maps a single local point into world space.
func (t Transform) Apply(p Vec2) Vec2 {
	scaled := Vec2{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y}
	return scaled.Rotate(radians(t.RotationDegrees)).Add(t.Position)
}

// ApplyInverse maps a world point back into local space.
func (t Transform) ApplyInverse(p Vec2) Vec2 {
	r := p.Sub(t.Position).Rotate(-radians(t.RotationDegrees))
	return Vec2{X: r.X / t.Scale.X, Y: r.Y / t.Scale.Y}
}

// TransformPoints maps every point into world space and returns a new slice.
func (t Transform) TransformPoints(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// InverseTransformPoints is the exact inverse of TransformPoints.
func (t Transform) InverseTransformPoints(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = t.ApplyInverse(p)
	}
	return out
}
