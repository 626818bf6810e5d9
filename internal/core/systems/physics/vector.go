package physics

import "math"

// Epsilon is the tolerance shared by every near-equality test in the engine:
// contact point deduplication, manifold distance matching and tangent checks.
const Epsilon = 0.0005

// Vec2 is a 2D vector value. Derived operations return new values; only
// AddInPlace mutates its receiver.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Neg() Vec2 { return Vec2{X: -v.X, Y: -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Perpendicular returns v rotated by +90 degrees.
func (v Vec2) Perpendicular() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector along v. The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	n, _ := v.NormalLength()
	return n
}

// NormalLength returns the unit vector along v together with the length of v.
func (v Vec2) NormalLength() (Vec2, float64) {
	l := v.Length()
	if l == 0 {
		return Vec2{}, 0
	}
	return Vec2{X: v.X / l, Y: v.Y / l}, l
}

func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

func (v Vec2) DistanceSq(o Vec2) float64 { return v.Sub(o).LengthSq() }

// Project returns the projection of v onto axis. A zero axis yields zero.
func (v Vec2) Project(axis Vec2) Vec2 {
	l := axis.LengthSq()
	if l == 0 {
		return Vec2{}
	}
	return axis.Scale(v.Dot(axis) / l)
}

// Rotate rotates v counter-clockwise by the given angle in radians.
func (v Vec2) Rotate(radians float64) Vec2 {
	sin, cos := math.Sincos(radians)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// AlmostEqual reports whether both components differ by less than Epsilon.
func (v Vec2) AlmostEqual(o Vec2) bool {
	return almostEqual(v.X, o.X) && almostEqual(v.Y, o.Y)
}

// AddInPlace accumulates o into v.
func (v *Vec2) AddInPlace(o Vec2) {
	v.X += o.X
	v.Y += o.Y
}

func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < Epsilon }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func degrees(radians float64) float64 { return radians * 180 / math.Pi }

func radians(degrees float64) float64 { return degrees * math.Pi / 180 }
