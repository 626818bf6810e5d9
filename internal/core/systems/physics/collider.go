package physics

import (
	"fmt"
	"math"
)

// ColliderKind tags the collider variants. It indexes the narrow phase
// dispatch table.
type ColliderKind uint8

const (
	KindCircle ColliderKind = iota
	KindPolygon

	numColliderKinds
)

func (k ColliderKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("ColliderKind(%d)", uint8(k))
	}
}

func (k ColliderKind) MarshalText() ([]byte, error) {
	if k >= numColliderKinds {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColliderID, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ColliderKind) UnmarshalText(text []byte) error {
	for kind := range numColliderKinds {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidColliderID, text)
}

// Collider is body-local geometry. World-space geometry is obtained through
// the owning body's transform.
type Collider interface {
	Kind() ColliderKind
	// Bounds returns the world-space bounding box under t.
	Bounds(t Transform) AABB
}

var (
	_ Collider = (*Circle)(nil)
	_ Collider = (*Polygon)(nil)
)

// Circle is a disc of fixed local radius centered on the body origin.
type Circle struct {
	radius float64
}

func NewCircle(radius float64) (*Circle, error) {
	if !isFinite(radius) || radius <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return &Circle{radius: radius}, nil
}

func (c *Circle) Kind() ColliderKind { return KindCircle }

func (c *Circle) Radius() float64 { return c.radius }

// WorldRadius maps the segment (0,0)-(radius,0) through t and returns its
// length and the mapped center. Non-uniform scale therefore approximates the
// resulting ellipse by a circle.
func (c *Circle) WorldRadius(t Transform) (float64, Vec2) {
	center := t.Apply(Vec2{})
	edge := t.Apply(Vec2{X: c.radius})
	return edge.Distance(center), center
}

func (c *Circle) Bounds(t Transform) AABB {
	r, center := c.WorldRadius(t)
	return AABB{MinX: center.X - r, MinY: center.Y - r, MaxX: center.X + r, MaxY: center.Y + r}
}

// Polygon is a convex polygon whose vertices lie on the unit circle. Shape
// size comes from the owning transform's scale.
type Polygon struct {
	vertices []Vec2
}

// NewPolygon normalizes every vertex to unit length and validates that the
// result is a non-degenerate convex polygon. The input slice is not modified.
func NewPolygon(vertices []Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, len(vertices))
	}

	normalized := make([]Vec2, len(vertices))
	for i, v := range vertices {
		if !v.IsFinite() {
			return nil, fmt.Errorf("%w: vertex %d is not finite", ErrDegenerateEdge, i)
		}
		normalized[i] = v.Normalize()
	}

	var winding float64
	for i := range normalized {
		a := normalized[i]
		b := normalized[(i+1)%len(normalized)]
		c := normalized[(i+2)%len(normalized)]

		if b.Sub(a).LengthSq() < Epsilon*Epsilon {
			return nil, fmt.Errorf("%w: vertices %d and %d", ErrDegenerateEdge, i, (i+1)%len(normalized))
		}

		turn := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(turn) < Epsilon*Epsilon {
			continue
		}
		if winding == 0 {
			winding = math.Copysign(1, turn)
		} else if math.Copysign(1, turn) != winding {
			return nil, fmt.Errorf("%w: turn direction flips at vertex %d", ErrNonConvexPolygon, (i+1)%len(normalized))
		}
	}
	if winding == 0 {
		return nil, fmt.Errorf("%w: all vertices are collinear", ErrDegenerateEdge)
	}

	return &Polygon{vertices: normalized}, nil
}

// MustPolygon is NewPolygon for literals known to be valid.
func MustPolygon(vertices ...Vec2) *Polygon {
	p, err := NewPolygon(vertices)
	if err != nil {
		panic(err)
	}
	return p
}

// NewBox is the unit square with corners on the unit circle.
func NewBox() *Polygon {
	return MustPolygon(V(-1, -1), V(-1, 1), V(1, 1), V(1, -1))
}

// NewPentagon is a regular pentagon with a vertex on the negative x axis.
func NewPentagon() *Polygon {
	return MustPolygon(
		V(-1.0, 0.0),
		V(-0.309016994375, 0.951056516295),
		V(0.809016994375, 0.587785252292),
		V(0.809016994375, -0.587785252292),
		V(-0.309016994375, -0.951056516295),
	)
}

// NewRegularPolygon returns a regular polygon with n sides, wound clockwise
// like the other presets.
func NewRegularPolygon(n int) (*Polygon, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, n)
	}
	vertices := make([]Vec2, n)
	for i := range vertices {
		angle := math.Pi - 2*math.Pi*float64(i)/float64(n)
		vertices[i] = V(math.Cos(angle), math.Sin(angle))
	}
	return NewPolygon(vertices)
}

func (p *Polygon) Kind() ColliderKind { return KindPolygon }

// Vertices returns a copy of the local-space vertices.
func (p *Polygon) Vertices() []Vec2 {
	out := make([]Vec2, len(p.vertices))
	copy(out, p.vertices)
	return out
}

func (p *Polygon) WorldVertices(t Transform) []Vec2 {
	return t.TransformPoints(p.vertices)
}

func (p *Polygon) Bounds(t Transform) AABB {
	return boundsOf(p.WorldVertices(t))
}
