package scene

import (
	"fmt"
	"strings"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
)

// Shape names accepted in scene files and spawn commands.
const (
	ShapeCircle   = "circle"
	ShapePolygon  = "polygon"
	ShapeBox      = "box"
	ShapePentagon = "pentagon"
	ShapeRegular  = "regular"
)

// Shape describes a collider. Radius applies to circles, Sides to regular
// polygons and Vertices to free-form polygons.
type Shape struct {
	Type     string         `json:"type" yaml:"type"`
	Radius   float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Sides    int            `json:"sides,omitempty" yaml:"sides,omitempty"`
	Vertices []physics.Vec2 `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

// Collider builds the physics collider the shape describes.
func (s Shape) Collider() (physics.Collider, error) {
	switch strings.ToLower(s.Type) {
	case ShapeCircle:
		radius := s.Radius
		if radius == 0 {
			radius = 1
		}
		return physics.NewCircle(radius)
	case ShapeBox:
		return physics.NewBox(), nil
	case ShapePentagon:
		return physics.NewPentagon(), nil
	case ShapeRegular:
		return physics.NewRegularPolygon(s.Sides)
	case ShapePolygon:
		return physics.NewPolygon(s.Vertices)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Type)
	}
}
