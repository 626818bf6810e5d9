package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
)

const sampleYAML = `
world:
  bounds: { min_x: -10, min_y: -10, max_x: 10, max_y: 10 }
  resolver: basic
objects:
  - name: floor
    shape: { type: box }
    transform:
      position: { x: 0, y: -2 }
      scale: { x: 8, y: 0.5 }
    body: { type: static }
  - name: ball
    shape: { type: circle, radius: 0.5 }
    transform:
      position: { x: 0, y: 3 }
    body: { mass: 1, inertia: 0.1, restitution: 0.5, static_friction: 0.4, dynamic_friction: 0.2 }
    linear_velocity: { x: 1, y: 0 }
  - name: hex
    shape: { type: regular, sides: 6 }
    transform:
      position: { x: 2, y: 3 }
      scale: { x: 0.5, y: 0.5 }
      rotation: 30
    body: { mass: 1, inertia: 0.1 }
`

func TestLoadYAML(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, physics.NewAABB(-10, -10, 10, 10), c.World.Bounds)
	assert.Equal(t, physics.ResolveBasic, c.World.Resolver)
	require.Len(t, c.Objects, 3)
	assert.Equal(t, physics.BodyStatic, c.Objects[0].Body.Type)
	assert.Equal(t, physics.BodyDynamic, c.Objects[1].Body.Type)
	assert.Equal(t, 0.4, c.Objects[1].Body.StaticFriction)

	objects, err := c.Build()
	require.NoError(t, err)
	require.Len(t, objects, 3)

	ball := objects[1]
	assert.Equal(t, "ball", ball.Name)
	assert.Equal(t, physics.KindCircle, ball.Collider.Kind())
	assert.Equal(t, physics.V(1, 1), ball.Body.Transform.Scale, "missing scale defaults to 1")
	assert.Equal(t, physics.V(1, 0), ball.Body.LinearVelocity)

	hex, ok := objects[2].Collider.(*physics.Polygon)
	require.True(t, ok)
	assert.Len(t, hex.Vertices(), 6)
}

func TestLoadYAMLUnknownField(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("objects:\n  - name: x\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	const sample = `{
		"world": {"bounds": {"minX": -5, "minY": -5, "maxX": 5, "maxY": 5}, "resolver": "rotation"},
		"objects": [
			{"name": "tri", "shape": {"type": "polygon", "vertices": [{"x": 0, "y": 1}, {"x": 1, "y": -1}, {"x": -1, "y": -1}]},
			 "transform": {"position": {"x": 0, "y": 0}, "scale": {"x": 1, "y": 1}},
			 "body": {"mass": 2, "inertia": 1}}
		]
	}`

	c, err := LoadJSON(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, physics.ResolveRotation, c.World.Resolver)

	w, err := c.NewWorld(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, physics.NewAABB(-5, -5, 5, 5), w.Bounds())
	assert.Equal(t, physics.ResolveRotation, w.Resolver())
}

func TestWorldDefaultsWhenOmitted(t *testing.T) {
	c, err := LoadYAML(strings.NewReader("objects:\n  - shape: { type: pentagon }\n    body: { mass: 1, inertia: 1 }\n"))
	require.NoError(t, err)
	assert.Equal(t, physics.DefaultWorldConfig(), c.World)
}

func TestBuildJoinsErrors(t *testing.T) {
	c := &Config{
		World: physics.DefaultWorldConfig(),
		Objects: []Object{
			{Name: "ok", Shape: Shape{Type: ShapeBox}, Body: physics.BodyConfig{Mass: 1, Inertia: 1}},
			{Name: "blob", Shape: Shape{Type: "blob"}},
			{Name: "heavy", Shape: Shape{Type: ShapeCircle}, Body: physics.BodyConfig{Mass: -1, Inertia: 1}},
			{Name: "line", Shape: Shape{Type: ShapePolygon, Vertices: []physics.Vec2{{X: 1}, {X: -1}}}},
		},
	}

	objects, err := c.Build()
	assert.Nil(t, objects)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.ErrorIs(t, err, physics.ErrInvalidMass)
	assert.ErrorIs(t, err, physics.ErrTooFewVertices)
	assert.Contains(t, err.Error(), "object 1 (blob)")
	assert.NotContains(t, err.Error(), "(ok)")
}

func TestBuildEmpty(t *testing.T) {
	_, err := (&Config{}).Build()
	assert.True(t, errors.Is(err, ErrEmptyScene))
}

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.Objects, 3)

	objects, err := c.Build()
	require.NoError(t, err)
	for _, obj := range objects {
		assert.True(t, obj.Body.IsStatic(), obj.Name)
	}

	platform := objects[0]
	assert.Equal(t, "platform", platform.Name)
	assert.Equal(t, physics.V(0, -6), platform.Body.Transform.Position)
	assert.Equal(t, physics.NewAABB(-30, -30, 30, 30), c.World.Bounds)

	// independent copies
	c.Objects[0].Name = "changed"
	assert.Equal(t, "platform", Default().Objects[0].Name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Objects, 3)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShapeCollider(t *testing.T) {
	cases := []struct {
		shape Shape
		kind  physics.ColliderKind
	}{
		{Shape{Type: "Circle", Radius: 2}, physics.KindCircle},
		{Shape{Type: ShapeCircle}, physics.KindCircle},
		{Shape{Type: ShapeBox}, physics.KindPolygon},
		{Shape{Type: ShapePentagon}, physics.KindPolygon},
		{Shape{Type: ShapeRegular, Sides: 8}, physics.KindPolygon},
	}
	for _, tc := range cases {
		t.Run(tc.shape.Type, func(t *testing.T) {
			c, err := tc.shape.Collider()
			require.NoError(t, err)
			assert.Equal(t, tc.kind, c.Kind())
		})
	}

	_, err := Shape{Type: ShapeRegular, Sides: 2}.Collider()
	assert.ErrorIs(t, err, physics.ErrTooFewVertices)
}
