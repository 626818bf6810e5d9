package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	unitBody   = BodyConfig{Mass: 1, Inertia: 1}
	staticBody = BodyConfig{Type: BodyStatic}
)

func newTestCircle(t testing.TB, radius float64, pos Vec2, cfg BodyConfig) *GameObject {
	t.Helper()

	circle, err := NewCircle(radius)
	require.NoError(t, err)
	body, err := NewRigidBody(cfg, Identity(pos))
	require.NoError(t, err)
	obj, err := NewGameObject(circle, body)
	require.NoError(t, err)
	return obj
}

// newTestBox builds an axis-aligned box with the given world half extents.
// Box preset corners sit at ±1/√2, so the scale compensates.
func newTestBox(t testing.TB, pos, half Vec2, rotation float64, cfg BodyConfig) *GameObject {
	t.Helper()

	body, err := NewRigidBody(cfg, NewTransform(pos, half.Scale(math.Sqrt2), rotation))
	require.NoError(t, err)
	obj, err := NewGameObject(NewBox(), body)
	require.NoError(t, err)
	return obj
}

// newTestPlatform is a static 20x1 slab whose top face lies on y = 0.
func newTestPlatform(t testing.TB) *GameObject {
	t.Helper()
	return newTestBox(t, V(0, -0.5), V(10, 0.5), 0, staticBody)
}

func newTestWorld(t testing.TB, objects ...*GameObject) *World {
	t.Helper()

	w := NewWorld(DefaultWorldConfig(), nil)
	require.NoError(t, w.AddObjects(objects...))
	return w
}

func assertVecInDelta(t testing.TB, expected, actual Vec2, delta float64) {
	t.Helper()
	require.InDelta(t, expected.X, actual.X, delta, "x of %v", actual)
	require.InDelta(t, expected.Y, actual.Y, delta, "y of %v", actual)
}
