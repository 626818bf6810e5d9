package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec2(t *testing.T) {
	t.Run("Arithmetic", func(t *testing.T) {
		a, b := V(1, 2), V(3, -4)

		assert.Equal(t, V(4, -2), a.Add(b))
		assert.Equal(t, V(-2, 6), a.Sub(b))
		assert.Equal(t, V(2, 4), a.Scale(2))
		assert.Equal(t, V(-1, -2), a.Neg())
		assert.Equal(t, -5.0, a.Dot(b))
		assert.Equal(t, -10.0, a.Cross(b))
		assert.Equal(t, V(-2, 1), a.Perpendicular())
	})

	t.Run("Normalize", func(t *testing.T) {
		n, length := V(3, 4).NormalLength()
		assert.InDelta(t, 5.0, length, 1e-12)
		assertVecInDelta(t, V(0.6, 0.8), n, 1e-12)

		assert.Equal(t, Vec2{}, Vec2{}.Normalize())
	})

	t.Run("Rotate", func(t *testing.T) {
		assertVecInDelta(t, V(0, 1), V(1, 0).Rotate(math.Pi/2), 1e-12)
		assertVecInDelta(t, V(-1, 0), V(1, 0).Rotate(math.Pi), 1e-12)
	})

	t.Run("AddInPlace", func(t *testing.T) {
		v := V(1, 1)
		v.AddInPlace(V(2, 3))
		assert.Equal(t, V(3, 4), v)
	})

	t.Run("Finite", func(t *testing.T) {
		assert.True(t, V(1, 2).IsFinite())
		assert.False(t, V(math.NaN(), 0).IsFinite())
		assert.False(t, V(0, math.Inf(-1)).IsFinite())
	})
}

func TestTransform(t *testing.T) {
	t.Run("ScaleRotateTranslate", func(t *testing.T) {
		tr := NewTransform(V(10, 0), V(2, 1), 90)
		assertVecInDelta(t, V(10, 2), tr.Apply(V(1, 0)), 1e-12)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for range 200 {
			sx := 0.1 + rng.Float64()*10
			sy := 0.1 + rng.Float64()*10
			if rng.Intn(2) == 0 {
				sx = -sx
			}
			tr := NewTransform(
				V(rng.Float64()*200-100, rng.Float64()*200-100),
				V(sx, sy),
				rng.Float64()*720-360,
			)
			require.NoError(t, tr.Validate())

			points := []Vec2{
				V(rng.Float64()*20-10, rng.Float64()*20-10),
				V(rng.Float64()*20-10, rng.Float64()*20-10),
			}
			back := tr.InverseTransformPoints(tr.TransformPoints(points))
			for i := range points {
				assertVecInDelta(t, points[i], back[i], 1e-9)
			}
		}
	})

	t.Run("Validate", func(t *testing.T) {
		assert.ErrorIs(t, NewTransform(Vec2{}, V(0, 1), 0).Validate(), ErrInvalidScale)
		assert.ErrorIs(t, NewTransform(Vec2{}, V(1, math.Inf(1)), 0).Validate(), ErrInvalidScale)
		assert.ErrorIs(t, NewTransform(V(math.NaN(), 0), V(1, 1), 0).Validate(), ErrInvalidTransform)
		assert.NoError(t, Identity(V(1, 1)).Validate())
	})
}

func TestAABB(t *testing.T) {
	cases := []struct {
		name string
		a, b AABB
		want bool
	}{
		{"Overlapping", NewAABB(0, 0, 2, 2), NewAABB(1, 1, 3, 3), true},
		{"Contained", NewAABB(0, 0, 10, 10), NewAABB(4, 4, 5, 5), true},
		{"TouchingEdge", NewAABB(0, 0, 1, 1), NewAABB(1, 0, 2, 1), false},
		{"TouchingCorner", NewAABB(0, 0, 1, 1), NewAABB(1, 1, 2, 2), false},
		{"SeparatedX", NewAABB(0, 0, 1, 1), NewAABB(5, 0, 6, 1), false},
		{"SeparatedY", NewAABB(0, 0, 1, 1), NewAABB(0, -3, 1, -2), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlap(tc.a, tc.b))
			assert.Equal(t, Overlap(tc.a, tc.b), Overlap(tc.b, tc.a))
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
		})
	}

	t.Run("Transform", func(t *testing.T) {
		box := NewAABB(-1, -1, 1, 1).Transform(NewTransform(V(5, 5), V(2, 1), 0))
		assert.InDelta(t, 3.0, box.MinX, 1e-12)
		assert.InDelta(t, 7.0, box.MaxX, 1e-12)
		assert.InDelta(t, 4.0, box.MinY, 1e-12)
		assert.InDelta(t, 6.0, box.MaxY, 1e-12)
		assert.Equal(t, V(5, 5), box.Center())
	})
}
