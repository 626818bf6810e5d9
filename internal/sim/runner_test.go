package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/systems"
	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/scene"
)

func newTestRunner(t *testing.T, cfg Config) (*Runner, *physics.World, bus.EventBus) {
	t.Helper()

	world, err := scene.Default().NewWorld(nil)
	require.NoError(t, err)
	b := bus.New()
	r, err := NewRunner(world, b, cfg, nil)
	require.NoError(t, err)
	return r, world, b
}

func dynamicObjects(w *physics.World) []*physics.GameObject {
	var out []*physics.GameObject
	for _, obj := range w.Objects() {
		if !obj.Body.IsStatic() {
			out = append(out, obj)
		}
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TickRate = 0
	cfg.Substeps = -1
	cfg.Spawn.Body.Mass = 0
	cfg.Spawn.MaxWidth = 0.5

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, physics.ErrInvalidSubsteps)
	assert.ErrorIs(t, err, physics.ErrInvalidMass)
	assert.ErrorIs(t, err, physics.ErrInvalidScale)
	assert.Contains(t, err.Error(), "tick_rate")

	cfg = DefaultConfig()
	cfg.Spawn.Body.Type = physics.BodyStatic
	assert.ErrorIs(t, cfg.Validate(), physics.ErrInvalidBodyType)
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotEvery = 0
	_, err := NewRunner(physics.NewWorld(physics.DefaultWorldConfig(), nil), nil, cfg, nil)
	assert.Error(t, err)

	_, err = NewRunner(nil, nil, DefaultConfig(), nil)
	assert.ErrorIs(t, err, physics.ErrNilObject)
}

func TestRunnerSpawn(t *testing.T) {
	r, world, _ := newTestRunner(t, DefaultConfig())
	dt := DefaultConfig().FixedDelta()

	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeBox}, Position: physics.V(0, 5)}))
	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapePentagon}, Position: physics.V(2, 5)}))
	require.NoError(t, r.Tick(dt))

	spawned := dynamicObjects(world)
	require.Len(t, spawned, 1, "second spawn in the same tick is throttled")
	box := spawned[0]
	assert.Equal(t, scene.ShapeBox, box.Name)
	assert.GreaterOrEqual(t, box.Body.Transform.Scale.X, 1.0)
	assert.Less(t, box.Body.Transform.Scale.X, 2.0)
	assert.Equal(t, 1.0, box.Body.Transform.Scale.Y)

	// cooldown has not elapsed on the next tick
	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeCircle}, Position: physics.V(-2, 5)}))
	require.NoError(t, r.Tick(dt))
	assert.Len(t, dynamicObjects(world), 1)

	for range 7 {
		require.NoError(t, r.Tick(dt))
	}
	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: "Pentagon"}, Position: physics.V(-2, 5)}))
	require.NoError(t, r.Tick(dt))

	spawned = dynamicObjects(world)
	require.Len(t, spawned, 2)
	assert.Equal(t, scene.ShapePentagon, spawned[1].Name)
	assert.InDelta(t, 18.2, spawned[1].Body.Transform.RotationDegrees, 1e-9)

	assert.Equal(t, uint64(10), r.Stats().Tick)
	assert.Equal(t, 5, r.Stats().Objects)
}

func TestRunnerSpawnCircleUsesConfiguredRadius(t *testing.T) {
	r, world, _ := newTestRunner(t, DefaultConfig())

	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeCircle}, Position: physics.V(0, 0)}))
	require.NoError(t, r.Tick(0))

	spawned := dynamicObjects(world)
	require.Len(t, spawned, 1)
	circle, ok := spawned[0].Collider.(*physics.Circle)
	require.True(t, ok)
	assert.Equal(t, 0.5, circle.Radius())
}

func TestRunnerNudgeAndRemove(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spawn.Cooldown = 0
	r, world, _ := newTestRunner(t, cfg)
	dt := cfg.FixedDelta()

	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeCircle}, Position: physics.V(0, 10)}))
	for range 10 {
		require.NoError(t, r.Tick(dt))
	}
	ball := dynamicObjects(world)[0]
	require.Less(t, ball.Body.LinearVelocity.Y, -1.0)

	require.NoError(t, r.Submit(Nudge{ID: ball.ID, Position: physics.V(3, 3)}))
	require.NoError(t, r.Tick(dt))
	assert.InDelta(t, 3.0, ball.Body.Transform.Position.X, 1e-9)
	assert.InDelta(t, 3.0, ball.Body.Transform.Position.Y, 1e-2)
	assert.InDelta(t, -physics.Gravity.Y*-dt, ball.Body.LinearVelocity.Y, 1e-9, "velocity restarts from rest")

	platform := world.Objects()[0]
	require.True(t, platform.Body.IsStatic())
	require.NoError(t, r.Submit(Nudge{ID: platform.ID, Position: physics.V(0, 0)}))
	require.NoError(t, r.Submit(Nudge{ID: uuid.New(), Position: physics.V(0, 0)}))
	require.NoError(t, r.Tick(dt))
	assert.Equal(t, physics.V(0, -6), platform.Body.Transform.Position)

	require.NoError(t, r.Submit(Remove{ID: ball.ID}))
	require.NoError(t, r.Submit(Remove{ID: ball.ID}))
	require.NoError(t, r.Tick(dt))
	assert.Empty(t, dynamicObjects(world))
	assert.Equal(t, 3, world.Len())
}

func TestRunnerQueueFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CommandBuffer = 1
	r, _, _ := newTestRunner(t, cfg)

	require.NoError(t, r.Submit(Remove{ID: uuid.New()}))
	assert.ErrorIs(t, r.Submit(Remove{ID: uuid.New()}), ErrQueueFull)
	assert.ErrorIs(t, r.Submit(nil), ErrUnknownCommand)

	require.NoError(t, r.Tick(0))
	assert.NoError(t, r.Submit(Remove{ID: uuid.New()}))
}

func TestRunnerPublishesFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotEvery = 2
	r, _, b := newTestRunner(t, cfg)

	var frames []*Frame
	_, err := b.SubscribeTopic(cfg.Topic, EventFrame, func(e bus.Event) error {
		f, ok := FrameOf(e)
		require.True(t, ok)
		assert.Equal(t, f.Tick, e.Tick())
		frames = append(frames, f)
		return nil
	})
	require.NoError(t, err)

	// handler failures are logged, never fatal to the tick
	_, _ = b.SubscribeTopic(cfg.Topic, EventFrame, func(bus.Event) error { return errors.New("slow client") })

	assert.Nil(t, r.Latest())
	for range 5 {
		require.NoError(t, r.Tick(cfg.FixedDelta()))
	}

	require.Len(t, frames, 2)
	assert.Equal(t, uint64(2), frames[0].Tick)
	assert.Equal(t, uint64(4), frames[1].Tick)
	assert.InDelta(t, 4.0/60, frames[1].Time, 1e-12)
	assert.Len(t, frames[1].Snapshot.Objects, 3)
	assert.Same(t, frames[1], r.Latest())

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Bus.Published)
	assert.Equal(t, uint64(2), stats.Bus.Errors)
}

func TestRunnerPublishesCulled(t *testing.T) {
	r, world, b := newTestRunner(t, DefaultConfig())

	var culled []uuid.UUID
	_, err := b.SubscribeTopic("world", EventCulled, func(e bus.Event) error {
		culled = append(culled, CulledIDs(e)...)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeBox}, Position: physics.V(100, 100)}))
	require.NoError(t, r.Tick(DefaultConfig().FixedDelta()))

	require.Len(t, culled, 1)
	assert.Equal(t, 3, world.Len())
	_, found := world.Find(culled[0])
	assert.False(t, found)
}

func TestRunnerRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 200
	r, _, _ := newTestRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = r.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		f := r.Latest()
		return f != nil && f.Tick >= 3
	}, 2*time.Second, 5*time.Millisecond)

	assert.True(t, r.Stats().Running)
	assert.ErrorIs(t, r.Run(ctx), ErrAlreadyRunning)

	stats := r.Stats()
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "commands", stats.Systems[0].Name)
	assert.Equal(t, "physics", stats.Systems[1].Name)
	assert.Equal(t, systems.StateRunning.String(), stats.Systems[1].State)

	cancel()
	wg.Wait()
	assert.NoError(t, runErr)
	assert.False(t, r.Stats().Running)
	assert.Equal(t, systems.StateShutdown.String(), r.Stats().Systems[1].State)
}

func TestRunnerDeterministicSpawns(t *testing.T) {
	run := func() uint64 {
		r, world, _ := newTestRunner(t, DefaultConfig())
		dt := DefaultConfig().FixedDelta()
		for i := range 120 {
			if i%10 == 0 {
				require.NoError(t, r.Submit(Spawn{Shape: scene.Shape{Type: scene.ShapeBox}, Position: physics.V(float64(i%7)-3, 8)}))
			}
			require.NoError(t, r.Tick(dt))
		}
		return world.Snapshot().Checksum
	}

	assert.Equal(t, run(), run())
}
