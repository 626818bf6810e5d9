package sim

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/systems"
	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/scene"
)

var (
	_ systems.System = (*PhysicsSystem)(nil)
	_ systems.System = (*commandSystem)(nil)
)

// PhysicsSystem advances a World once per tick in a fixed number of substeps.
// Diagnostics are reset at the start of every tick.
type PhysicsSystem struct {
	systems.Base

	world    *physics.World
	substeps int
	diag     physics.Diagnostics
}

func NewPhysicsSystem(world *physics.World, substeps int) *PhysicsSystem {
	return &PhysicsSystem{
		Base:     systems.NewBase("physics", systems.PriorityNormal, systems.PhaseFixedUpdate),
		world:    world,
		substeps: substeps,
	}
}

func (s *PhysicsSystem) Initialize(context.Context) error {
	s.SetState(systems.StateRunning)
	return nil
}

func (s *PhysicsSystem) Shutdown(context.Context) error {
	s.SetState(systems.StateShutdown)
	return nil
}

func (s *PhysicsSystem) FixedUpdate(dt float64) error {
	s.diag.Reset()
	err := s.Track(func() (int, error) {
		return s.world.Len(), s.world.UpdateWithDiagnostics(dt, s.substeps, &s.diag)
	})
	if err != nil {
		s.SetState(systems.StateFailed)
	}
	return err
}

// Diagnostics returns what happened during the last tick. The value is
// reused by the next tick.
func (s *PhysicsSystem) Diagnostics() *physics.Diagnostics { return &s.diag }

// commandSystem drains the input queue before physics runs. Rejected
// commands are logged and counted; they never fail the tick.
type commandSystem struct {
	systems.Base

	world  *physics.World
	queue  chan Command
	spawn  SpawnConfig
	rng    *rand.Rand
	logger log.Log

	sinceSpawn float64
}

func newCommandSystem(world *physics.World, cfg Config, logger log.Log) *commandSystem {
	return &commandSystem{
		Base:       systems.NewBase("commands", systems.PriorityHigh, systems.PhasePreUpdate),
		world:      world,
		queue:      make(chan Command, cfg.CommandBuffer),
		spawn:      cfg.Spawn,
		rng:        rand.New(rand.NewSource(cfg.Spawn.Seed)),
		logger:     logger,
		sinceSpawn: cfg.Spawn.Cooldown.Seconds(),
	}
}

func (s *commandSystem) Initialize(context.Context) error {
	s.SetState(systems.StateRunning)
	return nil
}

func (s *commandSystem) Shutdown(context.Context) error {
	s.SetState(systems.StateShutdown)
	return nil
}

func (s *commandSystem) submit(cmd Command) error {
	select {
	case s.queue <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *commandSystem) FixedUpdate(dt float64) error {
	s.sinceSpawn += dt

	return s.Track(func() (int, error) {
		applied := 0
		for {
			select {
			case cmd := <-s.queue:
				if err := s.apply(cmd); err != nil {
					s.logger.Debug("command rejected",
						log.String("command", fmt.Sprintf("%T", cmd)),
						log.Error(err))
					continue
				}
				applied++
			default:
				return applied, nil
			}
		}
	})
}

func (s *commandSystem) apply(cmd Command) error {
	switch c := cmd.(type) {
	case Spawn:
		return s.applySpawn(c)
	case Nudge:
		return s.applyNudge(c)
	case Remove:
		if !s.world.Remove(c.ID) {
			return fmt.Errorf("%w: %s", ErrUnknownObject, c.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (s *commandSystem) applySpawn(c Spawn) error {
	if s.sinceSpawn < s.spawn.Cooldown.Seconds() {
		return ErrSpawnThrottled
	}

	shape := c.Shape
	shape.Type = strings.ToLower(shape.Type)
	transform := physics.Identity(c.Position)
	switch shape.Type {
	case scene.ShapeBox:
		width := s.spawn.MinWidth + s.rng.Float64()*(s.spawn.MaxWidth-s.spawn.MinWidth)
		transform.Scale = physics.V(width, 1)
	case scene.ShapePentagon:
		transform.RotationDegrees = s.spawn.PentagonRotation
	case scene.ShapeCircle:
		if shape.Radius == 0 {
			shape.Radius = s.spawn.Radius
		}
	}

	collider, err := shape.Collider()
	if err != nil {
		return err
	}
	body, err := physics.NewRigidBody(s.spawn.Body, transform)
	if err != nil {
		return err
	}
	obj, err := physics.NewGameObject(collider, body)
	if err != nil {
		return err
	}
	obj.Name = shape.Type

	if err = s.world.AddObjects(obj); err != nil {
		return err
	}
	s.sinceSpawn = 0
	return nil
}

func (s *commandSystem) applyNudge(c Nudge) error {
	obj, ok := s.world.Find(c.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObject, c.ID)
	}
	if obj.Body.IsStatic() {
		return ErrStaticObject
	}
	if !c.Position.IsFinite() {
		return fmt.Errorf("%w: nudge target %v", physics.ErrInvalidTransform, c.Position)
	}

	obj.Body.Transform.Position = c.Position
	obj.Body.LinearVelocity = physics.Vec2{}
	obj.Body.RotationalVelocity = 0
	obj.RefreshBounds()
	return nil
}
