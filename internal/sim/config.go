package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
)

// Config controls the frame loop and the input command queue.
type Config struct {
	TickRate      int         `json:"tick_rate" yaml:"tick_rate"`
	Substeps      int         `json:"substeps" yaml:"substeps"`
	MaxCatchUp    int         `json:"max_catch_up" yaml:"max_catch_up"`
	SnapshotEvery int         `json:"snapshot_every" yaml:"snapshot_every"`
	Topic         string      `json:"topic" yaml:"topic"`
	CommandBuffer int         `json:"command_buffer" yaml:"command_buffer"`
	Spawn         SpawnConfig `json:"spawn" yaml:"spawn"`
}

// SpawnConfig describes bodies created by spawn commands. Boxes get a random
// width in [MinWidth, MaxWidth); pentagons are tilted by PentagonRotation.
type SpawnConfig struct {
	Body             physics.BodyConfig `json:"body" yaml:"body"`
	Radius           float64            `json:"radius" yaml:"radius"`
	MinWidth         float64            `json:"min_width" yaml:"min_width"`
	MaxWidth         float64            `json:"max_width" yaml:"max_width"`
	PentagonRotation float64            `json:"pentagon_rotation" yaml:"pentagon_rotation"`
	Cooldown         time.Duration      `json:"cooldown" yaml:"cooldown"`
	Seed             int64              `json:"seed" yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		TickRate:      60,
		Substeps:      16,
		MaxCatchUp:    5,
		SnapshotEvery: 1,
		Topic:         "world",
		CommandBuffer: 256,
		Spawn:         DefaultSpawnConfig(),
	}
}

func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Body: physics.BodyConfig{
			Type:            physics.BodyDynamic,
			Mass:            0.1,
			Inertia:         0.01,
			Restitution:     0.2,
			StaticFriction:  0.5,
			DynamicFriction: 0.3,
		},
		Radius:           0.5,
		MinWidth:         1,
		MaxWidth:         2,
		PentagonRotation: 18.2,
		Cooldown:         100 * time.Millisecond,
		Seed:             1,
	}
}

// FixedDelta is the simulated time advanced by one tick.
func (c Config) FixedDelta() float64 { return 1 / float64(c.TickRate) }

func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.Substeps <= 0 {
		errs = append(errs, fmt.Errorf("substeps: %w", physics.ErrInvalidSubsteps))
	}
	if c.MaxCatchUp <= 0 {
		errs = append(errs, fmt.Errorf("max_catch_up must be positive, got %d", c.MaxCatchUp))
	}
	if c.SnapshotEvery <= 0 {
		errs = append(errs, fmt.Errorf("snapshot_every must be positive, got %d", c.SnapshotEvery))
	}
	if c.CommandBuffer <= 0 {
		errs = append(errs, fmt.Errorf("command_buffer must be positive, got %d", c.CommandBuffer))
	}
	if err := c.Spawn.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spawn: %w", err))
	}
	return errors.Join(errs...)
}

func (c SpawnConfig) Validate() error {
	var errs []error
	if c.Body.Type != physics.BodyDynamic {
		errs = append(errs, fmt.Errorf("%w: spawned bodies must be dynamic", physics.ErrInvalidBodyType))
	}
	if err := c.Body.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %v", physics.ErrInvalidRadius, c.Radius))
	}
	if c.MinWidth <= 0 || c.MaxWidth < c.MinWidth {
		errs = append(errs, fmt.Errorf("%w: width range [%v, %v)", physics.ErrInvalidScale, c.MinWidth, c.MaxWidth))
	}
	if c.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("cooldown must not be negative, got %v", c.Cooldown))
	}
	return errors.Join(errs...)
}
