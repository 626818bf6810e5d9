package sim

import (
	"github.com/google/uuid"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/scene"
)

// Command is an input action applied to the world between ticks.
type Command interface {
	command()
}

// Submitter accepts commands for the next tick.
type Submitter interface {
	Submit(cmd Command) error
}

// Spawn adds a dynamic body with the configured spawn parameters.
type Spawn struct {
	Shape    scene.Shape
	Position physics.Vec2
}

// Nudge teleports a dynamic body and clears its velocity.
type Nudge struct {
	ID       uuid.UUID
	Position physics.Vec2
}

// Remove deletes an object from the world.
type Remove struct {
	ID uuid.UUID
}

func (Spawn) command()  {}
func (Nudge) command()  {}
func (Remove) command() {}
