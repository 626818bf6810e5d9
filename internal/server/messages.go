package server

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/scene"
	"github.com/zeusync/rigid2d/internal/sim"
)

// Outbound message types.
const (
	MessageWelcome = "welcome"
	MessageFrame   = "frame"
	MessageCulled  = "culled"
	MessageError   = "error"
)

// Message is the envelope for everything sent to clients.
type Message struct {
	Type     string      `json:"type"`
	ClientID string      `json:"client_id,omitempty"`
	Tick     uint64      `json:"tick,omitempty"`
	Frame    *sim.Frame  `json:"frame,omitempty"`
	Culled   []uuid.UUID `json:"culled,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ControlMessage is an input action sent by a client.
//
//	{"action": "spawn", "shape": "box", "x": 1, "y": 4}
//	{"action": "nudge", "id": "<uuid>", "x": 0, "y": 2}
//	{"action": "remove", "id": "<uuid>"}
type ControlMessage struct {
	Action string  `json:"action"`
	Shape  string  `json:"shape,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Sides  int     `json:"sides,omitempty"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Command converts the message into a simulation command.
func (m ControlMessage) Command() (sim.Command, error) {
	pos := physics.V(m.X, m.Y)
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: position is not finite", ErrInvalidMessage)
	}

	switch strings.ToLower(m.Action) {
	case "spawn":
		if m.Shape == "" {
			return nil, fmt.Errorf("%w: spawn requires a shape", ErrInvalidMessage)
		}
		return sim.Spawn{
			Shape:    scene.Shape{Type: m.Shape, Radius: m.Radius, Sides: m.Sides},
			Position: pos,
		}, nil
	case "nudge", "remove":
		id, err := uuid.Parse(m.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		if strings.EqualFold(m.Action, "remove") {
			return sim.Remove{ID: id}, nil
		}
		return sim.Nudge{ID: id, Position: pos}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidMessage, m.Action)
	}
}
