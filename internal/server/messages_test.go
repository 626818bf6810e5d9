package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/sim"
)

func TestControlMessage_Command(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		msg     ControlMessage
		want    sim.Command
		wantErr bool
	}{
		{
			name: "spawn",
			msg:  ControlMessage{Action: "spawn", Shape: "box", X: 1, Y: 4},
			want: sim.Spawn{Shape: shapeOf("box"), Position: physics.V(1, 4)},
		},
		{
			name: "spawn upper case",
			msg:  ControlMessage{Action: "SPAWN", Shape: "circle", Radius: 2},
			want: sim.Spawn{Shape: shapeOf("circle", 2), Position: physics.Vec2{}},
		},
		{
			name: "nudge",
			msg:  ControlMessage{Action: "nudge", ID: id.String(), X: -2, Y: 3},
			want: sim.Nudge{ID: id, Position: physics.V(-2, 3)},
		},
		{
			name: "remove",
			msg:  ControlMessage{Action: "remove", ID: id.String()},
			want: sim.Remove{ID: id},
		},
		{name: "spawn without shape", msg: ControlMessage{Action: "spawn"}, wantErr: true},
		{name: "bad id", msg: ControlMessage{Action: "nudge", ID: "nope"}, wantErr: true},
		{name: "unknown action", msg: ControlMessage{Action: "explode"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Command()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
