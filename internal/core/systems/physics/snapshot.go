package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// ObjectState is the render-facing view of one object: collider geometry
// plus the body transform, with velocities for interpolation.
type ObjectState struct {
	ID                 uuid.UUID    `json:"id"`
	Name               string       `json:"name,omitempty"`
	Kind               ColliderKind `json:"kind"`
	Radius             float64      `json:"radius,omitempty"`
	Vertices           []Vec2       `json:"vertices,omitempty"`
	Static             bool         `json:"static"`
	Transform          Transform    `json:"transform"`
	LinearVelocity     Vec2         `json:"linear_velocity"`
	RotationalVelocity float64      `json:"rotational_velocity"`
}

// Snapshot is a copy of the world state taken between ticks.
type Snapshot struct {
	Objects  []ObjectState `json:"objects"`
	Bounds   AABB          `json:"bounds"`
	Checksum uint64        `json:"checksum"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Objects: make([]ObjectState, 0, len(w.objects)),
		Bounds:  w.bounds,
	}
	for _, obj := range w.objects {
		state := ObjectState{
			ID:                 obj.ID,
			Name:               obj.Name,
			Kind:               obj.Collider.Kind(),
			Static:             obj.Body.IsStatic(),
			Transform:          obj.Body.Transform,
			LinearVelocity:     obj.Body.LinearVelocity,
			RotationalVelocity: obj.Body.RotationalVelocity,
		}
		switch c := obj.Collider.(type) {
		case *Circle:
			state.Radius = c.Radius()
		case *Polygon:
			state.Vertices = c.Vertices()
		}
		s.Objects = append(s.Objects, state)
	}
	s.Checksum = s.ComputeChecksum()
	return s
}

// ComputeChecksum digests the kinematic state of every object in order.
// Object IDs are excluded so two worlds built from the same scene compare
// equal exactly when their simulation diverged nowhere.
func (s Snapshot) ComputeChecksum() uint64 {
	h := xxhash.New()
	var buf [8]byte

	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}

	for _, obj := range s.Objects {
		_, _ = h.Write([]byte{byte(obj.Kind)})
		write(obj.Transform.Position.X)
		write(obj.Transform.Position.Y)
		write(obj.Transform.RotationDegrees)
		write(obj.LinearVelocity.X)
		write(obj.LinearVelocity.Y)
		write(obj.RotationalVelocity)
	}
	return h.Sum64()
}
