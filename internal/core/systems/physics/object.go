package physics

import (
	"fmt"

	"github.com/google/uuid"
)

// GameObject pairs one collider with one rigid body and caches the
// world-space bounds computed after the last integration.
type GameObject struct {
	ID       uuid.UUID
	Name     string
	Collider Collider
	Body     *RigidBody

	bounds AABB
}

func NewGameObject(collider Collider, body *RigidBody) (*GameObject, error) {
	if collider == nil {
		return nil, fmt.Errorf("%w: nil collider", ErrNilObject)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: nil rigid body", ErrNilObject)
	}
	if collider.Kind() >= numColliderKinds {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColliderID, uint8(collider.Kind()))
	}

	obj := &GameObject{
		ID:       uuid.New(),
		Collider: collider,
		Body:     body,
	}
	obj.RefreshBounds()
	return obj, nil
}

// Bounds returns the cached world-space bounding box.
func (o *GameObject) Bounds() AABB { return o.bounds }

// RefreshBounds recomputes the cached bounds from the current transform.
func (o *GameObject) RefreshBounds() {
	o.bounds = o.Collider.Bounds(o.Body.Transform)
}

// Center is the world-space reference point used for normal orientation and
// impulse lever arms.
func (o *GameObject) Center() Vec2 { return o.Body.Transform.Position }
