package physics

import "github.com/google/uuid"

// Diagnostics collects what happened during Update. Pass the same value to
// consecutive updates to accumulate, or Reset it between them. All methods
// accept a nil receiver.
type Diagnostics struct {
	Substeps   int
	Pairs      int
	Collisions int
	Contacts   []Vec2
	Culled     []uuid.UUID
}

func (d *Diagnostics) Reset() {
	if d == nil {
		return
	}
	d.Substeps = 0
	d.Pairs = 0
	d.Collisions = 0
	d.Contacts = d.Contacts[:0]
	d.Culled = d.Culled[:0]
}

func (d *Diagnostics) recordSubstep(pairs int) {
	if d == nil {
		return
	}
	d.Substeps++
	d.Pairs += pairs
}

func (d *Diagnostics) recordCollision(c Collision) {
	if d == nil {
		return
	}
	d.Collisions++
	d.Contacts = append(d.Contacts, c.ContactPoints()...)
}

func (d *Diagnostics) recordCulled(id uuid.UUID) {
	if d == nil {
		return
	}
	d.Culled = append(d.Culled, id)
}
