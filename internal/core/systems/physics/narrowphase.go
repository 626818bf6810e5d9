package physics

import "fmt"

// Collision describes one overlapping pair within a substep. Normal is a
// unit vector pointing from B toward A. A zero Depth or ContactCount means
// the pair is not colliding and must not be resolved.
type Collision struct {
	A, B         *GameObject
	Normal       Vec2
	Depth        float64
	Contacts     [MaxContacts]Vec2
	ContactCount int
}

func (c Collision) Colliding() bool { return c.Depth > 0 && c.ContactCount > 0 }

// ContactPoints returns the populated part of the manifold.
func (c Collision) ContactPoints() []Vec2 { return c.Contacts[:c.ContactCount] }

type collideFunc func(a, b *GameObject) Collision

var collisionHandlers = [numColliderKinds][numColliderKinds]collideFunc{
	KindCircle: {
		KindCircle:  collideCircles,
		KindPolygon: collideCirclePolygon,
	},
	KindPolygon: {
		KindCircle:  collidePolygonCircle,
		KindPolygon: collidePolygons,
	},
}

// Collide runs the narrow phase and contact generation for a and b. It
// panics when no handler exists for the collider kinds, which can only happen
// through a programming error.
func Collide(a, b *GameObject) Collision {
	ka, kb := a.Collider.Kind(), b.Collider.Kind()
	if ka >= numColliderKinds || kb >= numColliderKinds || collisionHandlers[ka][kb] == nil {
		panic(fmt.Sprintf("physics: no collision handler for %s/%s", ka, kb))
	}
	return collisionHandlers[ka][kb](a, b)
}

func collideCircles(a, b *GameObject) Collision {
	ra, ca := a.Collider.(*Circle).WorldRadius(a.Body.Transform)
	rb, cb := b.Collider.(*Circle).WorldRadius(b.Body.Transform)

	normal, dist := ca.Sub(cb).NormalLength()
	depth := ra + rb - dist
	if depth <= 0 {
		return Collision{A: a, B: b}
	}
	if dist == 0 {
		normal = V(0, 1)
	}

	c := Collision{A: a, B: b, Normal: normal, Depth: depth, ContactCount: 1}
	c.Contacts[0] = cb.Add(normal.Scale(rb))
	return c
}

func collidePolygons(a, b *GameObject) Collision {
	va := a.Collider.(*Polygon).WorldVertices(a.Body.Transform)
	vb := b.Collider.(*Polygon).WorldVertices(b.Body.Transform)

	normal, depth := satPolygons(va, vb, a.Center(), b.Center())
	if depth == 0 {
		return Collision{A: a, B: b}
	}

	contacts, count := polygonContacts(va, vb)
	return Collision{A: a, B: b, Normal: normal, Depth: depth, Contacts: contacts, ContactCount: count}
}

func collidePolygonCircle(a, b *GameObject) Collision {
	vertices := a.Collider.(*Polygon).WorldVertices(a.Body.Transform)
	radius, center := b.Collider.(*Circle).WorldRadius(b.Body.Transform)

	normal, depth := satPolygonCircle(vertices, center, radius, a.Center())
	if depth == 0 {
		return Collision{A: a, B: b}
	}

	c := Collision{A: a, B: b, Normal: normal, Depth: depth, ContactCount: 1}
	c.Contacts[0] = polygonCircleContact(vertices, center)
	return c
}

func collideCirclePolygon(a, b *GameObject) Collision {
	c := collidePolygonCircle(b, a)
	c.A, c.B = a, b
	c.Normal = c.Normal.Neg()
	return c
}
