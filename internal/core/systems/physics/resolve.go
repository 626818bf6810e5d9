package physics

import (
	"fmt"
	"math"
	"strings"
)

// Resolver selects how velocities respond to a collision.
type Resolver uint8

const (
	// ResolveRotationFriction applies normal impulses with angular response
	// followed by a Coulomb friction pass.
	ResolveRotationFriction Resolver = iota
	// ResolveRotation applies normal impulses with angular response only.
	ResolveRotation
	// ResolveBasic applies a single linear impulse through the body centers.
	ResolveBasic
)

func (r Resolver) String() string {
	switch r {
	case ResolveRotationFriction:
		return "rotation_friction"
	case ResolveRotation:
		return "rotation"
	case ResolveBasic:
		return "basic"
	default:
		return fmt.Sprintf("Resolver(%d)", uint8(r))
	}
}

func ParseResolver(s string) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rotation_friction", "":
		return ResolveRotationFriction, nil
	case "rotation":
		return ResolveRotation, nil
	case "basic":
		return ResolveBasic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidResolver, s)
	}
}

func (r Resolver) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Resolver) UnmarshalText(text []byte) error {
	parsed, err := ParseResolver(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Resolve separates the pair along the collision normal and then applies
// impulses with the given strategy. Non-colliding collisions are ignored.
func Resolve(c Collision, strategy Resolver) {
	if !c.Colliding() {
		return
	}

	Depenetrate(c)

	switch strategy {
	case ResolveBasic:
		resolveLinear(c)
	case ResolveRotation:
		resolveImpulses(c, false)
	default:
		resolveImpulses(c, true)
	}
}

// Depenetrate moves the bodies apart by the full penetration depth. A static
// body never moves; two dynamic bodies split the correction evenly.
func Depenetrate(c Collision) {
	a, b := c.A.Body, c.B.Body
	switch {
	case a.IsStatic() && b.IsStatic():
	case a.IsStatic():
		b.Transform.Position.AddInPlace(c.Normal.Scale(-c.Depth))
	case b.IsStatic():
		a.Transform.Position.AddInPlace(c.Normal.Scale(c.Depth))
	default:
		a.Transform.Position.AddInPlace(c.Normal.Scale(c.Depth / 2))
		b.Transform.Position.AddInPlace(c.Normal.Scale(-c.Depth / 2))
	}
}

// lever holds the contact offsets from each body center and their
// perpendiculars.
type lever struct {
	ra, rb         Vec2
	raPerp, rbPerp Vec2
}

func newLever(contact Vec2, a, b *GameObject) lever {
	ra := contact.Sub(a.Center())
	rb := contact.Sub(b.Center())
	return lever{ra: ra, rb: rb, raPerp: ra.Perpendicular(), rbPerp: rb.Perpendicular()}
}

// relativeVelocity is the velocity of A relative to B at the contact,
// including the angular contribution ω × r.
func (l lever) relativeVelocity(a, b *RigidBody) Vec2 {
	va := a.LinearVelocity.Add(l.raPerp.Scale(a.RotationalVelocity))
	vb := b.LinearVelocity.Add(l.rbPerp.Scale(b.RotationalVelocity))
	return va.Sub(vb)
}

// effectiveMass is the impulse denominator along dir.
func (l lever) effectiveMass(a, b *RigidBody, dir Vec2) float64 {
	raDot := l.raPerp.Dot(dir)
	rbDot := l.rbPerp.Dot(dir)
	return a.invMass + b.invMass + raDot*raDot*a.invInertia + rbDot*rbDot*b.invInertia
}

func (l lever) apply(a, b *RigidBody, impulse Vec2) {
	a.ApplyImpulse(impulse, l.ra)
	b.ApplyImpulse(impulse.Neg(), l.rb)
}

// resolveImpulses is a single pass sequential impulse solver over at most
// MaxContacts points. Every normal impulse is computed from the pre-impulse
// velocities and then applied; the friction pass reads the updated state.
func resolveImpulses(c Collision, friction bool) {
	a, b := c.A.Body, c.B.Body
	n := c.ContactCount
	e := math.Min(a.restitution, b.restitution)

	var (
		levers   [MaxContacts]lever
		j        [MaxContacts]float64
		impulses [MaxContacts]Vec2
	)

	for i := 0; i < n; i++ {
		levers[i] = newLever(c.Contacts[i], c.A, c.B)

		vn := levers[i].relativeVelocity(a, b).Dot(c.Normal)
		if vn > 0 {
			// already separating
			continue
		}
		denom := levers[i].effectiveMass(a, b, c.Normal)
		if denom == 0 {
			continue
		}

		j[i] = -(1 + e) * vn / denom / float64(n)
		impulses[i] = c.Normal.Scale(j[i])
	}

	for i := 0; i < n; i++ {
		levers[i].apply(a, b, impulses[i])
	}

	if !friction {
		return
	}

	staticFriction := (a.staticFriction + b.staticFriction) * 0.5
	dynamicFriction := (a.dynamicFriction + b.dynamicFriction) * 0.5

	var frictions [MaxContacts]Vec2
	for i := 0; i < n; i++ {
		rv := levers[i].relativeVelocity(a, b)

		tangent := rv.Sub(c.Normal.Scale(c.Normal.Dot(rv)))
		if tangent.AlmostEqual(Vec2{}) {
			continue
		}
		tangent = tangent.Normalize()

		denom := levers[i].effectiveMass(a, b, tangent)
		if denom == 0 {
			continue
		}

		jt := -rv.Dot(tangent) / denom / float64(n)
		if math.Abs(jt) <= j[i]*staticFriction {
			frictions[i] = tangent.Scale(jt)
		} else {
			frictions[i] = tangent.Scale(-j[i] * dynamicFriction)
		}
	}

	for i := 0; i < n; i++ {
		levers[i].apply(a, b, frictions[i])
	}
}

// resolveLinear ignores rotation and contact points entirely.
func resolveLinear(c Collision) {
	a, b := c.A.Body, c.B.Body

	vn := a.LinearVelocity.Sub(b.LinearVelocity).Dot(c.Normal)
	if vn > 0 {
		return
	}
	denom := a.invMass + b.invMass
	if denom == 0 {
		return
	}

	e := math.Min(a.restitution, b.restitution)
	j := -(1 + e) * vn / denom

	a.LinearVelocity = a.LinearVelocity.Add(c.Normal.Scale(j * a.invMass))
	b.LinearVelocity = b.LinearVelocity.Add(c.Normal.Scale(-j * b.invMass))
}
