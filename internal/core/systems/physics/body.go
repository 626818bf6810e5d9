package physics

import (
	"fmt"
	"strings"
)

// Gravity is the constant acceleration applied to every dynamic body, in
// world units per second squared.
var Gravity = Vec2{X: 0, Y: -9.81}

// BodyType selects whether a body takes part in integration and impulses.
type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(t))
	}
}

// ParseBodyType accepts "static" or "dynamic" in any case.
func ParseBodyType(s string) (BodyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return BodyStatic, nil
	case "dynamic", "":
		return BodyDynamic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBodyType, s)
	}
}

func (t BodyType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *BodyType) UnmarshalText(text []byte) error {
	parsed, err := ParseBodyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BodyConfig holds the physical parameters a RigidBody is built from. Mass and
// Inertia are ignored for static bodies.
type BodyConfig struct {
	Type            BodyType `json:"type" yaml:"type"`
	Mass            float64  `json:"mass" yaml:"mass"`
	Inertia         float64  `json:"inertia" yaml:"inertia"`
	Restitution     float64  `json:"restitution" yaml:"restitution"`
	StaticFriction  float64  `json:"static_friction" yaml:"static_friction"`
	DynamicFriction float64  `json:"dynamic_friction" yaml:"dynamic_friction"`
}

// Validate checks the configuration without building a body.
func (c BodyConfig) Validate() error {
	if c.Type != BodyStatic && c.Type != BodyDynamic {
		return fmt.Errorf("%w: %v", ErrInvalidBodyType, c.Type)
	}
	if !isFinite(c.Restitution) || c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidRestitution, c.Restitution)
	}
	if !isFinite(c.StaticFriction) || !isFinite(c.DynamicFriction) ||
		c.StaticFriction < 0 || c.DynamicFriction < 0 {
		return fmt.Errorf("%w: static %v, dynamic %v", ErrInvalidFriction, c.StaticFriction, c.DynamicFriction)
	}
	if c.Type == BodyStatic {
		return nil
	}
	if !isFinite(c.Mass) || c.Mass <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidMass, c.Mass)
	}
	if !isFinite(c.Inertia) || c.Inertia <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInertia, c.Inertia)
	}
	return nil
}

// RigidBody carries the mass properties and velocity state of a simulated
// object. It owns the transform that positions its collider.
type RigidBody struct {
	Transform          Transform
	LinearVelocity     Vec2
	RotationalVelocity float64 // radians per second
	Force              Vec2

	bodyType        BodyType
	invMass         float64
	invInertia      float64
	restitution     float64
	staticFriction  float64
	dynamicFriction float64
}

// NewRigidBody validates cfg and transform and precomputes the inverse mass
// properties. Static bodies always get zero inverse mass and inertia.
func NewRigidBody(cfg BodyConfig, transform Transform) (*RigidBody, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := transform.Validate(); err != nil {
		return nil, err
	}

	body := &RigidBody{
		Transform:       transform,
		bodyType:        cfg.Type,
		restitution:     cfg.Restitution,
		staticFriction:  cfg.StaticFriction,
		dynamicFriction: cfg.DynamicFriction,
	}
	if cfg.Type == BodyDynamic {
		body.invMass = 1 / cfg.Mass
		body.invInertia = 1 / cfg.Inertia
	}
	return body, nil
}

func (b *RigidBody) Type() BodyType { return b.bodyType }

func (b *RigidBody) IsStatic() bool { return b.bodyType == BodyStatic }

func (b *RigidBody) InvMass() float64 { return b.invMass }

func (b *RigidBody) InvInertia() float64 { return b.invInertia }

func (b *RigidBody) Restitution() float64 { return b.restitution }

func (b *RigidBody) StaticFriction() float64 { return b.staticFriction }

func (b *RigidBody) DynamicFriction() float64 { return b.dynamicFriction }

// ApplyForce accumulates f until the next ApplyStep consumes it.
func (b *RigidBody) ApplyForce(f Vec2) {
	b.Force.AddInPlace(f)
}

// ApplyImpulse changes the velocity state by impulse applied at lever arm r
// from the body's center.
func (b *RigidBody) ApplyImpulse(impulse, r Vec2) {
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Scale(b.invMass))
	b.RotationalVelocity += r.Cross(impulse) * b.invInertia
}

// ApplyStep advances a dynamic body by dt using semi-implicit Euler: velocity
// first, then position and rotation. The accumulated force is cleared.
func (b *RigidBody) ApplyStep(dt float64) {
	if b.bodyType == BodyStatic {
		return
	}

	b.LinearVelocity = b.LinearVelocity.Add(b.Force.Scale(b.invMass * dt))
	b.LinearVelocity = b.LinearVelocity.Add(Gravity.Scale(dt))

	b.Transform.Position.AddInPlace(b.LinearVelocity.Scale(dt))
	b.Transform.RotationDegrees += degrees(b.RotationalVelocity) * dt

	b.Force = Vec2{}
}
