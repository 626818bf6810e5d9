package physics

import "errors"

var (
	// Body configuration errors

	ErrInvalidMass        = errors.New("dynamic body requires a positive finite mass")
	ErrInvalidInertia     = errors.New("dynamic body requires a positive finite inertia")
	ErrInvalidRestitution = errors.New("restitution must be within [0, 1]")
	ErrInvalidFriction    = errors.New("friction coefficients must be non-negative")
	ErrInvalidBodyType    = errors.New("invalid body type")

	// Geometry errors

	ErrInvalidRadius     = errors.New("circle radius must be positive and finite")
	ErrTooFewVertices    = errors.New("polygon requires at least 3 vertices")
	ErrDegenerateEdge    = errors.New("polygon has a zero-length edge")
	ErrNonConvexPolygon  = errors.New("polygon is not convex")
	ErrInvalidScale      = errors.New("transform scale components must be non-zero")
	ErrInvalidTransform  = errors.New("invalid transform")
	ErrInvalidColliderID = errors.New("invalid collider kind")

	// World errors

	ErrInvalidSubsteps = errors.New("substeps must be positive")
	ErrInvalidTimestep = errors.New("timestep must be finite and non-negative")
	ErrNilObject       = errors.New("nil game object")
	ErrInvalidResolver = errors.New("invalid resolver")
)
