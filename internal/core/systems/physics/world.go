package physics

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
)

// WorldConfig holds the host-settable world parameters.
type WorldConfig struct {
	Bounds   AABB     `json:"bounds" yaml:"bounds"`
	Resolver Resolver `json:"resolver" yaml:"resolver"`
}

// DefaultWorldConfig returns a 60x60 world centered on the origin using the
// full rotation and friction resolver.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Bounds:   NewAABB(-30, -30, 30, 30),
		Resolver: ResolveRotationFriction,
	}
}

// World owns the simulated objects and advances them in fixed substeps.
// It is not safe for concurrent use; callers must not touch objects while
// Update runs.
type World struct {
	objects  []*GameObject
	bounds   AABB
	resolver Resolver
	pairs    []Pair
	logger   log.Log
}

func NewWorld(cfg WorldConfig, logger log.Log) *World {
	if logger == nil {
		logger = log.NewNop()
	}
	return &World{
		bounds:   cfg.Bounds,
		resolver: cfg.Resolver,
		logger:   logger.With(log.String("component", "physics")),
	}
}

// AddObjects appends objects to the simulated set. Insertion order decides
// pair order and therefore resolution order.
func (w *World) AddObjects(objects ...*GameObject) error {
	for i, obj := range objects {
		if obj == nil || obj.Body == nil || obj.Collider == nil {
			return fmt.Errorf("%w: argument %d", ErrNilObject, i)
		}
	}
	w.objects = append(w.objects, objects...)
	return nil
}

// Objects returns the simulated objects in insertion order. The slice is a
// copy; the objects are shared.
func (w *World) Objects() []*GameObject { return slices.Clone(w.objects) }

func (w *World) Len() int { return len(w.objects) }

func (w *World) Find(id uuid.UUID) (*GameObject, bool) {
	for _, obj := range w.objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return nil, false
}

// Remove drops the object with the given id, keeping the order of the rest.
func (w *World) Remove(id uuid.UUID) bool {
	for i, obj := range w.objects {
		if obj.ID == id {
			w.objects = slices.Delete(w.objects, i, i+1)
			return true
		}
	}
	return false
}

func (w *World) Bounds() AABB { return w.bounds }

func (w *World) SetBounds(bounds AABB) { w.bounds = bounds }

func (w *World) Resolver() Resolver { return w.resolver }

func (w *World) SetResolver(r Resolver) { w.resolver = r }

// Update advances the simulation by deltaTime split into substeps equal steps.
func (w *World) Update(deltaTime float64, substeps int) error {
	return w.UpdateWithDiagnostics(deltaTime, substeps, nil)
}

// UpdateWithDiagnostics is Update that also records pairs, collisions,
// contact points and culled objects into diag. diag may be nil.
func (w *World) UpdateWithDiagnostics(deltaTime float64, substeps int, diag *Diagnostics) error {
	if substeps <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSubsteps, substeps)
	}
	if !isFinite(deltaTime) || deltaTime < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, deltaTime)
	}

	dt := deltaTime / float64(substeps)
	for range substeps {
		w.step(dt, diag)
	}
	return nil
}

// step runs integrate, bounds, cull, broad phase, then narrow phase and
// resolution pair by pair. Each pair sees the state left by the previous one.
func (w *World) step(dt float64, diag *Diagnostics) {
	for _, obj := range w.objects {
		obj.Body.ApplyStep(dt)
		obj.RefreshBounds()
	}

	w.cull(diag)

	w.pairs = BroadPhase(w.objects, w.pairs[:0])
	diag.recordSubstep(len(w.pairs))

	for _, pair := range w.pairs {
		c := Collide(pair.A, pair.B)
		if !c.Colliding() {
			continue
		}
		Resolve(c, w.resolver)
		diag.recordCollision(c)
	}

	clear(w.pairs)
}

// cull removes objects whose bounds left the world bounds, preserving order.
func (w *World) cull(diag *Diagnostics) {
	kept := w.objects[:0]
	for _, obj := range w.objects {
		if Overlap(obj.bounds, w.bounds) {
			kept = append(kept, obj)
			continue
		}
		diag.recordCulled(obj.ID)
		w.logger.Debug("object left world bounds",
			log.String("id", obj.ID.String()),
			log.String("name", obj.Name),
			log.Float64("x", obj.Body.Transform.Position.X),
			log.Float64("y", obj.Body.Transform.Position.Y))
	}
	clear(w.objects[len(kept):])
	w.objects = kept
}
