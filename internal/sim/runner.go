package sim

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/systems"
	"github.com/zeusync/rigid2d/internal/core/systems/physics"
)

// Event types published by the Runner.
const (
	EventFrame  = "world.frame"
	EventCulled = "world.culled"
)

const eventSource = "runner"

// Frame is the payload of EventFrame: the world state after a tick plus the
// contact points found during it.
type Frame struct {
	Tick     uint64           `json:"tick"`
	Time     float64          `json:"time"`
	Snapshot physics.Snapshot `json:"snapshot"`
	Contacts []physics.Vec2   `json:"contacts,omitempty"`
}

// Stats is a concurrency-safe summary of the runner.
type Stats struct {
	Running bool          `json:"running"`
	Tick    uint64        `json:"tick"`
	Objects int           `json:"objects"`
	Systems []SystemStats `json:"systems"`
	Bus     bus.Metrics   `json:"bus"`
}

type SystemStats struct {
	Name           string        `json:"name"`
	State          string        `json:"state"`
	Executions     uint64        `json:"executions"`
	Errors         uint64        `json:"errors"`
	AverageLatency time.Duration `json:"average_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
}

// Runner drives a World at a fixed tick rate. All world mutation happens on
// the goroutine calling Run or Tick; other goroutines interact through Submit,
// Latest and Stats.
type Runner struct {
	cfg     Config
	world   *physics.World
	bus     bus.EventBus
	logger  log.Log
	systems []systems.System

	physics  *PhysicsSystem
	commands *commandSystem

	tick    atomic.Uint64
	objects atomic.Int64
	running atomic.Bool
	latest  atomic.Pointer[Frame]
}

func NewRunner(world *physics.World, eventBus bus.EventBus, cfg Config, logger log.Log) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runner config: %w", err)
	}
	if world == nil {
		return nil, physics.ErrNilObject
	}
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("component", "runner"))

	r := &Runner{
		cfg:      cfg,
		world:    world,
		bus:      eventBus,
		logger:   logger,
		physics:  NewPhysicsSystem(world, cfg.Substeps),
		commands: newCommandSystem(world, cfg, logger),
	}
	r.systems = []systems.System{r.physics, r.commands}
	for _, sys := range r.systems {
		sys.SetEnabled(true)
	}
	systems.Sort(r.systems)
	r.objects.Store(int64(world.Len()))

	if eventBus != nil {
		eventBus.AddObserver(&deliveryLogger{logger: logger})
	}
	return r, nil
}

// AddSystem registers and enables an extra system. It must be called before
// Run.
func (r *Runner) AddSystem(s systems.System) {
	s.SetEnabled(true)
	r.systems = append(r.systems, s)
	systems.Sort(r.systems)
}

// Submit queues a command for the next tick without blocking.
func (r *Runner) Submit(cmd Command) error {
	if cmd == nil {
		return ErrUnknownCommand
	}
	return r.commands.submit(cmd)
}

// Latest returns the most recently published frame, or nil before the first.
func (r *Runner) Latest() *Frame { return r.latest.Load() }

func (r *Runner) Stats() Stats {
	s := Stats{
		Running: r.running.Load(),
		Tick:    r.tick.Load(),
		Objects: int(r.objects.Load()),
		Systems: make([]SystemStats, 0, len(r.systems)),
	}
	for _, sys := range r.systems {
		m := sys.Metrics()
		s.Systems = append(s.Systems, SystemStats{
			Name:           sys.Name(),
			State:          sys.State().String(),
			Executions:     m.ExecutionCount,
			Errors:         m.ErrorCount,
			AverageLatency: m.AverageExecutionTime,
			MaxLatency:     m.MaxExecutionTime,
		})
	}
	if r.bus != nil {
		s.Bus = r.bus.Metrics()
	}
	return s
}

// Tick runs every enabled system once with a step of dt seconds and then
// publishes the results. It is exported for hosts that own their own clock.
func (r *Runner) Tick(dt float64) error {
	for _, sys := range r.systems {
		if !sys.IsEnabled() {
			continue
		}
		if err := sys.FixedUpdate(dt); err != nil {
			return fmt.Errorf("system %s: %w", sys.Name(), err)
		}
	}

	tick := r.tick.Add(1)
	r.objects.Store(int64(r.world.Len()))

	diag := r.physics.Diagnostics()
	if len(diag.Culled) > 0 {
		culled := slices.Clone(diag.Culled)
		r.logger.Debug("objects culled", log.Int("count", len(culled)), log.Uint64("tick", tick))
		r.publish(bus.NewEvent(EventCulled, eventSource, tick, culled))
	}

	if tick%uint64(r.cfg.SnapshotEvery) == 0 {
		frame := &Frame{
			Tick:     tick,
			Time:     float64(tick) * r.cfg.FixedDelta(),
			Snapshot: r.world.Snapshot(),
			Contacts: slices.Clone(diag.Contacts),
		}
		r.latest.Store(frame)
		r.publish(bus.NewEvent(EventFrame, eventSource, tick, frame))
	}
	return nil
}

func (r *Runner) publish(event bus.Event) {
	if r.bus == nil {
		return
	}
	// delivery errors are reported by deliveryLogger
	_ = r.bus.PublishToTopic(r.cfg.Topic, event)
}

// Run ticks at the configured rate until ctx is cancelled. When the host
// falls behind, at most MaxCatchUp ticks run per wakeup and the remaining
// backlog is dropped.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	for _, sys := range r.systems {
		if err := sys.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize %s: %w", sys.Name(), err)
		}
	}
	defer r.shutdown()

	step := time.Second / time.Duration(r.cfg.TickRate)
	dt := r.cfg.FixedDelta()

	r.logger.Info("simulation started",
		log.Int("tick_rate", r.cfg.TickRate),
		log.Int("substeps", r.cfg.Substeps),
		log.Int("objects", r.world.Len()))

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	last := time.Now()
	var backlog time.Duration
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("simulation stopped", log.Uint64("tick", r.tick.Load()))
			return nil
		case now := <-ticker.C:
			backlog += now.Sub(last)
			last = now

			ran := 0
			for backlog >= step && ran < r.cfg.MaxCatchUp {
				if err := r.Tick(dt); err != nil {
					r.logger.Error("tick failed", log.Error(err))
					return err
				}
				backlog -= step
				ran++
			}
			if backlog >= step {
				r.logger.Warn("simulation falling behind, dropping backlog",
					log.Duration("backlog", backlog))
				backlog = 0
			}
		}
	}
}

func (r *Runner) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, sys := range slices.Backward(r.systems) {
		if err := sys.Shutdown(ctx); err != nil {
			r.logger.Warn("system shutdown failed", log.String("system", sys.Name()), log.Error(err))
		}
	}
}

// deliveryLogger reports handler failures on the bus.
type deliveryLogger struct {
	logger log.Log
}

func (d *deliveryLogger) OnPublish(string, bus.Event) {}

func (d *deliveryLogger) OnDelivered(topic string, event bus.Event, handlers int, err error, took time.Duration) {
	if err == nil {
		return
	}
	d.logger.Warn("event delivery failed",
		log.String("topic", topic),
		log.String("type", event.Type()),
		log.Int("handlers", handlers),
		log.Duration("took", took),
		log.Error(err))
}

var _ Submitter = (*Runner)(nil)

// FrameOf extracts the payload of an EventFrame event.
func FrameOf(e bus.Event) (*Frame, bool) {
	f, ok := e.Data().(*Frame)
	return f, ok && f != nil
}

// CulledIDs extracts the payload of an EventCulled event.
func CulledIDs(e bus.Event) []uuid.UUID {
	ids, _ := e.Data().([]uuid.UUID)
	return ids
}
