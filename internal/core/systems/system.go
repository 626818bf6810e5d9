package systems

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// System is a unit of simulation logic driven by the fixed-step frame loop.
type System interface {
	// Identity

	Name() string

	// Lifecycle

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Execution

	FixedUpdate(fixedDeltaTime float64) error

	// Scheduling

	Priority() Priority
	ExecutionPhase() ExecutionPhase

	// State management

	IsEnabled() bool
	SetEnabled(bool)
	State() StateIdentity

	// Performance monitoring

	Metrics() Metrics
}

// Priority orders systems within a phase. Higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 100
	PriorityLow     Priority = 300
	PriorityNormal  Priority = 500
	PriorityHigh    Priority = 700
	PriorityHighest Priority = 900
)

// ExecutionPhase defines when a system runs within a tick.
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseFixedUpdate
	PhasePostUpdate
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre_update"
	case PhaseFixedUpdate:
		return "fixed_update"
	case PhasePostUpdate:
		return "post_update"
	default:
		return "unknown"
	}
}

// StateIdentity represents the lifecycle state of a system.
type StateIdentity uint8

const (
	StateUninitialized StateIdentity = iota
	StateRunning
	StateShutdown
	StateFailed
)

func (s StateIdentity) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShutdown:
		return "shutdown"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
	EntitiesProcessed    uint64
}

// Record folds one execution into the metrics.
func (m *Metrics) Record(at time.Time, took time.Duration, entities int, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if took > m.MaxExecutionTime {
		m.MaxExecutionTime = took
	}
	if m.ExecutionCount == 1 || took < m.MinExecutionTime {
		m.MinExecutionTime = took
	}
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
	m.LastExecutionTime = at
	m.EntitiesProcessed += uint64(entities)
}

// Base implements the bookkeeping half of System. Embed it and provide
// Initialize, Shutdown and FixedUpdate.
type Base struct {
	name     string
	priority Priority
	phase    ExecutionPhase

	enabled atomic.Bool
	state   atomic.Uint32

	mu      sync.Mutex
	metrics Metrics
}

func NewBase(name string, priority Priority, phase ExecutionPhase) Base {
	return Base{name: name, priority: priority, phase: phase}
}

func (b *Base) Name() string                   { return b.name }
func (b *Base) Priority() Priority             { return b.priority }
func (b *Base) ExecutionPhase() ExecutionPhase { return b.phase }
func (b *Base) IsEnabled() bool                { return b.enabled.Load() }
func (b *Base) SetEnabled(enabled bool)        { b.enabled.Store(enabled) }
func (b *Base) State() StateIdentity           { return StateIdentity(b.state.Load()) }
func (b *Base) SetState(s StateIdentity)       { b.state.Store(uint32(s)) }

func (b *Base) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.metrics
}

// Track times fn and records the outcome. fn returns how many entities it
// processed.
func (b *Base) Track(fn func() (int, error)) error {
	start := time.Now()
	n, err := fn()
	took := time.Since(start)

	b.mu.Lock()
	b.metrics.Record(start, took, n, err)
	b.mu.Unlock()
	return err
}

// Sort orders systems by phase, then by descending priority. Systems with the
// same phase and priority keep their relative order.
func Sort(list []System) {
	slices.SortStableFunc(list, func(a, b System) int {
		if c := cmp.Compare(a.ExecutionPhase(), b.ExecutionPhase()); c != 0 {
			return c
		}
		return cmp.Compare(b.Priority(), a.Priority())
	})
}
