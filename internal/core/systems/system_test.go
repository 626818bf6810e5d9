package systems

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSystem struct {
	Base
}

func newStub(name string, priority Priority, phase ExecutionPhase) *stubSystem {
	return &stubSystem{Base: NewBase(name, priority, phase)}
}

func (s *stubSystem) Initialize(context.Context) error { s.SetState(StateRunning); return nil }
func (s *stubSystem) Shutdown(context.Context) error   { s.SetState(StateShutdown); return nil }
func (s *stubSystem) FixedUpdate(float64) error        { return nil }

func TestSort(t *testing.T) {
	post := newStub("post", PriorityHighest, PhasePostUpdate)
	low := newStub("low", PriorityLow, PhaseFixedUpdate)
	high := newStub("high", PriorityHigh, PhaseFixedUpdate)
	pre := newStub("pre", PriorityLowest, PhasePreUpdate)
	high2 := newStub("high2", PriorityHigh, PhaseFixedUpdate)

	list := []System{post, low, high, pre, high2}
	Sort(list)

	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{"pre", "high", "high2", "low", "post"}, names)
}

func TestBaseLifecycle(t *testing.T) {
	s := newStub("physics", PriorityNormal, PhaseFixedUpdate)
	assert.Equal(t, StateUninitialized, s.State())
	assert.False(t, s.IsEnabled())

	require.NoError(t, s.Initialize(context.Background()))
	s.SetEnabled(true)
	assert.Equal(t, StateRunning, s.State())
	assert.True(t, s.IsEnabled())

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, "shutdown", s.State().String())
}

func TestBaseTrack(t *testing.T) {
	s := newStub("physics", PriorityNormal, PhaseFixedUpdate)
	boom := errors.New("boom")

	require.NoError(t, s.Track(func() (int, error) { return 3, nil }))
	require.ErrorIs(t, s.Track(func() (int, error) { return 2, boom }), boom)

	m := s.Metrics()
	assert.Equal(t, uint64(2), m.ExecutionCount)
	assert.Equal(t, uint64(5), m.EntitiesProcessed)
	assert.Equal(t, uint64(1), m.ErrorCount)
	assert.ErrorIs(t, m.LastError, boom)
	assert.LessOrEqual(t, m.MinExecutionTime, m.MaxExecutionTime)
	assert.False(t, m.LastExecutionTime.IsZero())
}

func TestMetricsRecord(t *testing.T) {
	var m Metrics
	now := time.Now()
	m.Record(now, 4*time.Millisecond, 1, nil)
	m.Record(now, 2*time.Millisecond, 1, nil)

	assert.Equal(t, 2*time.Millisecond, m.MinExecutionTime)
	assert.Equal(t, 4*time.Millisecond, m.MaxExecutionTime)
	assert.Equal(t, 3*time.Millisecond, m.AverageExecutionTime)
	assert.Equal(t, 6*time.Millisecond, m.TotalExecutionTime)
}
