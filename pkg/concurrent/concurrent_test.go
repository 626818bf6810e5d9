package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_CancelIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var stopped atomic.Int32
	wait := func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Add(1)
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, wait, wait) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, int32(2), stopped.Load())
}

func TestRun_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")

	err := Run(context.Background(),
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, boom)
}
