package concurrent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task is a long-running unit of work that returns once ctx is done.
type Task func(ctx context.Context) error

// Run starts every task in its own goroutine and waits for all of them.
// The first task to fail cancels the context shared by the others, and its
// error is returned. Tasks that stop because of cancellation are not errors.
func Run(ctx context.Context, tasks ...Task) error {
	errGroup, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		errGroup.Go(func() error {
			if err := task(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return errGroup.Wait()
}
