package concurrent

import (
	"context"

	"github.com/zeusync/tileworld/pkg/sequence"
	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element of the iterator with at most
// workers goroutines in flight (workers <= 0 means no limit). It waits for all
// of them and returns the first error; the context passed to action is
// cancelled once any action fails.
func Concurrent[T any](ctx context.Context, i *sequence.Iterator[T], workers int, action func(context.Context, T) error) error {
	errGroup, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		errGroup.SetLimit(workers)
	}

	next, stop := i.Pull()
	defer stop()

	for {
		value, valid := next()
		if !valid {
			break
		}
		if gctx.Err() != nil {
			break
		}

		errGroup.Go(func() error {
			return action(gctx, value)
		})
	}

	return errGroup.Wait()
}
