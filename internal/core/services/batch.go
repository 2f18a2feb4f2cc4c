package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// ProgressFunc is called after each batch window with the number of
// completed requests and the total.
type ProgressFunc func(completed, total int)

// BatchResult is the outcome of one batched request.
type BatchResult[T any] struct {
	Value T
	Err   error
}

// Batch runs fn for every input in fixed windows of size concurrency.
// A window starts only after the previous window has fully resolved, and
// results are returned in input order. Errors are reported per item and do
// not cancel the other requests in the window.
func Batch[In, Out any](
	ctx context.Context,
	inputs []In,
	concurrency int,
	fn func(ctx context.Context, in In) (Out, error),
	progress ProgressFunc,
) []BatchResult[Out] {
	concurrency = clampConcurrency(concurrency)
	results := make([]BatchResult[Out], len(inputs))

	for start := 0; start < len(inputs); start += concurrency {
		end := min(start+concurrency, len(inputs))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(inputs); i++ {
				results[i].Err = err
			}
			return results
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				v, err := fn(ctx, inputs[i])
				results[i] = BatchResult[Out]{Value: v, Err: err}
				return nil
			})
		}
		_ = g.Wait()

		if progress != nil {
			progress(end, len(inputs))
		}
	}

	return results
}

func clampConcurrency(c int) int {
	if c < 1 {
		return domain.DefaultConcurrency
	}
	if c > domain.MaxConcurrency {
		return domain.MaxConcurrency
	}
	return c
}
