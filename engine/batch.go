package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one employee's outcome in a batch. Err is set instead of
// Outcome when that calculation failed; other items are unaffected.
type BatchItem struct {
	Outcome Outcome
	Err     error
}

// CalculateBatch runs one calculation per request on up to workers
// goroutines (workers <= 0 uses GOMAXPROCS). Items are index-aligned with
// reqs. The returned error is only ever the context's.
func (c *Calculator) CalculateBatch(ctx context.Context, reqs []Request, workers int) ([]BatchItem, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := c.Calculate(reqs[i])
			items[i] = BatchItem{Outcome: out, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, ctx.Err()
}
