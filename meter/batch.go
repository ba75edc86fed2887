package meter

import (
	"context"

	"github.com/Dlordkendex/gas2nel/operation"
	"golang.org/x/sync/errgroup"
)

// Batch measures the given operations concurrently, one fresh Meter per
// operation so invocations never share counters. Results are returned in
// operation order. The error is the context's, if it was canceled before all
// operations finished; operation failures are reported inside their Result.
func Batch(ctx context.Context, opts Options, ops []operation.Operation) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]Result, len(ops))

	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = New(opts).EstimateGas(ctx, op)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
