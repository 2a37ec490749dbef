package generator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GenerateBatch runs requests concurrently, at most limit at a time (limit
// <= 0 means unbounded). Results are returned in request order. The first
// failure cancels requests that have not started and is returned; results
// for requests that finished are kept.
func (g *Generator) GenerateBatch(ctx context.Context, requests []Request, limit int) ([]*Result, error) {
	results := make([]*Result, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, req := range requests {
		group.Go(func() error {
			result, err := g.Generate(groupCtx, req)
			if err != nil {
				return fmt.Errorf("generator: request %d (%s): %w", i, req.Number, err)
			}
			results[i] = result
			return nil
		})
	}
	err := group.Wait()
	return results, err
}
