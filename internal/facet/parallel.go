package facet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// ParallelFilter is Filter with the scan split across workers goroutines.
// Shards are concatenated in input order, so the result equals Filter's.
func ParallelFilter(ctx context.Context, items []models.Component, kind models.SlotKind, state models.FilterState, workers int) ([]models.Component, error) {
	if workers <= 1 || len(items) < 2*workers {
		return Filter(items, kind, state), nil
	}

	m := newMatcher(kind, state)
	chunk := (len(items) + workers - 1) / workers
	shards := make([][]models.Component, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(items))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			out := make([]models.Component, 0, hi-lo)
			for i := lo; i < hi; i++ {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if m.match(&items[i]) {
					out = append(out, items[i])
				}
			}
			shards[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]models.Component, 0, len(items))
	for _, s := range shards {
		result = append(result, s...)
	}
	return result, nil
}
