// Package compare ranks candidate parts and lays them out as a
// side-by-side comparison table.
package compare

import (
	"context"
	"errors"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/rigplanner/internal/specs"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// ErrEmptyComparison is returned when there is nothing to compare.
var ErrEmptyComparison = errors.New("no items to compare")

// Attribute fallbacks consulted by the scorer, in priority order.
var (
	CoreKeys   = []string{"Core Count", "Cores"}
	ThreadKeys = []string{"Thread Count", "Threads"}
	BoostKeys  = []string{"Max Boost Clock", "Boost Clock", "Clock Speed"}
	MemoryKeys = []string{"VRAM", "Memory Size", "Capacity"}
)

// Scoring policy.
const (
	performanceWeight = 0.6
	valueWeight       = 0.3
	reliabilityWeight = 0.1

	valueScale     = 100000
	stockSignalCap = 40
)

// Breakdown holds the sub-scores behind a Score.
type Breakdown struct {
	Performance float64 `json:"performance"`
	Value       float64 `json:"value"`
	Reliability float64 `json:"reliability"`
	Score       float64 `json:"score"`
}

// Explain computes the sub-scores of c.
func Explain(c models.Component) Breakdown {
	cores := specs.Number(&c, CoreKeys...)
	threads := specs.Number(&c, ThreadKeys...)
	boost := specs.Number(&c, BoostKeys...)
	memory := specs.Number(&c, MemoryKeys...)

	var b Breakdown
	b.Performance = cores*5 + threads*2 + boost*6 + memory*2
	b.Value = b.Performance / math.Max(c.Price, 1) * valueScale
	b.Reliability = math.Min(float64(c.StockCount), stockSignalCap)
	b.Score = performanceWeight*b.Performance + valueWeight*b.Value + reliabilityWeight*b.Reliability
	return b
}

// Score returns the dimensionless ranking score of c. Higher is better; the
// value is only meaningful relative to other scores.
func Score(c models.Component) float64 {
	return Explain(c).Score
}

// Ranked pairs a component with its score and 1-based position.
type Ranked struct {
	Component models.Component `json:"component"`
	Score     float64          `json:"score"`
	Rank      int              `json:"rank"`
}

// Rank orders items by descending score. Equal scores keep input order.
func Rank(items []models.Component) []Ranked {
	scores := make([]float64, len(items))
	for i := range items {
		scores[i] = Score(items[i])
	}
	return RankScored(items, scores)
}

// RankScored is Rank with precomputed scores; scores[i] belongs to items[i].
func RankScored(items []models.Component, scores []float64) []Ranked {
	out := make([]Ranked, len(items))
	for i := range items {
		out[i] = Ranked{Component: items[i], Score: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Winner returns the highest-scoring item. The first of equal maxima wins.
func Winner(items []models.Component) (models.Component, error) {
	if len(items) == 0 {
		return models.Component{}, ErrEmptyComparison
	}
	best := 0
	bestScore := Score(items[0])
	for i := 1; i < len(items); i++ {
		if s := Score(items[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return items[best], nil
}

// ParallelScores scores items across workers goroutines. Result i is the
// score of items[i].
func ParallelScores(ctx context.Context, items []models.Component, workers int) ([]float64, error) {
	out := make([]float64, len(items))
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(items) + workers - 1) / workers
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				out[i] = Score(items[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
