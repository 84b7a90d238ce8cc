// Package engine gathers the build configuration operations behind one
// type bound to a catalog accessor.
package engine

import (
	"context"

	"github.com/HerbHall/rigplanner/internal/compare"
	"github.com/HerbHall/rigplanner/internal/compat"
	"github.com/HerbHall/rigplanner/internal/facet"
	"github.com/HerbHall/rigplanner/internal/power"
	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// Options tunes the engine. The zero value is usable.
type Options struct {
	Currency    string
	MaxSpecRows int
	// Workers above 1 shard filtering and scoring across goroutines.
	Workers int
}

// Engine evaluates builds and catalog slices. It holds no mutable state.
type Engine struct {
	catalog catalog.Accessor
	opts    Options
}

// New creates an Engine over acc.
func New(acc catalog.Accessor, opts Options) *Engine {
	if opts.Currency == "" {
		opts.Currency = compare.DefaultCurrency
	}
	return &Engine{catalog: acc, opts: opts}
}

// Catalog returns the accessor the engine reads from.
func (e *Engine) Catalog() catalog.Accessor { return e.catalog }

// EstimateWatts returns the estimated draw of build.
func (e *Engine) EstimateWatts(build models.BuildSlotMap) float64 {
	return power.EstimateWatts(build)
}

// RecommendedPSU returns the PSU capacity recommended for w watts.
func (e *Engine) RecommendedPSU(w float64) float64 {
	return power.RecommendedPSU(w)
}

// PowerReport returns the per-slot power breakdown of build.
func (e *Engine) PowerReport(build models.BuildSlotMap) power.Report {
	return power.NewReport(build)
}

// CheckCompatibility returns the warnings of build at totalWatts.
func (e *Engine) CheckCompatibility(build models.BuildSlotMap, totalWatts float64) []string {
	return compat.Check(build, totalWatts)
}

// EvaluateCompatibility returns the per-rule checklist of build.
func (e *Engine) EvaluateCompatibility(build models.BuildSlotMap, totalWatts float64) []compat.Result {
	return compat.Evaluate(build, totalWatts)
}

// FilterCatalog filters items of kind with state.
func (e *Engine) FilterCatalog(ctx context.Context, items []models.Component, kind models.SlotKind, state models.FilterState) ([]models.Component, error) {
	if e.opts.Workers > 1 {
		return facet.ParallelFilter(ctx, items, kind, state, e.opts.Workers)
	}
	return facet.Filter(items, kind, state), nil
}

// FacetOptions derives the facet option lists of kind from items.
func (e *Engine) FacetOptions(items []models.Component, kind models.SlotKind) map[string][]string {
	return facet.Options(items, kind)
}

// ScoreComponent returns the ranking score of c.
func (e *Engine) ScoreComponent(c models.Component) float64 {
	return compare.Score(c)
}

// BuildComparisonTable lays items out as comparison rows.
func (e *Engine) BuildComparisonTable(items []models.Component) ([]models.ComparisonRow, error) {
	return compare.Table(items,
		compare.WithCurrency(e.opts.Currency),
		compare.WithMaxSpecRows(e.opts.MaxSpecRows),
	)
}

// Comparison is a comparison table with its overall winner.
type Comparison struct {
	Items  []models.Component     `json:"items"`
	Rows   []models.ComparisonRow `json:"rows"`
	Winner models.Component       `json:"winner"`
	Ranked []compare.Ranked       `json:"ranked"`
}

// Compare resolves ids through the catalog and compares them in request
// order. Unknown ids are dropped; nothing left yields
// compare.ErrEmptyComparison.
func (e *Engine) Compare(ctx context.Context, ids []string) (*Comparison, error) {
	items, err := catalog.FindManyByID(ctx, e.catalog, ids)
	if err != nil {
		return nil, err
	}
	return e.CompareItems(ctx, items)
}

// CompareItems compares already-resolved items.
func (e *Engine) CompareItems(ctx context.Context, items []models.Component) (*Comparison, error) {
	rows, err := e.BuildComparisonTable(items)
	if err != nil {
		return nil, err
	}
	winner, err := compare.Winner(items)
	if err != nil {
		return nil, err
	}
	ranked, err := e.rank(ctx, items)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Items:  items,
		Rows:   rows,
		Winner: winner,
		Ranked: ranked,
	}, nil
}

func (e *Engine) rank(ctx context.Context, items []models.Component) ([]compare.Ranked, error) {
	if e.opts.Workers <= 1 {
		return compare.Rank(items), nil
	}
	scores, err := compare.ParallelScores(ctx, items, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	return compare.RankScored(items, scores), nil
}

// Browse returns the components of kind that satisfy state.
func (e *Engine) Browse(ctx context.Context, kind models.SlotKind, state models.FilterState) ([]models.Component, error) {
	items, err := e.catalog.ByType(ctx, kind)
	if err != nil {
		return nil, err
	}
	return e.FilterCatalog(ctx, items, kind, state)
}
