package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/build"
	"github.com/HerbHall/rigplanner/internal/compat"
	"github.com/HerbHall/rigplanner/internal/facet"
	"github.com/HerbHall/rigplanner/internal/power"
	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// PartsInput names catalog parts that make up a candidate build.
type PartsInput struct {
	PartIDs []string `json:"part_ids" jsonschema:"catalog IDs of the parts, at most one per slot kind"`
}

// PowerOutput is the result of estimate_power.
type PowerOutput struct {
	Watts          float64      `json:"watts"`
	RecommendedPSU float64      `json:"recommended_psu"`
	Headroom       float64      `json:"headroom"`
	Lines          []power.Line `json:"lines"`
}

// CompatibilityOutput is the result of check_compatibility.
type CompatibilityOutput struct {
	Compatible bool            `json:"compatible"`
	Warnings   []string        `json:"warnings"`
	Checks     []compat.Result `json:"checks"`
}

// FilterInput is the argument of filter_catalog.
type FilterInput struct {
	Type         string              `json:"type" jsonschema:"slot kind: cpu, motherboard, ram, gpu, storage, psu, case or cooler"`
	Query        string              `json:"query,omitempty" jsonschema:"case-insensitive search text"`
	MaxPrice     float64             `json:"max_price,omitempty" jsonschema:"price ceiling, 0 for none"`
	Manufacturer string              `json:"manufacturer,omitempty" jsonschema:"manufacturer name, empty or All for none"`
	StockOnly    bool                `json:"stock_only,omitempty" jsonschema:"only parts in stock"`
	Facets       map[string][]string `json:"facets,omitempty" jsonschema:"facet attribute to accepted values"`
}

// PartSummary is a flattened component for tool output.
type PartSummary struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	StockCount int               `json:"stock_count"`
	Specs      map[string]string `json:"specs"`
}

// FilterOutput is the result of filter_catalog.
type FilterOutput struct {
	Count int           `json:"count"`
	Parts []PartSummary `json:"parts"`
}

// CompareInput is the argument of compare_components.
type CompareInput struct {
	IDs []string `json:"ids" jsonschema:"catalog IDs to compare, in display order"`
}

// CompareRow is one attribute line of the comparison.
type CompareRow struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
	Best   string   `json:"best,omitempty"`
}

// RankedPart is a part with its score and position.
type RankedPart struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// CompareOutput is the result of compare_components.
type CompareOutput struct {
	Rows     []CompareRow `json:"rows"`
	WinnerID string       `json:"winner_id"`
	Ranked   []RankedPart `json:"ranked"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "estimate_power",
		Description: "Estimate the power draw of a set of parts and the recommended PSU wattage.",
	}, s.estimatePower)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_compatibility",
		Description: "Run the compatibility rules over a set of parts and list any warnings.",
	}, s.checkCompatibility)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "filter_catalog",
		Description: "Filter the catalog parts of one slot kind by text, price, manufacturer, stock and facet values.",
	}, s.filterCatalog)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "compare_components",
		Description: "Compare catalog parts side by side and pick the best-scoring one.",
	}, s.compareComponents)
}

func (s *Server) estimatePower(ctx context.Context, _ *mcp.CallToolRequest, in PartsInput) (*mcp.CallToolResult, PowerOutput, error) {
	slots, err := s.resolveBuild(ctx, in.PartIDs)
	if err != nil {
		return nil, PowerOutput{}, err
	}
	r := s.engine.PowerReport(slots)
	lines := r.Lines
	if lines == nil {
		lines = []power.Line{}
	}
	return nil, PowerOutput{
		Watts:          r.Total,
		RecommendedPSU: r.RecommendedPSU,
		Headroom:       r.Headroom,
		Lines:          lines,
	}, nil
}

func (s *Server) checkCompatibility(ctx context.Context, _ *mcp.CallToolRequest, in PartsInput) (*mcp.CallToolResult, CompatibilityOutput, error) {
	slots, err := s.resolveBuild(ctx, in.PartIDs)
	if err != nil {
		return nil, CompatibilityOutput{}, err
	}
	snap := build.Compute(slots)
	return nil, CompatibilityOutput{
		Compatible: len(snap.Warnings) == 0,
		Warnings:   snap.Warnings,
		Checks:     snap.Checks,
	}, nil
}

func (s *Server) filterCatalog(ctx context.Context, _ *mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, FilterOutput, error) {
	kind, err := models.ParseSlotKind(in.Type)
	if err != nil {
		return nil, FilterOutput{}, err
	}
	st, err := facet.FromFilterState(models.FilterState{
		Slot:             kind,
		Query:            in.Query,
		MaxPrice:         in.MaxPrice,
		Manufacturer:     in.Manufacturer,
		StockOnly:        in.StockOnly,
		UniqueSelections: in.Facets,
	})
	if err != nil {
		return nil, FilterOutput{}, err
	}
	items, err := s.engine.Browse(ctx, kind, st.FilterState())
	if err != nil {
		return nil, FilterOutput{}, err
	}
	out := FilterOutput{Count: len(items), Parts: make([]PartSummary, 0, len(items))}
	for i := range items {
		out.Parts = append(out.Parts, summarize(&items[i]))
	}
	s.logger.Debug("filter_catalog", zap.String("type", string(kind)), zap.Int("matches", out.Count))
	return nil, out, nil
}

func (s *Server) compareComponents(ctx context.Context, _ *mcp.CallToolRequest, in CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
	cmp, err := s.engine.Compare(ctx, in.IDs)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	out := CompareOutput{
		Rows:     make([]CompareRow, 0, len(cmp.Rows)),
		WinnerID: cmp.Winner.ID,
		Ranked:   make([]RankedPart, 0, len(cmp.Ranked)),
	}
	for _, row := range cmp.Rows {
		r := CompareRow{Key: row.Key, Values: row.Values}
		if row.BestIndex != nil {
			r.Best = cmp.Items[*row.BestIndex].ID
		}
		out.Rows = append(out.Rows, r)
	}
	for _, rk := range cmp.Ranked {
		out.Ranked = append(out.Ranked, RankedPart{
			ID:    rk.Component.ID,
			Name:  rk.Component.Name,
			Score: rk.Score,
			Rank:  rk.Rank,
		})
	}
	return nil, out, nil
}

// resolveBuild places each part in the slot of its own type.
func (s *Server) resolveBuild(ctx context.Context, ids []string) (models.BuildSlotMap, error) {
	slots := models.BuildSlotMap{}
	for _, id := range ids {
		c, err := catalog.FindByID(ctx, s.engine.Catalog(), id)
		if err != nil {
			return nil, err
		}
		if prev := slots.Get(c.Type); prev != nil {
			return nil, fmt.Errorf("parts %s and %s both fill the %s slot", prev.ID, c.ID, c.Type)
		}
		slots[c.Type] = &c
	}
	return slots, nil
}

func summarize(c *models.Component) PartSummary {
	specs := make(map[string]string, c.Specs.Len())
	for _, k := range c.Specs.Keys() {
		specs[k] = c.Specs.String(k)
	}
	return PartSummary{
		ID:         c.ID,
		Type:       string(c.Type),
		Name:       c.Name,
		Price:      c.Price,
		StockCount: c.StockCount,
		Specs:      specs,
	}
}
