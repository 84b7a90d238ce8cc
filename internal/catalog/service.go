// Package catalog serves the component catalog over HTTP: faceted browsing,
// facet option lists, single-part lookups, prebuilt series and comparisons.
package catalog

import (
	"context"
	"errors"

	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/facet"
	"github.com/HerbHall/rigplanner/internal/metrics"
	pkgcatalog "github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// DefaultSimilarLimit caps the "similar parts" list when no limit is given.
const DefaultSimilarLimit = 4

// BrowseResult is one page of faceted browsing for a slot kind.
type BrowseResult struct {
	Type          models.SlotKind     `json:"type"`
	Count         int                 `json:"count"`
	Items         []models.Component  `json:"items"`
	Filter        models.FilterState  `json:"filter"`
	Facets        map[string][]string `json:"facets"`
	Manufacturers []string            `json:"manufacturers"`
}

// FacetResult lists the selectable values of a slot kind.
type FacetResult struct {
	Type          models.SlotKind     `json:"type"`
	Attributes    []string            `json:"attributes"`
	Facets        map[string][]string `json:"facets"`
	Manufacturers []string            `json:"manufacturers"`
}

// Service answers catalog queries through the engine.
type Service struct {
	engine  *engine.Engine
	metrics *metrics.Metrics
}

// NewService creates a catalog service. m may be nil.
func NewService(e *engine.Engine, m *metrics.Metrics) *Service {
	return &Service{engine: e, metrics: m}
}

// Browse filters the components of fs.Slot. Facet options are derived from
// the unfiltered slot so a narrowing selection never hides its siblings.
func (s *Service) Browse(ctx context.Context, fs models.FilterState) (*BrowseResult, error) {
	st, err := facet.FromFilterState(fs)
	if err != nil {
		return nil, err
	}
	all, err := s.engine.Catalog().ByType(ctx, st.Slot())
	if err != nil {
		return nil, err
	}
	items, err := s.engine.FilterCatalog(ctx, all, st.Slot(), st.FilterState())
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CatalogQueries.WithLabelValues(string(st.Slot())).Inc()
	}
	return &BrowseResult{
		Type:          st.Slot(),
		Count:         len(items),
		Items:         items,
		Filter:        st.FilterState(),
		Facets:        s.engine.FacetOptions(all, st.Slot()),
		Manufacturers: facet.Manufacturers(all),
	}, nil
}

// Facets returns the facet option lists of kind.
func (s *Service) Facets(ctx context.Context, kind models.SlotKind) (*FacetResult, error) {
	items, err := s.engine.Catalog().ByType(ctx, kind)
	if err != nil {
		return nil, err
	}
	return &FacetResult{
		Type:          kind,
		Attributes:    facet.Attributes(kind),
		Facets:        s.engine.FacetOptions(items, kind),
		Manufacturers: facet.Manufacturers(items),
	}, nil
}

// Component returns one component by ID.
func (s *Service) Component(ctx context.Context, id string) (models.Component, error) {
	return pkgcatalog.FindByID(ctx, s.engine.Catalog(), id)
}

// Similar returns up to limit other components of the same type as id.
func (s *Service) Similar(ctx context.Context, id string, limit int) ([]models.Component, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	self, err := s.Component(ctx, id)
	if err != nil {
		return nil, err
	}
	peers, err := s.engine.Catalog().ByType(ctx, self.Type)
	if err != nil {
		return nil, err
	}
	return pkgcatalog.Similar(peers, self, limit), nil
}

// Prebuilts returns the prebuilt series, or an empty list when the catalog
// carries none.
func (s *Service) Prebuilts(ctx context.Context) ([]models.Prebuilt, error) {
	src, ok := s.engine.Catalog().(pkgcatalog.PrebuiltSource)
	if !ok {
		return []models.Prebuilt{}, nil
	}
	all, err := src.Prebuilts(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.Prebuilt{}
	}
	return all, nil
}

// Compare builds the comparison table of ids in request order.
func (s *Service) Compare(ctx context.Context, ids []string) (*engine.Comparison, error) {
	cmp, err := s.engine.Compare(ctx, ids)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Comparisons.Inc()
	}
	return cmp, nil
}

// isClientError reports whether err stems from a bad request rather than a
// server fault.
func isClientError(err error) bool {
	return errors.Is(err, models.ErrUnknownSlot) || errors.Is(err, facet.ErrUnknownAttribute)
}
