package testutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

var fixtureSeq atomic.Int64

// NewComponent returns a Component with sensible defaults, suitable for test
// fixtures. Options are applied in order.
func NewComponent(opts ...func(*models.Component)) models.Component {
	n := fixtureSeq.Add(1)
	c := models.Component{
		ID:         fmt.Sprintf("test-part-%d", n),
		Type:       models.SlotCPU,
		Name:       "Test Part",
		Price:      1000,
		StockCount: 5,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithID sets the component ID.
func WithID(id string) func(*models.Component) {
	return func(c *models.Component) { c.ID = id }
}

// WithType sets the slot kind.
func WithType(kind models.SlotKind) func(*models.Component) {
	return func(c *models.Component) { c.Type = kind }
}

// WithName sets the display name.
func WithName(name string) func(*models.Component) {
	return func(c *models.Component) { c.Name = name }
}

// WithPrice sets the price.
func WithPrice(p float64) func(*models.Component) {
	return func(c *models.Component) { c.Price = p }
}

// WithStock sets the stock count.
func WithStock(n int) func(*models.Component) {
	return func(c *models.Component) { c.StockCount = n }
}

// WithSpec sets one spec attribute, keeping earlier attributes in order.
func WithSpec(key string, value any) func(*models.Component) {
	return func(c *models.Component) { c.Specs.Set(key, value) }
}

// Compile-time interface guards.
var (
	_ catalog.Accessor       = (*StaticCatalog)(nil)
	_ catalog.PrebuiltSource = (*StaticCatalog)(nil)
)

// StaticCatalog is an in-memory catalog accessor over fixed records.
type StaticCatalog struct {
	Items         []models.Component
	PrebuiltItems []models.Prebuilt
	Err           error
}

// NewStaticCatalog returns a StaticCatalog over items.
func NewStaticCatalog(items ...models.Component) *StaticCatalog {
	return &StaticCatalog{Items: items}
}

// All returns a copy of the items, or Err when set.
func (s *StaticCatalog) All(_ context.Context) ([]models.Component, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Component, len(s.Items))
	copy(out, s.Items)
	return out, nil
}

// ByType returns the items of kind.
func (s *StaticCatalog) ByType(ctx context.Context, kind models.SlotKind) ([]models.Component, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSlot, kind)
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.OfType(all, kind), nil
}

// Prebuilts returns the configured prebuilts.
func (s *StaticCatalog) Prebuilts(_ context.Context) ([]models.Prebuilt, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Prebuilt, len(s.PrebuiltItems))
	copy(out, s.PrebuiltItems)
	return out, nil
}
