package compare

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/HerbHall/rigplanner/internal/specs"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// PriceRowKey is the key of the first comparison row.
const PriceRowKey = "Price"

// MissingCell is rendered for a spec key an item does not carry.
const MissingCell = "-"

// DefaultCurrency prefixes formatted prices.
const DefaultCurrency = "PHP"

type tableConfig struct {
	currency    string
	maxSpecRows int
}

// Option configures Table.
type Option func(*tableConfig)

// WithCurrency sets the currency code shown in the price row.
func WithCurrency(code string) Option {
	return func(c *tableConfig) {
		if code != "" {
			c.currency = code
		}
	}
}

// WithMaxSpecRows caps the number of spec rows after the price row.
// Zero or less keeps every row.
func WithMaxSpecRows(n int) Option {
	return func(c *tableConfig) { c.maxSpecRows = n }
}

// Table lays items out as comparison rows. The first row is the price
// (lowest wins); the rest follow spec keys in first-appearance order across
// items (highest wins, only when every cell is numeric). Winners need at
// least two items.
func Table(items []models.Component, opts ...Option) ([]models.ComparisonRow, error) {
	if len(items) == 0 {
		return nil, ErrEmptyComparison
	}
	cfg := tableConfig{currency: DefaultCurrency}
	for _, opt := range opts {
		opt(&cfg)
	}

	keys := unionKeys(items)
	if cfg.maxSpecRows > 0 && len(keys) > cfg.maxSpecRows {
		keys = keys[:cfg.maxSpecRows]
	}

	rows := make([]models.ComparisonRow, 0, len(keys)+1)
	rows = append(rows, priceRow(items, cfg.currency))
	for _, k := range keys {
		rows = append(rows, specRow(items, k))
	}
	return rows, nil
}

// FormatPrice renders a price the way the price row shows it.
func FormatPrice(currency string, price float64) string {
	return fmt.Sprintf("%s %s", currency, humanize.Commaf(price))
}

func priceRow(items []models.Component, currency string) models.ComparisonRow {
	row := models.ComparisonRow{Key: PriceRowKey, Values: make([]string, len(items))}
	best := 0
	for i := range items {
		row.Values[i] = FormatPrice(currency, items[i].Price)
		if items[i].Price < items[best].Price {
			best = i
		}
	}
	if len(items) >= 2 {
		row.BestIndex = &best
	}
	return row
}

func specRow(items []models.Component, key string) models.ComparisonRow {
	row := models.ComparisonRow{Key: key, Values: make([]string, len(items))}
	nums := make([]float64, len(items))
	comparable := len(items) >= 2
	for i := range items {
		v := MissingCell
		if _, ok := items[i].Specs.Get(key); ok {
			v = items[i].Specs.String(key)
		}
		row.Values[i] = v

		n, ok := specs.ParseNumber(v)
		if !ok {
			comparable = false
		}
		nums[i] = n
	}
	if comparable {
		best := 0
		for i := 1; i < len(nums); i++ {
			if nums[i] > nums[best] {
				best = i
			}
		}
		row.BestIndex = &best
	}
	return row
}

func unionKeys(items []models.Component) []string {
	seen := make(map[string]bool)
	var keys []string
	for i := range items {
		for _, k := range items[i].Specs.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
