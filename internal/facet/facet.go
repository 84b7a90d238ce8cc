// Package facet narrows a catalog slice by free-text query, price ceiling,
// manufacturer, stock and per-slot multi-select facets.
package facet

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// ManufacturerKey is the spec attribute holding a part's manufacturer.
const ManufacturerKey = "Manufacturer"

// ErrUnknownAttribute is returned when a facet selection names an attribute
// the slot kind does not define.
var ErrUnknownAttribute = errors.New("unknown facet attribute")

var attributes = map[models.SlotKind][]string{
	models.SlotCPU:         {"Socket", "Core Count", "Series"},
	models.SlotMotherboard: {"Socket", "Form Factor", "Memory Type", "Chipset"},
	models.SlotRAM:         {"Memory Type", "Capacity", "Speed"},
	models.SlotGPU:         {"Chipset", "VRAM"},
	models.SlotStorage:     {"Interface", "Capacity", "Form Factor"},
	models.SlotPSU:         {"Wattage", "Efficiency Rating", "Modular"},
	models.SlotCase:        {"Form Factor", "Side Panel"},
	models.SlotCooler:      {"Cooler Type", "Radiator Size"},
}

// Attributes returns the facet attribute keys of a slot kind, or nil for an
// unknown kind.
func Attributes(kind models.SlotKind) []string {
	return slices.Clone(attributes[kind])
}

// HasAttribute reports whether attr is a facet of kind.
func HasAttribute(kind models.SlotKind, attr string) bool {
	return slices.Contains(attributes[kind], attr)
}

// Filter returns the items of slice that satisfy state, preserving order.
// The slot kind selects which facet attributes are consulted.
func Filter(items []models.Component, kind models.SlotKind, state models.FilterState) []models.Component {
	m := newMatcher(kind, state)
	out := make([]models.Component, 0, len(items))
	for i := range items {
		if m.match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// matcher holds the normalized form of a FilterState.
type matcher struct {
	query        string
	maxPrice     float64
	manufacturer string
	stockOnly    bool
	facets       []facetSelection
}

type facetSelection struct {
	attr   string
	values map[string]bool
}

func newMatcher(kind models.SlotKind, state models.FilterState) matcher {
	m := matcher{
		query:     strings.ToLower(strings.TrimSpace(state.Query)),
		maxPrice:  state.MaxPrice,
		stockOnly: state.StockOnly,
	}
	if state.Manufacturer != models.ManufacturerAll {
		m.manufacturer = strings.TrimSpace(state.Manufacturer)
	}
	for _, attr := range attributes[kind] {
		selected := state.UniqueSelections[attr]
		if len(selected) == 0 {
			continue
		}
		set := make(map[string]bool, len(selected))
		for _, v := range selected {
			set[strings.TrimSpace(v)] = true
		}
		m.facets = append(m.facets, facetSelection{attr: attr, values: set})
	}
	return m
}

func (m *matcher) match(c *models.Component) bool {
	if m.stockOnly && c.StockCount <= 0 {
		return false
	}
	if m.maxPrice > 0 && c.Price > m.maxPrice {
		return false
	}
	if m.manufacturer != "" && strings.TrimSpace(c.Specs.String(ManufacturerKey)) != m.manufacturer {
		return false
	}
	for _, f := range m.facets {
		if !f.values[strings.TrimSpace(c.Specs.String(f.attr))] {
			return false
		}
	}
	if m.query != "" && !strings.Contains(haystack(c), m.query) {
		return false
	}
	return true
}

// haystack is the case-folded text a query is matched against: the name,
// the type and every spec value, separated by single spaces.
func haystack(c *models.Component) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(string(c.Type))
	for _, k := range c.Specs.Keys() {
		b.WriteByte(' ')
		b.WriteString(c.Specs.String(k))
	}
	return strings.ToLower(b.String())
}

// Options derives the selectable values of every facet attribute of kind
// from items: the sorted set of distinct non-empty values. Values are
// trimmed here and in Filter, so every offered option matches its item.
func Options(items []models.Component, kind models.SlotKind) map[string][]string {
	attrs := attributes[kind]
	out := make(map[string][]string, len(attrs))
	for _, attr := range attrs {
		out[attr] = distinct(items, attr)
	}
	return out
}

// Manufacturers returns "All" followed by the sorted distinct manufacturers
// found in items.
func Manufacturers(items []models.Component) []string {
	return append([]string{models.ManufacturerAll}, distinct(items, ManufacturerKey)...)
}

func distinct(items []models.Component, attr string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for i := range items {
		v := strings.TrimSpace(items[i].Specs.String(attr))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// validateSelections checks every selected attribute against kind.
func validateSelections(kind models.SlotKind, selections map[string][]string) error {
	for attr := range selections {
		if !HasAttribute(kind, attr) {
			return fmt.Errorf("%w: %q for slot %s", ErrUnknownAttribute, attr, kind)
		}
	}
	return nil
}
