package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownSlot is returned when a slot kind outside the fixed set is requested.
var ErrUnknownSlot = errors.New("unknown slot kind")

// SlotKind identifies one of the eight component categories of a build.
type SlotKind string

const (
	SlotCPU         SlotKind = "cpu"
	SlotMotherboard SlotKind = "motherboard"
	SlotRAM         SlotKind = "ram"
	SlotGPU         SlotKind = "gpu"
	SlotStorage     SlotKind = "storage"
	SlotPSU         SlotKind = "psu"
	SlotCase        SlotKind = "case"
	SlotCooler      SlotKind = "cooler"
)

// SlotKinds returns every slot kind in canonical build order.
func SlotKinds() []SlotKind {
	return []SlotKind{
		SlotCPU,
		SlotMotherboard,
		SlotRAM,
		SlotGPU,
		SlotStorage,
		SlotPSU,
		SlotCase,
		SlotCooler,
	}
}

// IsValid reports whether k is one of the fixed slot kinds.
func (k SlotKind) IsValid() bool {
	for _, valid := range SlotKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// ParseSlotKind converts s (case-insensitive) into a SlotKind.
func ParseSlotKind(s string) (SlotKind, error) {
	k := SlotKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return k, nil
}

// Component is a single catalog part. Records are immutable once loaded.
type Component struct {
	ID         string   `json:"id" yaml:"id"`
	Type       SlotKind `json:"type" yaml:"type"`
	Name       string   `json:"name" yaml:"name"`
	Price      float64  `json:"price" yaml:"price"`
	StockCount int      `json:"stock_count" yaml:"stock_count"`
	Image      string   `json:"image,omitempty" yaml:"image,omitempty"`
	Specs      Specs    `json:"specs" yaml:"specs"`
}

// StockLabel renders the stock count the way the storefront shows it.
func (c Component) StockLabel() string {
	if c.StockCount <= 0 {
		return "Out of stock"
	}
	return fmt.Sprintf("%d in stock", c.StockCount)
}

// BuildSlotMap associates each occupied slot with a catalog component.
// Components are referenced, not owned; their lifetime is the catalog's.
type BuildSlotMap map[SlotKind]*Component

// Clone returns a shallow copy of the slot map.
func (b BuildSlotMap) Clone() BuildSlotMap {
	out := make(BuildSlotMap, len(b))
	for k, v := range b {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Get returns the component in slot k, or nil.
func (b BuildSlotMap) Get(k SlotKind) *Component {
	if b == nil {
		return nil
	}
	return b[k]
}

// ManufacturerAll is the FilterState value that disables manufacturer filtering.
const ManufacturerAll = "All"

// FilterState is the picker state for one slot kind.
type FilterState struct {
	Slot             SlotKind            `json:"slot"`
	Query            string              `json:"query,omitempty"`
	MaxPrice         float64             `json:"max_price,omitempty"` // 0 means unset
	Manufacturer     string              `json:"manufacturer,omitempty"`
	StockOnly        bool                `json:"stock_only,omitempty"`
	UniqueSelections map[string][]string `json:"unique_selections,omitempty"`
}

// ComparisonRow is one attribute line of a comparison table.
type ComparisonRow struct {
	Key       string   `json:"key"`
	Values    []string `json:"values"`
	BestIndex *int     `json:"best_index"`
}

// SavedBuildSummary is a point-in-time snapshot of a build.
type SavedBuildSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Total   float64   `json:"total"`
	Watts   float64   `json:"watts"`
	SavedAt time.Time `json:"saved_at"`
}

// Prebuilt is a named starting configuration referencing catalog component IDs.
type Prebuilt struct {
	Slug     string              `json:"slug" yaml:"slug"`
	Name     string              `json:"name" yaml:"name"`
	Subtitle string              `json:"subtitle" yaml:"subtitle"`
	Parts    map[SlotKind]string `json:"parts" yaml:"parts"`
}
