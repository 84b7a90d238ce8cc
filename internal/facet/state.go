package facet

import (
	"fmt"
	"maps"
	"slices"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// State is a picker's filter state bound to one slot kind. Selections are
// only accepted for the slot's own facet attributes.
type State struct {
	s models.FilterState
}

// NewState returns an empty filter state for kind.
func NewState(kind models.SlotKind) *State {
	return &State{s: models.FilterState{
		Slot:             kind,
		Manufacturer:     models.ManufacturerAll,
		UniqueSelections: map[string][]string{},
	}}
}

// FromFilterState validates fs against its slot kind and wraps it.
func FromFilterState(fs models.FilterState) (*State, error) {
	if !fs.Slot.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSlot, fs.Slot)
	}
	if err := validateSelections(fs.Slot, fs.UniqueSelections); err != nil {
		return nil, err
	}
	st := NewState(fs.Slot)
	st.s.Query = fs.Query
	st.s.MaxPrice = fs.MaxPrice
	st.s.StockOnly = fs.StockOnly
	if fs.Manufacturer != "" {
		st.s.Manufacturer = fs.Manufacturer
	}
	for attr, values := range fs.UniqueSelections {
		if len(values) > 0 {
			st.s.UniqueSelections[attr] = slices.Clone(values)
		}
	}
	return st, nil
}

// Slot returns the slot kind the state is bound to.
func (st *State) Slot() models.SlotKind { return st.s.Slot }

// SetQuery sets the free-text query.
func (st *State) SetQuery(q string) { st.s.Query = q }

// SetMaxPrice sets the price ceiling. Zero or less clears it.
func (st *State) SetMaxPrice(p float64) {
	if p < 0 {
		p = 0
	}
	st.s.MaxPrice = p
}

// SetManufacturer selects a manufacturer. An empty name means "All".
func (st *State) SetManufacturer(name string) {
	if name == "" {
		name = models.ManufacturerAll
	}
	st.s.Manufacturer = name
}

// SetStockOnly toggles the in-stock constraint.
func (st *State) SetStockOnly(on bool) { st.s.StockOnly = on }

// Select replaces the selected values of attr. No values clears it.
func (st *State) Select(attr string, values ...string) error {
	if !HasAttribute(st.s.Slot, attr) {
		return fmt.Errorf("%w: %q for slot %s", ErrUnknownAttribute, attr, st.s.Slot)
	}
	if len(values) == 0 {
		delete(st.s.UniqueSelections, attr)
		return nil
	}
	st.s.UniqueSelections[attr] = slices.Clone(values)
	return nil
}

// Toggle adds value to the selection of attr, or removes it if present.
func (st *State) Toggle(attr, value string) error {
	current := st.s.UniqueSelections[attr]
	if i := slices.Index(current, value); i >= 0 {
		return st.Select(attr, slices.Delete(slices.Clone(current), i, i+1)...)
	}
	return st.Select(attr, append(slices.Clone(current), value)...)
}

// Retarget binds the state to a new slot kind. Changing the kind resets
// every constraint, since facet attributes differ between kinds.
func (st *State) Retarget(kind models.SlotKind) {
	if kind == st.s.Slot {
		return
	}
	*st = *NewState(kind)
}

// FilterState returns a copy of the underlying state.
func (st *State) FilterState() models.FilterState {
	out := st.s
	out.UniqueSelections = maps.Clone(st.s.UniqueSelections)
	for k, v := range out.UniqueSelections {
		out.UniqueSelections[k] = slices.Clone(v)
	}
	return out
}

// Apply filters items with the current state.
func (st *State) Apply(items []models.Component) []models.Component {
	return Filter(items, st.s.Slot, st.s)
}
