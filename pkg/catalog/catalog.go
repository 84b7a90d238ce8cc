// Package catalog defines the component catalog accessor and the loaders
// that back it with an embedded or on-disk YAML/JSON document.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// ErrNotFound is returned when a component or prebuilt ID is not in the catalog.
var ErrNotFound = errors.New("not found")

// Accessor exposes a flat, already-loaded list of component records.
type Accessor interface {
	// All returns every component in stable catalog order.
	All(ctx context.Context) ([]models.Component, error)

	// ByType returns the subset of All for one slot kind, in the same order.
	// Unknown kinds yield models.ErrUnknownSlot.
	ByType(ctx context.Context, kind models.SlotKind) ([]models.Component, error)
}

// PrebuiltSource is implemented by accessors that also carry prebuilt series.
type PrebuiltSource interface {
	Prebuilts(ctx context.Context) ([]models.Prebuilt, error)
}

// OfType returns the components of kind from items, preserving order.
func OfType(items []models.Component, kind models.SlotKind) []models.Component {
	out := make([]models.Component, 0, len(items))
	for i := range items {
		if items[i].Type == kind {
			out = append(out, items[i])
		}
	}
	return out
}

// FindByID looks up a single component through the accessor.
func FindByID(ctx context.Context, acc Accessor, id string) (models.Component, error) {
	all, err := acc.All(ctx)
	if err != nil {
		return models.Component{}, err
	}
	for i := range all {
		if all[i].ID == id {
			return all[i], nil
		}
	}
	return models.Component{}, fmt.Errorf("component %q: %w", id, ErrNotFound)
}

// FindManyByID resolves ids in the given order. Unknown ids are skipped, so
// the result may be shorter than ids.
func FindManyByID(ctx context.Context, acc Accessor, ids []string) ([]models.Component, error) {
	all, err := acc.All(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(all))
	for i := range all {
		index[all[i].ID] = i
	}
	out := make([]models.Component, 0, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Similar returns up to limit components of the same type as c, excluding c,
// in catalog order.
func Similar(items []models.Component, c models.Component, limit int) []models.Component {
	out := make([]models.Component, 0, limit)
	for i := range items {
		if len(out) >= limit {
			break
		}
		if items[i].Type == c.Type && items[i].ID != c.ID {
			out = append(out, items[i])
		}
	}
	return out
}

// FindPrebuilt looks up a prebuilt series by slug.
func FindPrebuilt(ctx context.Context, src PrebuiltSource, slug string) (models.Prebuilt, error) {
	all, err := src.Prebuilts(ctx)
	if err != nil {
		return models.Prebuilt{}, err
	}
	for i := range all {
		if all[i].Slug == slug {
			return all[i], nil
		}
	}
	return models.Prebuilt{}, fmt.Errorf("prebuilt %q: %w", slug, ErrNotFound)
}
