// Package services provides repository interfaces and SQLite implementations
// for data access. The component repository persists the catalog so it can
// be served as a catalog accessor after an import.
package services

import "github.com/HerbHall/rigplanner/pkg/catalog"

// Page size bounds for List queries.
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// ListOptions pages and orders a List query. SortBy names a column the
// repository allows; anything else keeps catalog order.
type ListOptions struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string // "asc" (default) or "desc"
}

// ListResult is one page of T plus the unpaged match count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ErrNotFound is returned when a record does not exist. It is the catalog
// sentinel, so callers can match either package's lookups with one check.
var ErrNotFound = catalog.ErrNotFound

func normalizeListOptions(opts ListOptions) ListOptions {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultPageSize
	case opts.Limit > MaxPageSize:
		opts.Limit = MaxPageSize
	}
	opts.Offset = max(opts.Offset, 0)
	if opts.SortOrder != "desc" {
		opts.SortOrder = "asc"
	}
	return opts
}
