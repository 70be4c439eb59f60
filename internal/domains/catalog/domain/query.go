package domain

import (
	"errors"
	"strings"
)

// SortKey enumerates the supported catalog orderings.
type SortKey string

const (
	SortNone     SortKey = ""
	SortName     SortKey = "name"
	SortPrice    SortKey = "price"
	SortRating   SortKey = "rating"
	SortCategory SortKey = "category"
	SortSKU      SortKey = "sku"
)

// Direction is the sort direction.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

var ErrInvalidSort = errors.New("sort key is not supported")

// Query describes a catalog search. An empty SearchTerm matches every product.
type Query struct {
	SearchTerm string
	Categories []string
	Sort       SortKey
	Direction  Direction
}

// ParseSortKey accepts the public sort names.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case SortNone, SortName, SortPrice, SortRating, SortCategory, SortSKU:
		return key, nil
	default:
		return SortNone, ErrInvalidSort
	}
}

// ParseDirection defaults to ascending for anything other than "desc".
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), string(DirectionDesc)) {
		return DirectionDesc
	}
	return DirectionAsc
}

// Descending reports whether results are ordered high to low.
func (q Query) Descending() bool {
	return q.Direction == DirectionDesc
}

// Matches reports whether the product satisfies the search term and category filter.
func (q Query) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if len(q.Categories) > 0 {
		if p.Category == nil || !contains(q.Categories, p.Category.Name) {
			return false
		}
	}
	if term := strings.ToLower(q.SearchTerm); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
