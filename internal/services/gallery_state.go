package services

import (
	"net/url"
	"strings"
)

// Facet is one of the three fixed gallery dimensions.
type Facet string

const (
	FacetCampaign Facet = "campaign"
	FacetCourse   Facet = "course"
	FacetYear     Facet = "year"
)

// Facets lists every facet in display order.
var Facets = []Facet{FacetCampaign, FacetCourse, FacetYear}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	querySortKey   = "sortKey"
	querySortOrder = "sortOrder"
)

// ParseFacet maps a raw name onto the closed facet set.
func ParseFacet(raw string) (Facet, bool) {
	switch Facet(strings.ToLower(strings.TrimSpace(raw))) {
	case FacetCampaign:
		return FacetCampaign, true
	case FacetCourse:
		return FacetCourse, true
	case FacetYear:
		return FacetYear, true
	default:
		return "", false
	}
}

// QueryParam is the repeated URL parameter carrying the facet's selection.
func (facet Facet) QueryParam() string {
	return string(facet) + "s"
}

// ParseSortOrder treats anything other than "desc" as ascending.
func ParseSortOrder(raw string) SortOrder {
	if raw == string(SortDesc) {
		return SortDesc
	}
	return SortAsc
}

func (order SortOrder) Reverse() SortOrder {
	if order == SortDesc {
		return SortAsc
	}
	return SortDesc
}

type SortState struct {
	Key   Facet
	Order SortOrder
}

// DefaultGallerySort applies when the URL carries no sort.
var DefaultGallerySort = SortState{Key: FacetYear, Order: SortDesc}

// FilterState holds the selected values per facet. An empty selection
// places no constraint on that facet.
type FilterState struct {
	selected map[Facet][]string
}

func NewFilterState() FilterState {
	return FilterState{selected: make(map[Facet][]string, len(Facets))}
}

// Values returns the selected values for facet in selection order.
func (state FilterState) Values(facet Facet) []string {
	values := state.selected[facet]
	result := make([]string, len(values))
	copy(result, values)
	return result
}

func (state FilterState) Has(facet Facet, value string) bool {
	for _, selected := range state.selected[facet] {
		if selected == value {
			return true
		}
	}
	return false
}

func (state FilterState) IsEmpty() bool {
	for _, facet := range Facets {
		if len(state.selected[facet]) > 0 {
			return false
		}
	}
	return true
}

func (state FilterState) SelectedCount() int {
	count := 0
	for _, facet := range Facets {
		count += len(state.selected[facet])
	}
	return count
}

// With returns a copy of the state with value added to facet.
func (state FilterState) With(facet Facet, value string) FilterState {
	if state.Has(facet, value) {
		return state.clone()
	}
	next := state.clone()
	next.selected[facet] = append(next.selected[facet], value)
	return next
}

// Without returns a copy of the state with value removed from facet.
func (state FilterState) Without(facet Facet, value string) FilterState {
	next := state.clone()
	values := next.selected[facet]
	kept := make([]string, 0, len(values))
	for _, selected := range values {
		if selected != value {
			kept = append(kept, selected)
		}
	}
	next.selected[facet] = kept
	return next
}

func (state FilterState) clone() FilterState {
	next := NewFilterState()
	for facet, values := range state.selected {
		copied := make([]string, len(values))
		copy(copied, values)
		next.selected[facet] = copied
	}
	return next
}

// ParseGalleryQuery reads filters and sort from URL parameters. The sort
// is nil when no sortKey is present so the caller keeps its default.
func ParseGalleryQuery(query url.Values) (FilterState, *SortState) {
	state := NewFilterState()
	for _, facet := range Facets {
		for _, raw := range query[facet.QueryParam()] {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			state = state.With(facet, value)
		}
	}

	key, ok := ParseFacet(query.Get(querySortKey))
	if !ok {
		return state, nil
	}
	return state, &SortState{Key: key, Order: ParseSortOrder(query.Get(querySortOrder))}
}

// EncodeGalleryQuery serializes filters and sort into URL parameters.
func EncodeGalleryQuery(state FilterState, sort *SortState) url.Values {
	query := url.Values{}
	for _, facet := range Facets {
		for _, value := range state.selected[facet] {
			query.Add(facet.QueryParam(), value)
		}
	}
	if sort != nil && sort.Key != "" {
		query.Set(querySortKey, string(sort.Key))
		query.Set(querySortOrder, string(sort.Order))
	}
	return query
}
