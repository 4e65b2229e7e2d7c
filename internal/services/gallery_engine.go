package services

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/terraincognita07/pitlane/internal/models"
)

// FacetVisibleLimit is how many facet values render before the rest are
// folded behind an expand control.
const FacetVisibleLimit = 6

var supportedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"gif":  {},
}

// GalleryState is the URL-derived filter and sort selection.
type GalleryState struct {
	Filters FilterState
	Sort    SortState
}

// GalleryStateFromQuery parses the URL, falling back to the default sort.
func GalleryStateFromQuery(query url.Values) GalleryState {
	filters, sort := ParseGalleryQuery(query)
	state := GalleryState{Filters: filters, Sort: DefaultGallerySort}
	if sort != nil {
		state.Sort = *sort
	}
	return state
}

func (state GalleryState) Query() url.Values {
	sort := state.Sort
	return EncodeGalleryQuery(state.Filters, &sort)
}

func (state GalleryState) Encode() string {
	return state.Query().Encode()
}

// ToggleFacetValue adds value when absent and removes it when present.
// Values are trimmed like parsed query values; a blank value is a no-op.
func (state GalleryState) ToggleFacetValue(facet Facet, value string) GalleryState {
	value = strings.TrimSpace(value)
	if value == "" {
		return state
	}
	if state.Filters.Has(facet, value) {
		state.Filters = state.Filters.Without(facet, value)
	} else {
		state.Filters = state.Filters.With(facet, value)
	}
	return state
}

func (state GalleryState) SetSort(key Facet, order SortOrder) GalleryState {
	state.Sort = SortState{Key: key, Order: order}
	state.Filters = state.Filters.clone()
	return state
}

// ClearAllFilters empties every facet and keeps the active sort.
func (state GalleryState) ClearAllFilters() GalleryState {
	state.Filters = NewFilterState()
	return state
}

// FacetValue reads the image's value for facet, trimmed the same way
// query values are.
func FacetValue(image models.GalleryImage, facet Facet) string {
	switch facet {
	case FacetCampaign:
		return strings.TrimSpace(image.Campaign)
	case FacetCourse:
		return strings.TrimSpace(image.Course)
	case FacetYear:
		return strings.TrimSpace(image.Year)
	default:
		return ""
	}
}

func IsSupportedImageExtension(ext string) bool {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	_, ok := supportedImageExtensions[normalized]
	return ok
}

// FilterSupportedImages drops entries whose extension is not displayable.
func FilterSupportedImages(images []models.GalleryImage) []models.GalleryImage {
	supported := make([]models.GalleryImage, 0, len(images))
	for _, image := range images {
		if IsSupportedImageExtension(image.Ext) {
			supported = append(supported, image)
		}
	}
	return supported
}

// ApplyFilters keeps images matching every constrained facet (AND across
// facets, OR within one facet).
func ApplyFilters(images []models.GalleryImage, filters FilterState) []models.GalleryImage {
	result := make([]models.GalleryImage, 0, len(images))
	for _, image := range images {
		if matchesFilters(image, filters) {
			result = append(result, image)
		}
	}
	return result
}

func matchesFilters(image models.GalleryImage, filters FilterState) bool {
	for _, facet := range Facets {
		if len(filters.selected[facet]) == 0 {
			continue
		}
		if !filters.Has(facet, FacetValue(image, facet)) {
			return false
		}
	}
	return true
}

// ApplySort returns a stably sorted copy. A nil sort keeps input order.
func ApplySort(images []models.GalleryImage, sortState *SortState) []models.GalleryImage {
	sorted := make([]models.GalleryImage, len(images))
	copy(sorted, images)
	if sortState == nil || sortState.Key == "" {
		return sorted
	}

	key := sortState.Key
	descending := sortState.Order == SortDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		comparison := compareFacetValues(key, FacetValue(sorted[i], key), FacetValue(sorted[j], key))
		if descending {
			return comparison > 0
		}
		return comparison < 0
	})
	return sorted
}

func compareFacetValues(facet Facet, left string, right string) int {
	if facet == FacetYear {
		leftYear := parseYear(left)
		rightYear := parseYear(right)
		switch {
		case leftYear < rightYear:
			return -1
		case leftYear > rightYear:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(left), strings.ToLower(right))
}

func parseYear(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// UniqueFacetValues lists distinct values; years newest first, everything
// else alphabetically ignoring case.
func UniqueFacetValues(images []models.GalleryImage, facet Facet) []string {
	seen := make(map[string]struct{}, len(images))
	values := make([]string, 0)
	for _, image := range images {
		value := FacetValue(image, facet)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	sort.SliceStable(values, func(i, j int) bool {
		comparison := compareFacetValues(facet, values[i], values[j])
		if facet == FacetYear {
			return comparison > 0
		}
		if comparison == 0 {
			return values[i] < values[j]
		}
		return comparison < 0
	})
	return values
}
