package services

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	queryPage    = "page"
	queryPerPage = "perPage"

	compactPageThreshold = 7
)

var DefaultPerPageOptions = []int{5, 10, 15, 20}

// PageItem is one entry of the page selector: a page number or an ellipsis.
type PageItem struct {
	Number   int
	Ellipsis bool
}

type Pagination struct {
	CurrentPage    int
	PerPage        int
	TotalPages     int
	TotalItems     int
	PerPageOptions []int

	// NeedsCorrection is set when the requested page or perPage was
	// missing or invalid and the URL should be rewritten in place.
	NeedsCorrection bool
}

// ResolvePagination derives the page state from URL parameters. perPage
// must be in allowList, otherwise the first option is used; page is
// clamped into [1, max(1, totalPages)].
func ResolvePagination(query url.Values, totalItems int, allowList []int) Pagination {
	if len(allowList) == 0 {
		allowList = DefaultPerPageOptions
	}
	if totalItems < 0 {
		totalItems = 0
	}

	requestedPerPage, perPageErr := strconv.Atoi(strings.TrimSpace(query.Get(queryPerPage)))
	perPageValid := perPageErr == nil && containsInt(allowList, requestedPerPage)
	perPage := allowList[0]
	if perPageValid {
		perPage = requestedPerPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}

	requestedPage, pageErr := strconv.Atoi(strings.TrimSpace(query.Get(queryPage)))
	currentPage := 1
	if pageErr == nil {
		currentPage = requestedPage
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if upper := max(1, totalPages); currentPage > upper {
		currentPage = upper
	}
	pageValid := pageErr == nil && requestedPage >= 1 && requestedPage <= totalPages

	options := make([]int, len(allowList))
	copy(options, allowList)

	return Pagination{
		CurrentPage:     currentPage,
		PerPage:         perPage,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		PerPageOptions:  options,
		NeedsCorrection: totalItems != 0 && (!perPageValid || !pageValid),
	}
}

// ItemRange is the half-open index range of the current page. It is not
// clamped to the item count.
func (pagination Pagination) ItemRange() (int, int) {
	start := (pagination.CurrentPage - 1) * pagination.PerPage
	return start, start + pagination.PerPage
}

// PageSlice returns the items of the current page, clamped to len(items).
func PageSlice[T any](items []T, pagination Pagination) []T {
	start, end := pagination.ItemRange()
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (pagination Pagination) HasPrevious() bool {
	return pagination.CurrentPage > 1
}

func (pagination Pagination) HasNext() bool {
	return pagination.CurrentPage < pagination.TotalPages
}

// PagesToDisplay lists every page for short ranges; longer ranges keep the
// first and last page around a window of the current page and its
// neighbours, with ellipses for the gaps.
func (pagination Pagination) PagesToDisplay() []PageItem {
	total := pagination.TotalPages
	current := pagination.CurrentPage

	if total <= compactPageThreshold {
		pages := make([]PageItem, 0, total)
		for number := 1; number <= total; number++ {
			pages = append(pages, PageItem{Number: number})
		}
		return pages
	}

	pages := []PageItem{{Number: 1}}
	if current > 3 {
		pages = append(pages, PageItem{Ellipsis: true})
	}
	for number := current - 1; number <= current+1; number++ {
		if number > 1 && number < total {
			pages = append(pages, PageItem{Number: number})
		}
	}
	if current < total-2 {
		pages = append(pages, PageItem{Ellipsis: true})
	}
	return append(pages, PageItem{Number: total})
}

// CanonicalQuery rewrites page and perPage to the resolved values while
// keeping every other parameter.
func (pagination Pagination) CanonicalQuery(query url.Values) url.Values {
	next := cloneValues(query)
	next.Set(queryPage, strconv.Itoa(pagination.CurrentPage))
	next.Set(queryPerPage, strconv.Itoa(pagination.PerPage))
	return next
}

// GoToPage returns the query for page number, or false when it is out
// of range.
func (pagination Pagination) GoToPage(query url.Values, number int) (url.Values, bool) {
	if number < 1 || number > pagination.TotalPages {
		return nil, false
	}
	next := cloneValues(query)
	next.Set(queryPage, strconv.Itoa(number))
	return next, true
}

// SetItemsPerPage switches the page size and returns to the first page.
func (pagination Pagination) SetItemsPerPage(query url.Values, perPage int) url.Values {
	next := cloneValues(query)
	next.Set(queryPage, "1")
	next.Set(queryPerPage, strconv.Itoa(perPage))
	return next
}

func cloneValues(values url.Values) url.Values {
	cloned := make(url.Values, len(values))
	for key, entries := range values {
		copied := make([]string, len(entries))
		copy(copied, entries)
		cloned[key] = copied
	}
	return cloned
}

func containsInt(values []int, needle int) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
