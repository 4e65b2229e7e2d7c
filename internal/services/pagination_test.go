package services

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"testing"
)

func TestResolvePaginationClampsPage(t *testing.T) {
	cases := []struct {
		name     string
		page     string
		wantPage int
	}{
		{name: "past the end", page: "99", wantPage: 3},
		{name: "zero", page: "0", wantPage: 1},
		{name: "not a number", page: "abc", wantPage: 1},
		{name: "missing", page: "", wantPage: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query := url.Values{"perPage": {"10"}}
			if tc.page != "" {
				query.Set("page", tc.page)
			}
			pagination := ResolvePagination(query, 23, DefaultPerPageOptions)
			if pagination.CurrentPage != tc.wantPage {
				t.Fatalf("expected page %d, got %d", tc.wantPage, pagination.CurrentPage)
			}
			if pagination.TotalPages != 3 {
				t.Fatalf("expected 3 pages, got %d", pagination.TotalPages)
			}
			if !pagination.NeedsCorrection {
				t.Fatal("expected correction to be required")
			}
		})
	}
}

func TestResolvePaginationValidQueryNeedsNoCorrection(t *testing.T) {
	pagination := ResolvePagination(url.Values{"page": {"2"}, "perPage": {"15"}}, 23, DefaultPerPageOptions)
	if pagination.CurrentPage != 2 || pagination.PerPage != 15 {
		t.Fatalf("unexpected pagination %+v", pagination)
	}
	if pagination.NeedsCorrection {
		t.Fatal("expected a valid query to need no correction")
	}
}

func TestResolvePaginationPerPageOutsideAllowList(t *testing.T) {
	pagination := ResolvePagination(url.Values{"page": {"1"}, "perPage": {"7"}}, 23, DefaultPerPageOptions)
	if pagination.PerPage != 5 || pagination.TotalPages != 5 {
		t.Fatalf("expected fallback to 5 per page over 5 pages, got %+v", pagination)
	}
	if !pagination.NeedsCorrection {
		t.Fatal("expected correction for a perPage outside the allow-list")
	}
}

func TestResolvePaginationEmptyListNeverCorrects(t *testing.T) {
	pagination := ResolvePagination(url.Values{"page": {"42"}, "perPage": {"nope"}}, 0, DefaultPerPageOptions)
	if pagination.CurrentPage != 1 || pagination.TotalPages != 0 {
		t.Fatalf("unexpected pagination %+v", pagination)
	}
	if pagination.NeedsCorrection {
		t.Fatal("expected no correction for an empty list")
	}
	if items := pagination.PagesToDisplay(); len(items) != 0 {
		t.Fatalf("expected no page items, got %v", items)
	}
}

func TestPageSliceClampsLastPage(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	pagination := ResolvePagination(url.Values{"page": {"3"}, "perPage": {"10"}}, len(items), DefaultPerPageOptions)

	if start, end := pagination.ItemRange(); start != 20 || end != 30 {
		t.Fatalf("expected item range 20..30, got %d..%d", start, end)
	}
	if got := PageSlice(items, pagination); !slices.Equal(got, []int{20, 21, 22}) {
		t.Fatalf("expected last three items, got %v", got)
	}
}

func renderPageItems(items []PageItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Ellipsis {
			parts = append(parts, "...")
			continue
		}
		parts = append(parts, fmt.Sprint(item.Number))
	}
	return strings.Join(parts, " ")
}

func TestPagesToDisplay(t *testing.T) {
	cases := []struct {
		name    string
		total   int
		current int
		want    string
	}{
		{name: "middle window", total: 20, current: 10, want: "1 ... 9 10 11 ... 20"},
		{name: "short range", total: 7, current: 4, want: "1 2 3 4 5 6 7"},
		{name: "near start", total: 20, current: 2, want: "1 2 3 ... 20"},
		{name: "near end", total: 20, current: 19, want: "1 ... 18 19 20"},
		{name: "first page", total: 10, current: 1, want: "1 2 ... 10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pagination := Pagination{CurrentPage: tc.current, TotalPages: tc.total, PerPage: 5}
			if got := renderPageItems(pagination.PagesToDisplay()); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGoToPageAndSetItemsPerPagePreserveOtherParams(t *testing.T) {
	query := url.Values{"page": {"2"}, "perPage": {"5"}, "lang": {"en"}}
	pagination := ResolvePagination(query, 23, DefaultPerPageOptions)

	next, ok := pagination.GoToPage(query, 5)
	if !ok {
		t.Fatal("expected page 5 to be reachable")
	}
	if next.Get("page") != "5" || next.Get("lang") != "en" {
		t.Fatalf("unexpected query %v", next)
	}
	if query.Get("page") != "2" {
		t.Fatal("expected the input query to stay untouched")
	}

	for _, page := range []int{6, 0} {
		if _, ok := pagination.GoToPage(query, page); ok {
			t.Fatalf("expected page %d to be rejected", page)
		}
	}

	resized := pagination.SetItemsPerPage(query, 20)
	if resized.Get("page") != "1" || resized.Get("perPage") != "20" || resized.Get("lang") != "en" {
		t.Fatalf("unexpected resized query %v", resized)
	}
}

func TestCanonicalQuery(t *testing.T) {
	query := url.Values{"page": {"99"}, "campaigns": {"Alpha"}}
	pagination := ResolvePagination(query, 23, DefaultPerPageOptions)
	if got := pagination.CanonicalQuery(query).Encode(); got != "campaigns=Alpha&page=5&perPage=5" {
		t.Fatalf("unexpected canonical query %q", got)
	}
}
