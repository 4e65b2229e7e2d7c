package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

type pageLinkView struct {
	Number   int
	Ellipsis bool
	Current  bool
	URL      string
}

type perPageLinkView struct {
	Value   int
	Current bool
	URL     string
}

type paginationView struct {
	services.Pagination
	PrevURL      string
	NextURL      string
	Pages        []pageLinkView
	PerPageLinks []perPageLinkView
	FirstItem    int
	LastItem     int
}

func buildPaginationView(path string, query url.Values, pagination services.Pagination) paginationView {
	view := paginationView{Pagination: pagination}
	if pagination.TotalItems == 0 {
		return view
	}

	start, end := pagination.ItemRange()
	if end > pagination.TotalItems {
		end = pagination.TotalItems
	}
	view.FirstItem = start + 1
	view.LastItem = end

	if pagination.HasPrevious() {
		if target, ok := pagination.GoToPage(query, pagination.CurrentPage-1); ok {
			view.PrevURL = withQuery(path, target)
		}
	}
	if pagination.HasNext() {
		if target, ok := pagination.GoToPage(query, pagination.CurrentPage+1); ok {
			view.NextURL = withQuery(path, target)
		}
	}

	for _, item := range pagination.PagesToDisplay() {
		link := pageLinkView{Number: item.Number, Ellipsis: item.Ellipsis, Current: item.Number == pagination.CurrentPage}
		if !item.Ellipsis {
			if target, ok := pagination.GoToPage(query, item.Number); ok {
				link.URL = withQuery(path, target)
			}
		}
		view.Pages = append(view.Pages, link)
	}

	for _, option := range pagination.PerPageOptions {
		view.PerPageLinks = append(view.PerPageLinks, perPageLinkView{
			Value:   option,
			Current: option == pagination.PerPage,
			URL:     withQuery(path, pagination.SetItemsPerPage(query, option)),
		})
	}
	return view
}

// resolvePage resolves the pagination for path and reports whether a
// canonicalizing redirect was sent instead.
func resolvePage(c *fiber.Ctx, path string, totalItems int) (services.Pagination, url.Values, bool, error) {
	query := requestQuery(c)
	pagination := services.ResolvePagination(query, totalItems, services.DefaultPerPageOptions)
	if pagination.NeedsCorrection {
		return pagination, query, true, c.Redirect(withQuery(path, pagination.CanonicalQuery(query)), fiber.StatusFound)
	}
	return pagination, query, false, nil
}
