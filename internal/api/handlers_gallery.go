package api

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/models"
	"github.com/terraincognita07/pitlane/internal/services"
)

const (
	galleryPath            = "/gallery"
	galleryImageParam      = "image"
	filterPanelAutoCloseMs = 5000
)

type facetValueView struct {
	Value     string
	Selected  bool
	ToggleURL string
}

type facetView struct {
	Facet         services.Facet
	LabelKey      string
	Visible       []facetValueView
	Folded        []facetValueView
	SelectedCount int
}

type sortOptionView struct {
	Key       services.Facet
	LabelKey  string
	Active    bool
	Order     services.SortOrder
	AscURL    string
	DescURL   string
	ToggleURL string
}

type galleryImageView struct {
	Image   models.GalleryImage
	URL     string
	OpenURL string
}

type lightboxFacetView struct {
	LabelKey  string
	Value     string
	ToggleURL string
}

type lightboxView struct {
	Index    int
	Position int
	Total    int
	Image    galleryImageView
	Facets   []lightboxFacetView
	PrevURL  string
	NextURL  string
	CloseURL string
}

type galleryView struct {
	State         services.GalleryState
	Images        []galleryImageView
	Facets        []facetView
	SortOptions   []sortOptionView
	ClearURL      string
	HasFilters    bool
	SelectedCount int
	TotalCount    int
	PanelOpen     bool
	AutoCloseMs   int
	Lightbox      *lightboxView
}

func galleryURL(state services.GalleryState) string {
	return withQuery(galleryPath, state.Query())
}

func galleryActionURL(action string, state services.GalleryState, extra url.Values) string {
	query := state.Query()
	for key, values := range extra {
		query[key] = values
	}
	return withQuery(galleryPath+"/"+action, query)
}

func galleryImageURL(state services.GalleryState, index int) string {
	query := state.Query()
	query.Set(galleryImageParam, strconv.Itoa(index))
	return withQuery(galleryPath, query)
}

func buildGalleryView(all []models.GalleryImage, state services.GalleryState, imageParam string, panelOpen bool) galleryView {
	supported := services.FilterSupportedImages(all)
	filtered := services.ApplySort(services.ApplyFilters(supported, state.Filters), &state.Sort)

	view := galleryView{
		State:         state,
		Images:        make([]galleryImageView, 0, len(filtered)),
		ClearURL:      galleryActionURL("clear", state, nil),
		HasFilters:    !state.Filters.IsEmpty(),
		SelectedCount: state.Filters.SelectedCount(),
		TotalCount:    len(supported),
		PanelOpen:     panelOpen,
	}
	if panelOpen {
		view.AutoCloseMs = filterPanelAutoCloseMs
	}

	for index, image := range filtered {
		view.Images = append(view.Images, galleryImageView{
			Image:   image,
			URL:     services.GalleryImageURL(image),
			OpenURL: galleryImageURL(state, index),
		})
	}

	for _, facet := range services.Facets {
		facetItem := facetView{
			Facet:         facet,
			LabelKey:      "gallery.facet." + string(facet),
			SelectedCount: len(state.Filters.Values(facet)),
		}
		for position, value := range services.UniqueFacetValues(supported, facet) {
			item := facetValueView{
				Value:    value,
				Selected: state.Filters.Has(facet, value),
				ToggleURL: galleryActionURL("toggle", state, url.Values{
					"facet": {string(facet)},
					"value": {value},
				}),
			}
			if position < services.FacetVisibleLimit {
				facetItem.Visible = append(facetItem.Visible, item)
			} else {
				facetItem.Folded = append(facetItem.Folded, item)
			}
		}
		view.Facets = append(view.Facets, facetItem)

		option := sortOptionView{
			Key:      facet,
			LabelKey: "gallery.sort." + string(facet),
			Active:   state.Sort.Key == facet,
			AscURL:   galleryActionURL("sort", state, url.Values{"key": {string(facet)}, "order": {string(services.SortAsc)}}),
			DescURL:  galleryActionURL("sort", state, url.Values{"key": {string(facet)}, "order": {string(services.SortDesc)}}),
		}
		if option.Active {
			option.Order = state.Sort.Order
			option.ToggleURL = galleryActionURL("sort", state, url.Values{"key": {string(facet)}, "order": {string(state.Sort.Order.Reverse())}})
		} else {
			option.ToggleURL = option.AscURL
		}
		view.SortOptions = append(view.SortOptions, option)
	}

	view.Lightbox = buildLightboxView(state, view.Images, len(supported), imageParam)
	return view
}

// buildLightboxView opens the requested position against the unfiltered
// listing and rebinds it to the filtered images, so a stale index from a
// wider filter lands on the last visible image.
func buildLightboxView(state services.GalleryState, images []galleryImageView, listingLen int, imageParam string) *lightboxView {
	index, ok := services.ParseLightboxIndex(imageParam)
	if !ok {
		return nil
	}
	lightbox := services.NewLightbox(listingLen).Open(index).Resize(len(images))
	current, open := lightbox.Index()
	if !open {
		return nil
	}

	view := &lightboxView{
		Index:    current,
		Position: current + 1,
		Total:    lightbox.Len(),
		Image:    images[current],
		PrevURL:  lightboxKeyURL(state, lightbox, services.KeyArrowLeft),
		NextURL:  lightboxKeyURL(state, lightbox, services.KeyArrowRight),
		CloseURL: lightboxKeyURL(state, lightbox, services.KeyEscape),
	}
	// Toggle links carry no image parameter, so following one closes the
	// lightbox and lands on the filtered list with the panel open.
	for _, facet := range services.Facets {
		value := services.FacetValue(images[current].Image, facet)
		if value == "" {
			continue
		}
		view.Facets = append(view.Facets, lightboxFacetView{
			LabelKey: "gallery.facet." + string(facet),
			Value:    value,
			ToggleURL: galleryActionURL("toggle", state, url.Values{
				"facet": {string(facet)},
				"value": {value},
			}),
		})
	}
	return view
}

func lightboxKeyURL(state services.GalleryState, lightbox services.Lightbox, key string) string {
	index, open := lightbox.HandleKey(key).Index()
	if !open {
		return galleryURL(state)
	}
	return galleryImageURL(state, index)
}

func (handler *Handler) ShowGallery(c *fiber.Ctx) error {
	query := requestQuery(c)
	state := services.GalleryStateFromQuery(query)
	flash := handler.popFlashCookie(c)
	view := buildGalleryView(handler.gallery.Images(c.UserContext()), state, query.Get(galleryImageParam), flash.FilterPanelOpen)

	messages := currentMessages(c)
	return handler.render(c, "gallery", fiber.Map{
		"Title":   localizedPageTitle(messages, "meta.title.gallery", "Gallery | Pitlane"),
		"Gallery": view,
	})
}

func (handler *Handler) ToggleGalleryFilter(c *fiber.Ctx) error {
	query := requestQuery(c)
	state := services.GalleryStateFromQuery(query)
	if facet, ok := services.ParseFacet(query.Get("facet")); ok {
		state = state.ToggleFacetValue(facet, query.Get("value"))
	}
	handler.setFlashCookie(c, FlashPayload{FilterPanelOpen: true})
	return c.Redirect(galleryURL(state), fiber.StatusSeeOther)
}

func (handler *Handler) SortGallery(c *fiber.Ctx) error {
	query := requestQuery(c)
	state := services.GalleryStateFromQuery(query)
	if key, ok := services.ParseFacet(query.Get("key")); ok {
		state = state.SetSort(key, services.ParseSortOrder(query.Get("order")))
	}
	return c.Redirect(galleryURL(state), fiber.StatusSeeOther)
}

func (handler *Handler) ClearGalleryFilters(c *fiber.Ctx) error {
	state := services.GalleryStateFromQuery(requestQuery(c)).ClearAllFilters()
	handler.setFlashCookie(c, FlashPayload{FilterPanelOpen: true})
	return c.Redirect(galleryURL(state), fiber.StatusSeeOther)
}

// GalleryJSON returns the displayable listing with resolved file URLs.
func (handler *Handler) GalleryJSON(c *fiber.Ctx) error {
	images := services.FilterSupportedImages(handler.gallery.Images(c.UserContext()))
	type listedImage struct {
		models.GalleryImage
		URL string `json:"url"`
	}
	listing := make([]listedImage, 0, len(images))
	for _, image := range images {
		listing = append(listing, listedImage{GalleryImage: image, URL: services.GalleryImageURL(image)})
	}
	return c.JSON(listing)
}
