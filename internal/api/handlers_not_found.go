package api

import (
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// NotFound is the last handler in the chain. API paths and JSON clients
// get a JSON error; htmx swaps get a fragment; browsers get the 404 page.
func (handler *Handler) NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	messages := currentMessages(c)

	switch {
	case strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c):
		return apiError(c, fiber.StatusNotFound, "not found")
	case isHTMX(c):
		c.Type("html", "utf-8")
		return c.SendString(`<div class="status-error" role="alert">` +
			template.HTMLEscapeString(translateMessage(messages, "not_found.title")) + `</div>`)
	}

	return handler.render(c, "not_found", fiber.Map{
		"Title": localizedPageTitle(messages, "meta.title.not_found", "Page not found | Pitlane"),
	})
}
