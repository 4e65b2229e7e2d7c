package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

func (handler *Handler) ShowContactPage(c *fiber.Ctx) error {
	flash := handler.popFlashCookie(c)
	return handler.render(c, "contact", authPageData(c, flash, "meta.title.contact", "Contact | Pitlane"))
}

func (handler *Handler) SubmitContact(c *fiber.Ctx) error {
	input := services.ContactInput{}
	fieldErrors, err := handler.validateForm(c, &input)
	if err != nil {
		return handler.serverError(c, "failed to validate form", err)
	}
	if len(fieldErrors) > 0 {
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, "/contact", FlashPayload{
			FieldErrors: fieldErrors,
			FormValues: map[string]string{
				"title":       input.Title,
				"description": input.Description,
				"email":       input.Email,
			},
		})
	}

	message, err := handler.contact.Submit(c.UserContext(), input, handler.language(c))
	if err != nil {
		return handler.serverError(c, "failed to store message", err)
	}

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "id": message.ID})
	}
	handler.setFlashCookie(c, FlashPayload{Success: "contact.success"})
	return redirectOrJSON(c, "/contact")
}
