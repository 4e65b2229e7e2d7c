package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/services"
)

const (
	authErrorGeneric     = "auth.error.generic"
	authErrorUnavailable = "auth.error.unavailable"
	authErrorInvalidForm = "auth.error.invalid_input"
)

// authFailure turns a gateway error into a flash message and a status.
// Backend messages pass through untouched so the page can map them.
func (handler *Handler) authFailure(flow string, err error) (int, string) {
	var gatewayErr *services.GatewayError
	switch {
	case errors.As(err, &gatewayErr):
		status := gatewayErr.Status
		if status < 400 {
			status = fiber.StatusBadRequest
		}
		return status, gatewayErr.Message
	case errors.Is(err, services.ErrAuthUnavailable):
		handler.logger.Warn("auth backend unavailable", zap.String("flow", flow), zap.Error(err))
		return fiber.StatusBadGateway, authErrorUnavailable
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fiber.StatusBadRequest, authErrorInvalidForm
	default:
		handler.logger.Error("auth flow failed", zap.String("flow", flow), zap.Error(err))
		return fiber.StatusInternalServerError, authErrorGeneric
	}
}

// respondFormError sends a form failure back to the page at path. JSON
// callers get {"error", "fields"} instead of a redirect.
func (handler *Handler) respondFormError(c *fiber.Ctx, status int, path string, flash FlashPayload) error {
	if acceptsJSON(c) || isHTMX(c) {
		if isHTMX(c) {
			message := flash.Error
			if message == "" {
				message = authErrorInvalidForm
			}
			return apiError(c, status, message)
		}
		body := fiber.Map{"error": flash.Error}
		if flash.Error == "" {
			body["error"] = authErrorInvalidForm
		}
		if len(flash.FieldErrors) > 0 {
			body["fields"] = flash.FieldErrors
		}
		return c.Status(status).JSON(body)
	}
	handler.setFlashCookie(c, flash)
	return c.Redirect(path, fiber.StatusSeeOther)
}

// validateForm parses the body into input and validates it. A non-nil
// FieldErrors means the form should be shown again.
func (handler *Handler) validateForm(c *fiber.Ctx, input any) (services.FieldErrors, error) {
	if err := c.BodyParser(input); err != nil {
		return services.FieldErrors{"form": services.FieldErrorInvalid}, nil
	}
	err := handler.validator.Validate(input)
	var fieldErrors services.FieldErrors
	if errors.As(err, &fieldErrors) {
		return fieldErrors, nil
	}
	return nil, err
}

func pathWithEmail(path string, email string) string {
	query := url.Values{}
	if email != "" {
		query.Set("email", email)
	}
	return withQuery(path, query)
}

func pathWithToken(path string, token string) string {
	query := url.Values{}
	if token != "" {
		query.Set("token", token)
	}
	return withQuery(path, query)
}
