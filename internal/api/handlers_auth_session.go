package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := services.RegistrationInput{}
	fieldErrors, err := handler.validateForm(c, &input)
	if err != nil {
		return handler.serverError(c, "failed to validate form", err)
	}
	formValues := map[string]string{"name": input.Name, "email": input.Email}
	if len(fieldErrors) > 0 {
		handler.metrics.RecordAuthAttempt("register", false)
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, "/signup", FlashPayload{
			FieldErrors: fieldErrors,
			FormValues:  formValues,
		})
	}

	result, err := handler.auth.Register(c.UserContext(), input, handler.language(c))
	if err != nil {
		handler.metrics.RecordAuthAttempt("register", false)
		status, message := handler.authFailure("register", err)
		return handler.respondFormError(c, status, "/signup", FlashPayload{Error: message, FormValues: formValues})
	}
	handler.metrics.RecordAuthAttempt("register", true)

	if err := handler.sendConfirmation(c, result.Email); err != nil {
		handler.logger.Error("send account confirmation failed", zap.String("email", result.Email), zap.Error(err))
	}

	target := pathWithEmail("/signup/instructions-email", result.Email)
	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "email": result.Email, "redirect": target})
	}
	return redirectOrJSON(c, target)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := services.LoginInput{}
	fieldErrors, err := handler.validateForm(c, &input)
	if err != nil {
		return handler.serverError(c, "failed to validate form", err)
	}
	formValues := map[string]string{"email": input.Email}
	if len(fieldErrors) > 0 {
		handler.metrics.RecordAuthAttempt("login", false)
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, "/login", FlashPayload{
			FieldErrors: fieldErrors,
			FormValues:  formValues,
		})
	}

	session, err := handler.auth.Login(c.UserContext(), input, handler.language(c))
	if err != nil {
		handler.metrics.RecordAuthAttempt("login", false)
		status, message := handler.authFailure("login", err)
		return handler.respondFormError(c, status, "/login", FlashPayload{Error: message, FormValues: formValues})
	}
	handler.metrics.RecordAuthAttempt("login", true)

	if err := handler.setSessionCookie(c, session); err != nil {
		return handler.serverError(c, "failed to create session", err)
	}
	return redirectOrJSON(c, "/")
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if session, ok := currentSession(c); ok {
		if err := handler.auth.Logout(c.UserContext(), *session, handler.language(c)); err != nil {
			handler.logger.Warn("logout failed", zap.Error(err))
		}
	}
	handler.clearSessionCookie(c)
	return redirectOrJSON(c, "/")
}

func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	input := services.ForgotPasswordInput{}
	fieldErrors, err := handler.validateForm(c, &input)
	if err != nil {
		return handler.serverError(c, "failed to validate form", err)
	}
	formValues := map[string]string{"email": input.Email}
	if len(fieldErrors) > 0 {
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, "/forgot-password", FlashPayload{
			FieldErrors: fieldErrors,
			FormValues:  formValues,
		})
	}

	if err := handler.auth.ForgotPassword(c.UserContext(), input, c.IP(), handler.language(c)); err != nil {
		handler.metrics.RecordAuthAttempt("forgot_password", false)
		status, message := handler.authFailure("forgot_password", err)
		return handler.respondFormError(c, status, "/forgot-password", FlashPayload{Error: message, FormValues: formValues})
	}
	handler.metrics.RecordAuthAttempt("forgot_password", true)
	return redirectOrJSON(c, pathWithEmail("/forgot-password/check-email", input.Email))
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := services.ResetPasswordInput{}
	fieldErrors, err := handler.validateForm(c, &input)
	if err != nil {
		return handler.serverError(c, "failed to validate form", err)
	}
	backPath := pathWithToken("/reset-password", input.Token)
	if len(fieldErrors) > 0 {
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, backPath, FlashPayload{FieldErrors: fieldErrors})
	}

	if err := handler.auth.ResetPassword(c.UserContext(), input, handler.language(c)); err != nil {
		handler.metrics.RecordAuthAttempt("reset_password", false)
		status, message := handler.authFailure("reset_password", err)
		return handler.respondFormError(c, status, backPath, FlashPayload{Error: message})
	}
	handler.metrics.RecordAuthAttempt("reset_password", true)

	if !acceptsJSON(c) && !isHTMX(c) {
		handler.setFlashCookie(c, FlashPayload{Success: "auth.reset.success"})
	}
	return redirectOrJSON(c, "/login")
}
