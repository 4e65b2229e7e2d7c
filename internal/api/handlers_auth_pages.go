package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

// authPageData carries the flash into the form so errors and entered
// values survive the redirect.
func authPageData(c *fiber.Ctx, flash FlashPayload, titleKey string, fallback string) fiber.Map {
	values := flash.FormValues
	if values == nil {
		values = map[string]string{}
	}
	errors := flash.FieldErrors
	if errors == nil {
		errors = map[string]string{}
	}
	return fiber.Map{
		"Title":       localizedPageTitle(currentMessages(c), titleKey, fallback),
		"Flash":       flash,
		"FormValues":  values,
		"FieldErrors": errors,
	}
}

func (handler *Handler) redirectIfSignedIn(c *fiber.Ctx) bool {
	_, ok := currentSession(c)
	return ok
}

func (handler *Handler) ShowSignupPage(c *fiber.Ctx) error {
	if handler.redirectIfSignedIn(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "signup", authPageData(c, flash, "meta.title.signup", "Sign up | Pitlane"))
}

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if handler.redirectIfSignedIn(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", authPageData(c, flash, "meta.title.login", "Log in | Pitlane"))
}

func (handler *Handler) ShowForgotPasswordPage(c *fiber.Ctx) error {
	flash := handler.popFlashCookie(c)
	return handler.render(c, "forgot_password", authPageData(c, flash, "meta.title.forgot_password", "Forgot password | Pitlane"))
}

func (handler *Handler) ShowForgotPasswordCheckEmail(c *fiber.Ctx) error {
	data := authPageData(c, FlashPayload{}, "meta.title.check_email", "Check your email | Pitlane")
	data["Email"] = services.NormalizeEmailInput(c.Query("email"))
	return handler.render(c, "forgot_password_check", data)
}

func (handler *Handler) ShowResetPasswordPage(c *fiber.Ctx) error {
	flash := handler.popFlashCookie(c)
	data := authPageData(c, flash, "meta.title.reset_password", "Reset password | Pitlane")
	data["Token"] = strings.TrimSpace(c.Query("token"))
	return handler.render(c, "reset_password", data)
}
