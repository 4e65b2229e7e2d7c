package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/services"
)

const confirmRedirectSeconds = 5

// signupState is kept in a sealed cookie between the signup form, the
// instructions page and resends.
type signupState struct {
	Email    string    `json:"email"`
	LastSent time.Time `json:"last_sent"`
	Token    string    `json:"token,omitempty"`
}

func (handler *Handler) readSignupState(c *fiber.Ctx) signupState {
	state := signupState{}
	if err := handler.cookies.openJSON(signupCookiePurpose, c.Cookies(signupCookieName), &state); err != nil {
		return signupState{}
	}
	return state
}

func (handler *Handler) writeSignupState(c *fiber.Ctx, state signupState) error {
	if !handler.mockBackend {
		state.Token = ""
	}
	sealed, err := handler.cookies.sealJSON(signupCookiePurpose, state)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     signupCookieName,
		Value:    sealed,
		Path:     "/signup",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(services.AccountConfirmTokenTTL),
	})
	return nil
}

func (handler *Handler) sendConfirmation(c *fiber.Ctx, email string) error {
	token, err := handler.confirmations.Send(c.UserContext(), email)
	if err != nil {
		return err
	}
	return handler.writeSignupState(c, signupState{
		Email:    services.NormalizeAuthEmail(email),
		LastSent: handler.now(),
		Token:    token,
	})
}

func (handler *Handler) ShowSignupInstructions(c *fiber.Ctx) error {
	email := services.NormalizeEmailInput(c.Query("email"))
	state := handler.readSignupState(c)
	if email == "" {
		email = state.Email
	}
	if email == "" {
		return c.Redirect("/signup", fiber.StatusSeeOther)
	}

	lastSent := time.Time{}
	token := ""
	if state.Email == email {
		lastSent = state.LastSent
		token = state.Token
	}

	flash := handler.popFlashCookie(c)
	data := authPageData(c, flash, "meta.title.signup_instructions", "Confirm your email | Pitlane")
	data["Email"] = email
	data["SecondsRemaining"] = services.ResendSecondsRemaining(lastSent, handler.now())
	data["CooldownSeconds"] = int(services.ResendCooldown / time.Second)
	if handler.mockBackend && token != "" {
		data["ConfirmURL"] = pathWithToken("/signup/confirm-account", token)
	}
	return handler.render(c, "signup_instructions", data)
}

func (handler *Handler) ResendConfirmation(c *fiber.Ctx) error {
	email := services.NormalizeAuthEmail(c.FormValue("email"))
	if email == "" {
		return handler.respondFormError(c, fiber.StatusUnprocessableEntity, "/signup", FlashPayload{Error: authErrorInvalidForm})
	}
	target := pathWithEmail("/signup/instructions-email", email)

	state := handler.readSignupState(c)
	if state.Email == email && !services.CanResend(state.LastSent, handler.now()) {
		return handler.respondFormError(c, fiber.StatusTooManyRequests, target, FlashPayload{Error: "signup.resend.wait"})
	}

	if err := handler.sendConfirmation(c, email); err != nil {
		handler.logger.Error("resend account confirmation failed", zap.String("email", email), zap.Error(err))
		return handler.respondFormError(c, fiber.StatusInternalServerError, target, FlashPayload{Error: authErrorGeneric})
	}

	if !acceptsJSON(c) && !isHTMX(c) {
		handler.setFlashCookie(c, FlashPayload{Success: "signup.resend.sent"})
	}
	return redirectOrJSON(c, target)
}

func (handler *Handler) ConfirmAccount(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	data := authPageData(c, FlashPayload{}, "meta.title.confirm_account", "Account confirmation | Pitlane")
	data["RedirectSeconds"] = confirmRedirectSeconds

	email, err := handler.confirmations.Confirm(c.UserContext(), token)
	if err != nil {
		handler.logger.Info("account confirmation rejected", zap.Error(err))
		c.Status(fiber.StatusBadRequest)
		data["Confirmed"] = false
		return handler.render(c, "signup_confirm", data)
	}

	data["Confirmed"] = true
	data["Email"] = email
	return handler.render(c, "signup_confirm", data)
}
