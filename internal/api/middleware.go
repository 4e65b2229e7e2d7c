package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

const (
	sessionCookieName  = "access_token"
	languageCookieName = "pitlane_lang"
	flashCookieName    = "pitlane_flash"
	themeCookieName    = "pitlane_theme"
	consentCookieName  = "cookie_consent"
	signupCookieName   = "pitlane_signup"
	csrfCookieName     = "pitlane_csrf"

	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"

	sessionCookiePurpose = "session"
	signupCookiePurpose  = "signup"
)

// SessionMiddleware opens the sealed session cookie and exposes the
// session in request locals. A stale or tampered cookie is cleared.
func (handler *Handler) SessionMiddleware(c *fiber.Ctx) error {
	raw := c.Cookies(sessionCookieName)
	if raw == "" {
		return c.Next()
	}

	session := services.Session{}
	if err := handler.cookies.openJSON(sessionCookiePurpose, raw, &session); err != nil || !session.IsAuthenticated(handler.now()) {
		handler.clearSessionCookie(c)
		return c.Next()
	}

	c.Locals(contextSessionKey, &session)
	return c.Next()
}

func currentSession(c *fiber.Ctx) (*services.Session, bool) {
	session, ok := c.Locals(contextSessionKey).(*services.Session)
	return session, ok && session != nil
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, session services.Session) error {
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = handler.now().Add(services.SessionTokenTTL)
	}
	sealed, err := handler.cookies.sealJSON(sessionCookiePurpose, session)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  session.ExpiresAt,
	})
	return nil
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	handler.expireCookie(c, sessionCookieName, true)
}

func (handler *Handler) expireCookie(c *fiber.Ctx, name string, httpOnly bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: httpOnly,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
