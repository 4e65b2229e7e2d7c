package api

import "github.com/gofiber/fiber/v2"

// LanguageMiddleware stores the request language and its catalog in
// locals. The choice is pinned in a cookie so later visits skip header
// negotiation.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language, pinned := handler.resolveLanguage(c)
	if !pinned {
		handler.setLanguageCookie(c, language)
	}
	c.Vary(fiber.HeaderAcceptLanguage, fiber.HeaderCookie)

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

// resolveLanguage reports the language for c and whether the cookie
// already holds exactly that value.
func (handler *Handler) resolveLanguage(c *fiber.Ctx) (string, bool) {
	if stored := c.Cookies(languageCookieName); stored != "" {
		language := handler.i18n.NormalizeLanguage(stored)
		return language, language == stored
	}
	return handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)), false
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  handler.now().AddDate(1, 0, 0),
	})
}
