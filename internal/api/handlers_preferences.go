package api

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	themeLight = "light"
	themeDark  = "dark"

	consentAcceptAll = "accept_all"
	consentRejectAll = "reject_all"
	consentSave      = "save"
)

type cookieConsent struct {
	Necessary bool `json:"necessary"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	handler.setLanguageCookie(c, c.Params("lang"))
	return c.Redirect(sanitizeRedirectPath(c.Query("next"), "/"), fiber.StatusSeeOther)
}

func currentTheme(c *fiber.Ctx) string {
	if c.Cookies(themeCookieName) == themeDark {
		return themeDark
	}
	return themeLight
}

// ToggleTheme flips between light and dark and returns to the page.
func (handler *Handler) ToggleTheme(c *fiber.Ctx) error {
	next := themeDark
	if currentTheme(c) == themeDark {
		next = themeLight
	}
	c.Cookie(&fiber.Cookie{
		Name:     themeCookieName,
		Value:    next,
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().AddDate(1, 0, 0),
	})
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"theme": next})
	}
	return c.Redirect(sanitizeRedirectPath(c.FormValue("next"), refererPath(c)), fiber.StatusSeeOther)
}

func hasConsentCookie(c *fiber.Ctx) bool {
	_, ok := parseConsentCookie(c.Cookies(consentCookieName))
	return ok
}

func parseConsentCookie(raw string) (cookieConsent, bool) {
	if strings.TrimSpace(raw) == "" {
		return cookieConsent{}, false
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return cookieConsent{}, false
	}
	consent := cookieConsent{}
	if err := json.Unmarshal([]byte(decoded), &consent); err != nil {
		return cookieConsent{}, false
	}
	return consent, true
}

func consentFromChoice(choice string, analytics bool, marketing bool) (cookieConsent, bool) {
	switch choice {
	case consentAcceptAll:
		return cookieConsent{Necessary: true, Analytics: true, Marketing: true}, true
	case consentRejectAll:
		return cookieConsent{Necessary: true}, true
	case consentSave:
		return cookieConsent{Necessary: true, Analytics: analytics, Marketing: marketing}, true
	default:
		return cookieConsent{}, false
	}
}

func (handler *Handler) SaveCookieConsent(c *fiber.Ctx) error {
	consent, ok := consentFromChoice(
		strings.TrimSpace(c.FormValue("choice")),
		isCheckedFormValue(c.FormValue("analytics")),
		isCheckedFormValue(c.FormValue("marketing")),
	)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid consent choice")
	}

	serialized, err := json.Marshal(consent)
	if err != nil {
		return handler.serverError(c, "failed to save consent", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     consentCookieName,
		Value:    url.QueryEscape(string(serialized)),
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().AddDate(1, 0, 0),
	})

	if acceptsJSON(c) {
		return c.JSON(consent)
	}
	return c.Redirect(sanitizeRedirectPath(c.FormValue("next"), refererPath(c)), fiber.StatusSeeOther)
}

func isCheckedFormValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// refererPath returns the local path of the Referer header, or "/".
func refererPath(c *fiber.Ctx) string {
	referer := strings.TrimSpace(c.Get(fiber.HeaderReferer))
	if referer == "" {
		return "/"
	}
	parsed, err := url.Parse(referer)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	if parsed.Host != "" && parsed.Host != c.Hostname() {
		return "/"
	}
	return sanitizeRedirectPath(parsed.RequestURI(), "/")
}
