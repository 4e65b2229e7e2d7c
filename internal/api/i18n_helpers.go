package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/pitlane/internal/services"
)

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

// localizeError resolves a flash error, which is either a translation key
// or a backend message. Known backend messages map onto keys; anything
// else is shown verbatim.
func localizeError(messages map[string]string, message string) string {
	if key := services.BackendMessageKey(message); key != "" {
		return translateMessage(messages, key)
	}
	return translateMessage(messages, message)
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) language(c *fiber.Ctx) string {
	if language := currentLanguage(c); language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}

type languageAlternate struct {
	Lang   string
	URL    string
	Active bool
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	if _, ok := data["Messages"]; !ok {
		data["Messages"] = messages
	}

	language := handler.language(c)
	if _, ok := data["Lang"]; !ok {
		data["Lang"] = language
	}

	currentPath := currentPathWithQuery(c)
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = currentPath
	}

	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}

	if _, ok := data["Session"]; !ok {
		if session, ok := currentSession(c); ok {
			data["Session"] = session
		}
	}

	alternates := make([]languageAlternate, 0, len(handler.i18n.SupportedLanguages()))
	for _, supported := range handler.i18n.SupportedLanguages() {
		alternates = append(alternates, languageAlternate{
			Lang:   supported,
			URL:    languageSwitchPath(supported, currentPath),
			Active: supported == language,
		})
	}
	data["Alternates"] = alternates
	data["Theme"] = currentTheme(c)
	data["ShowCookieBanner"] = !hasConsentCookie(c)
	data["MockBackend"] = handler.mockBackend
	data["Year"] = handler.now().In(handler.location).Year()

	if _, ok := data["Flash"]; !ok {
		data["Flash"] = FlashPayload{}
	}
	return data
}

func currentPathWithQuery(c *fiber.Ctx) string {
	path := string(c.Request().URI().RequestURI())
	if path == "" {
		return c.Path()
	}
	return path
}

func (handler *Handler) formatLongDate(lang string, value time.Time) string {
	return handler.i18n.FormatLongDate(lang, value)
}
