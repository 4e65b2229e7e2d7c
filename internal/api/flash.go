package api

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FlashPayload survives exactly one redirect.
type FlashPayload struct {
	Error           string            `json:"error,omitempty"`
	Success         string            `json:"success,omitempty"`
	FieldErrors     map[string]string `json:"field_errors,omitempty"`
	FormValues      map[string]string `json:"form_values,omitempty"`
	FilterPanelOpen bool              `json:"filter_panel_open,omitempty"`
}

func (payload FlashPayload) isEmpty() bool {
	return payload.Error == "" &&
		payload.Success == "" &&
		len(payload.FieldErrors) == 0 &&
		len(payload.FormValues) == 0 &&
		!payload.FilterPanelOpen
}

func (payload FlashPayload) normalized() FlashPayload {
	payload.Error = strings.TrimSpace(payload.Error)
	payload.Success = strings.TrimSpace(payload.Success)
	if len(payload.FieldErrors) == 0 {
		payload.FieldErrors = nil
	}
	for key, value := range payload.FormValues {
		if strings.TrimSpace(value) == "" {
			delete(payload.FormValues, key)
		}
	}
	if len(payload.FormValues) == 0 {
		payload.FormValues = nil
	}
	return payload
}

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload = payload.normalized()
	if payload.isEmpty() {
		handler.clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(serialized)

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

func (handler *Handler) popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	handler.clearFlashCookie(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return FlashPayload{}
	}

	payload := FlashPayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return FlashPayload{}
	}
	return payload.normalized()
}

func (handler *Handler) clearFlashCookie(c *fiber.Ctx) {
	handler.expireCookie(c, flashCookieName, true)
}
