package services

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Messages returned by the backend API. The local gateway produces the
// same strings so both modes share one translation table.
const (
	BackendMessageEmailTaken        = "The email has already been taken."
	BackendMessageCredentials       = "Username or password does not match"
	BackendMessageEmailUnknown      = "The selected email is invalid."
	BackendMessageRetryLater        = "Please wait before retrying."
	BackendMessageTooManyAttempts   = "Too Many Attempts."
	BackendMessageResetTokenInvalid = "This password reset token is invalid."
)

var backendMessageKeys = map[string]string{
	BackendMessageEmailTaken:        "rest.register.message",
	BackendMessageCredentials:       "rest.login.message",
	BackendMessageEmailUnknown:      "rest.forgot.password.message",
	BackendMessageRetryLater:        "rest.forgot.password.time",
	BackendMessageTooManyAttempts:   "rest.forgot.password.many.attempts",
	BackendMessageResetTokenInvalid: "rest.reset.password.token",
}

// BackendMessageKey returns the translation key for a known backend
// message, or "" when the message should be shown verbatim.
func BackendMessageKey(message string) string {
	return backendMessageKeys[strings.TrimSpace(message)]
}

var ErrAuthUnavailable = errors.New("auth backend unavailable")

// GatewayError is a failure reported by an auth gateway with a
// user-facing message.
type GatewayError struct {
	Status  int
	Message string
}

func (err *GatewayError) Error() string {
	return err.Message
}

func (err *GatewayError) Unauthorized() bool {
	return err.Status == 401
}

func NewGatewayError(status int, message string) *GatewayError {
	return &GatewayError{Status: status, Message: message}
}

// Session is the signed-in identity carried in the sealed session cookie.
type Session struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (session Session) IsAuthenticated(now time.Time) bool {
	if strings.TrimSpace(session.Token) == "" {
		return false
	}
	return session.ExpiresAt.IsZero() || now.Before(session.ExpiresAt)
}

type RegistrationResult struct {
	Name  string
	Email string
}

// AuthGateway performs account operations against either the remote
// backend or the local database.
type AuthGateway interface {
	Register(ctx context.Context, input RegistrationInput, lang string) (RegistrationResult, error)
	Login(ctx context.Context, input LoginInput, lang string) (Session, error)
	Logout(ctx context.Context, session Session, lang string) error
	ForgotPassword(ctx context.Context, input ForgotPasswordInput, clientIP string, lang string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput, lang string) error
}

// AccountVerifier marks an email as confirmed.
type AccountVerifier interface {
	MarkEmailVerified(ctx context.Context, email string) error
}
