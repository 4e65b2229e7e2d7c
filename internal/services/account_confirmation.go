package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
)

// ResendCooldown is the wait between two confirmation emails.
const ResendCooldown = 120 * time.Second

// AccountConfirmations issues and redeems account confirmation tokens.
// verifier may be nil when accounts live in the remote backend.
type AccountConfirmations struct {
	secretKey []byte
	mailer    Mailer
	verifier  AccountVerifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewAccountConfirmations(secretKey []byte, mailer Mailer, verifier AccountVerifier, logger *zap.Logger) *AccountConfirmations {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	return &AccountConfirmations{
		secretKey: secretKey,
		mailer:    mailer,
		verifier:  verifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (confirmations *AccountConfirmations) SetClock(now func() time.Time) {
	confirmations.now = now
}

// Send issues a fresh token and mails it. The token is returned so the
// caller can render a direct link in mock mode.
func (confirmations *AccountConfirmations) Send(ctx context.Context, email string) (string, error) {
	normalized := NormalizeAuthEmail(email)
	if normalized == "" {
		return "", ErrAuthCredentialsInvalid
	}
	token, err := BuildAccountConfirmToken(confirmations.secretKey, normalized, AccountConfirmTokenTTL, confirmations.now())
	if err != nil {
		return "", err
	}
	if err := confirmations.mailer.SendAccountConfirmation(ctx, normalized, token); err != nil {
		return "", err
	}
	return token, nil
}

// Confirm validates the token and returns the confirmed email.
func (confirmations *AccountConfirmations) Confirm(ctx context.Context, rawToken string) (string, error) {
	claims, err := ParseAuthToken(confirmations.secretKey, rawToken, TokenPurposeAccountConfirm, confirmations.now())
	if err != nil {
		return "", err
	}
	if confirmations.verifier != nil {
		if err := confirmations.verifier.MarkEmailVerified(ctx, claims.Email); err != nil {
			if errors.Is(err, ErrAuthAccountNotFound) {
				return "", ErrAuthTokenInvalid
			}
			return "", err
		}
	}
	confirmations.logger.Info("account confirmed", zap.String("email", claims.Email))
	return claims.Email, nil
}

// ResendSecondsRemaining rounds the remaining cooldown up to whole
// seconds. A zero lastSent means no email was sent yet.
func ResendSecondsRemaining(lastSent time.Time, now time.Time) int {
	if lastSent.IsZero() {
		return 0
	}
	remaining := ResendCooldown - now.Sub(lastSent)
	if remaining <= 0 {
		return 0
	}
	if remaining > ResendCooldown {
		remaining = ResendCooldown
	}
	return int(math.Ceil(remaining.Seconds()))
}

func CanResend(lastSent time.Time, now time.Time) bool {
	return ResendSecondsRemaining(lastSent, now) == 0
}
