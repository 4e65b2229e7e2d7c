package services

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

// Mailer delivers account emails.
type Mailer interface {
	SendAccountConfirmation(ctx context.Context, email string, token string) error
	SendPasswordReset(ctx context.Context, email string, token string) error
}

// LogMailer writes the message links to the log instead of sending mail.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (mailer *LogMailer) SendAccountConfirmation(_ context.Context, email string, token string) error {
	mailer.logger.Info("account confirmation email",
		zap.String("email", email),
		zap.String("link", "/signup/confirm-account?token="+url.QueryEscape(token)),
	)
	return nil
}

func (mailer *LogMailer) SendPasswordReset(_ context.Context, email string, token string) error {
	mailer.logger.Info("password reset email",
		zap.String("email", email),
		zap.String("link", "/reset-password?token="+url.QueryEscape(token)),
	)
	return nil
}
