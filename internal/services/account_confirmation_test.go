package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAccountConfirmationsSendAndConfirm(t *testing.T) {
	service, repo, _, clock := newLocalAuthServiceForTest(t)
	mailer := newRecordingMailer()
	confirmations := NewAccountConfirmations([]byte("confirm-secret"), mailer, service, nil)
	confirmations.SetClock(clock.Now)

	if _, err := service.Register(context.Background(), RegistrationInput{Name: "Max Tread", Email: "max@example.com", Password: "Password123!"}, "en"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	token, err := confirmations.Send(context.Background(), "MAX@example.com")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if mailer.confirmations["max@example.com"] != token {
		t.Fatal("expected the confirmation token to be mailed to the normalized address")
	}

	email, err := confirmations.Confirm(context.Background(), token)
	if err != nil {
		t.Fatalf("Confirm() unexpected error: %v", err)
	}
	if email != "max@example.com" {
		t.Fatalf("unexpected email %q", email)
	}
	if !repo.users["max@example.com"].IsVerified() {
		t.Fatal("expected the account to be verified")
	}
}

func TestAccountConfirmationsRejectsBadTokens(t *testing.T) {
	service, _, _, clock := newLocalAuthServiceForTest(t)
	confirmations := NewAccountConfirmations([]byte("confirm-secret"), newRecordingMailer(), service, nil)
	confirmations.SetClock(clock.Now)
	ctx := context.Background()

	if _, err := confirmations.Confirm(ctx, ""); !errors.Is(err, ErrAuthTokenMissing) {
		t.Fatalf("expected ErrAuthTokenMissing, got %v", err)
	}
	if _, err := confirmations.Confirm(ctx, "not-a-token"); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Fatalf("expected ErrAuthTokenInvalid, got %v", err)
	}

	token, err := confirmations.Send(ctx, "ghost@example.com")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if _, err := confirmations.Confirm(ctx, token); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Fatalf("expected unknown account to fail with ErrAuthTokenInvalid, got %v", err)
	}

	token, err = confirmations.Send(ctx, "user1@gmail.com")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	clock.Advance(AccountConfirmTokenTTL + time.Second)
	if _, err := confirmations.Confirm(ctx, token); !errors.Is(err, ErrAuthTokenExpired) {
		t.Fatalf("expected ErrAuthTokenExpired, got %v", err)
	}
}

func TestAccountConfirmationsWithoutVerifier(t *testing.T) {
	confirmations := NewAccountConfirmations([]byte("confirm-secret"), newRecordingMailer(), nil, nil)
	token, err := confirmations.Send(context.Background(), "remote@example.com")
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	email, err := confirmations.Confirm(context.Background(), token)
	if err != nil {
		t.Fatalf("Confirm() unexpected error: %v", err)
	}
	if email != "remote@example.com" {
		t.Fatalf("unexpected email %q", email)
	}
}

func TestResendSecondsRemaining(t *testing.T) {
	sent := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		sent time.Time
		now  time.Time
		want int
	}{
		{"never sent", time.Time{}, sent, 0},
		{"just sent", sent, sent, 120},
		{"partial second rounds up", sent, sent.Add(500 * time.Millisecond), 120},
		{"last second", sent, sent.Add(119 * time.Second), 1},
		{"cooldown elapsed", sent, sent.Add(ResendCooldown), 0},
		{"clock behind", sent, sent.Add(-time.Hour), 120},
	}
	for _, tc := range cases {
		if got := ResendSecondsRemaining(tc.sent, tc.now); got != tc.want {
			t.Errorf("%s: ResendSecondsRemaining() = %d, want %d", tc.name, got, tc.want)
		}
	}

	if CanResend(sent, sent.Add(time.Minute)) {
		t.Fatal("expected resend blocked inside the cooldown")
	}
	if !CanResend(sent, sent.Add(2*time.Minute)) {
		t.Fatal("expected resend allowed after the cooldown")
	}
}
