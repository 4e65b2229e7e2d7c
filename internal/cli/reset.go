package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/terraincognita07/pitlane/internal/db"
	"github.com/terraincognita07/pitlane/internal/models"
	"github.com/terraincognita07/pitlane/internal/security"
	"github.com/terraincognita07/pitlane/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalAccounts is the part of the user repository the reset command needs.
type LocalAccounts interface {
	FindByNormalizedEmail(email string) (models.User, error)
	UpdatePassword(userID uint, passwordHash string) error
	MarkEmailVerified(email string, verifiedAt time.Time) (bool, error)
}

// RunResetPasswordCommand sets a new password for a local account. An
// empty answer at the prompt generates one.
func RunResetPasswordCommand(dbPath string, email string, stdin *os.File, out io.Writer) error {
	normalizedEmail, err := normalizeCommandEmail(email)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(dbPath, false)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	entered, err := promptNewPassword(stdin, out)
	if err != nil {
		return err
	}

	password, generated, err := ResetLocalPassword(db.NewUserRepository(database), normalizedEmail, entered, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Password reset for %s\n", normalizedEmail)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// ResetLocalPassword hashes and stores password, generating one when it is
// blank. The account is marked verified so the new password works at once.
func ResetLocalPassword(accounts LocalAccounts, email string, password string, now time.Time) (string, bool, error) {
	user, err := accounts.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, fmt.Errorf("user %s not found", email)
		}
		return "", false, fmt.Errorf("load user: %w", err)
	}

	generated := false
	if strings.TrimSpace(password) == "" {
		password, err = generateTemporaryPassword(16)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		generated = true
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return "", false, fmt.Errorf("password needs 8+ characters with upper and lower case letters, a digit and a symbol: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", false, fmt.Errorf("hash password: %w", err)
	}
	if err := accounts.UpdatePassword(user.ID, string(hash)); err != nil {
		return "", false, fmt.Errorf("update user password: %w", err)
	}
	if !user.IsVerified() {
		if _, err := accounts.MarkEmailVerified(email, now.UTC()); err != nil {
			return "", false, fmt.Errorf("verify user: %w", err)
		}
	}
	return password, generated, nil
}

func normalizeCommandEmail(email string) (string, error) {
	normalized := services.NormalizeEmailInput(email)
	if normalized == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", fmt.Errorf("invalid email address: %w", err)
	}
	return normalized, nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.GeneratePassword(length,
		security.UpperLetters,
		security.LowerLetters,
		security.Digits,
		security.Symbols,
	)
}
