package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenPurposePasswordReset  = "password_reset"
	TokenPurposeAccountConfirm = "account_confirm"
	TokenPurposeSession        = "session"

	PasswordResetTokenTTL  = time.Hour
	AccountConfirmTokenTTL = 24 * time.Hour
	SessionTokenTTL        = 7 * 24 * time.Hour
)

var (
	ErrAuthTokenMissing              = errors.New("missing auth token")
	ErrAuthTokenInvalid              = errors.New("invalid auth token")
	ErrAuthTokenInvalidPurpose       = errors.New("invalid auth token purpose")
	ErrAuthTokenExpired              = errors.New("expired auth token")
	ErrAuthTokenInvalidSubject       = errors.New("invalid auth token subject")
	ErrAuthTokenInvalidPasswordState = errors.New("invalid auth token password state")
)

type AuthTokenClaims struct {
	UserID        uint   `json:"uid"`
	Email         string `json:"email,omitempty"`
	Purpose       string `json:"purpose"`
	PasswordState string `json:"password_state,omitempty"`
	jwt.RegisteredClaims
}

// BuildPasswordResetToken binds the token to the current password hash so
// it stops working once the password changes.
func BuildPasswordResetToken(secretKey []byte, userID uint, email string, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	passwordState := PasswordStateFingerprint(passwordHash)
	if passwordState == "" {
		return "", ErrAuthTokenInvalidPasswordState
	}
	if ttl <= 0 {
		ttl = PasswordResetTokenTTL
	}
	return signAuthToken(secretKey, AuthTokenClaims{
		UserID:        userID,
		Email:         email,
		Purpose:       TokenPurposePasswordReset,
		PasswordState: passwordState,
	}, ttl, now)
}

// BuildAccountConfirmToken is keyed by email; confirmation also runs for
// accounts held by the remote backend, where no local id exists.
func BuildAccountConfirmToken(secretKey []byte, email string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrAuthTokenInvalidSubject
	}
	if ttl <= 0 {
		ttl = AccountConfirmTokenTTL
	}
	return signAuthToken(secretKey, AuthTokenClaims{
		Email:   email,
		Purpose: TokenPurposeAccountConfirm,
	}, ttl, now)
}

func BuildSessionToken(secretKey []byte, userID uint, email string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = SessionTokenTTL
	}
	return signAuthToken(secretKey, AuthTokenClaims{
		UserID:  userID,
		Email:   email,
		Purpose: TokenPurposeSession,
	}, ttl, now)
}

func signAuthToken(secretKey []byte, claims AuthTokenClaims, ttl time.Duration, now time.Time) (string, error) {
	subject := claims.Email
	if claims.UserID != 0 {
		subject = strconv.FormatUint(uint64(claims.UserID), 10)
	}
	if subject == "" {
		return "", ErrAuthTokenInvalidSubject
	}
	if now.IsZero() {
		now = time.Now()
	}
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseAuthToken verifies signature, purpose and expiry against now.
func ParseAuthToken(secretKey []byte, rawToken string, purpose string, now time.Time) (*AuthTokenClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrAuthTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &AuthTokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAuthTokenExpired
		}
		return nil, ErrAuthTokenInvalid
	}
	if !token.Valid {
		return nil, ErrAuthTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrAuthTokenInvalidPurpose
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, ErrAuthTokenExpired
	}
	if purpose == TokenPurposeAccountConfirm {
		if strings.TrimSpace(claims.Email) == "" {
			return nil, ErrAuthTokenInvalidSubject
		}
	} else if claims.UserID == 0 {
		return nil, ErrAuthTokenInvalidSubject
	}
	if purpose == TokenPurposePasswordReset && strings.TrimSpace(claims.PasswordState) == "" {
		return nil, ErrAuthTokenInvalidPasswordState
	}
	return claims, nil
}

func PasswordStateFingerprint(passwordHash string) string {
	normalizedHash := strings.TrimSpace(passwordHash)
	if normalizedHash == "" {
		return ""
	}

	sum := sha256.Sum256([]byte("pitlane.reset.password-state.v1:" + normalizedHash))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func IsPasswordStateFingerprintMatch(expected string, passwordHash string) bool {
	actual := PasswordStateFingerprint(passwordHash)
	if strings.TrimSpace(expected) == "" || strings.TrimSpace(actual) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
