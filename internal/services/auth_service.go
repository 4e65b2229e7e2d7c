package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/terraincognita07/pitlane/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ForgotPasswordEmailThrottle = 60 * time.Second
	ForgotPasswordIPLimit       = 8
	ForgotPasswordIPWindow      = 15 * time.Minute

	MockUserPassword = "Password123!"
)

var ErrAuthAccountNotFound = errors.New("auth account not found")

type MockUser struct {
	Name  string
	Email string
}

// MockUsers are created verified on startup in mock backend mode.
var MockUsers = []MockUser{
	{Name: "Test User 1", Email: "user1@gmail.com"},
	{Name: "Test User 2", Email: "user2@gmail.com"},
	{Name: "Test User 3", Email: "user3@gmail.com"},
}

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
	MarkEmailVerified(email string, verifiedAt time.Time) (bool, error)
	TouchResetRequest(userID uint, requestedAt time.Time) error
}

// LocalAuthService implements AuthGateway against the local database. It
// answers with the same messages the remote backend uses.
type LocalAuthService struct {
	users        AuthUserRepository
	secretKey    []byte
	mailer       Mailer
	resetLimiter *AttemptLimiter
	logger       *zap.Logger
	now          func() time.Time
}

func NewLocalAuthService(users AuthUserRepository, secretKey []byte, mailer Mailer, logger *zap.Logger) *LocalAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	return &LocalAuthService{
		users:        users,
		secretKey:    secretKey,
		mailer:       mailer,
		resetLimiter: NewAttemptLimiter(ForgotPasswordIPLimit, ForgotPasswordIPWindow),
		logger:       logger,
		now:          time.Now,
	}
}

func (service *LocalAuthService) SetClock(now func() time.Time) {
	service.now = now
}

// EnsureMockUsers creates any missing mock account.
func (service *LocalAuthService) EnsureMockUsers(ctx context.Context) error {
	for _, mock := range MockUsers {
		if err := ctx.Err(); err != nil {
			return err
		}
		exists, err := service.users.ExistsByNormalizedEmail(mock.Email)
		if err != nil {
			return fmt.Errorf("check mock user %s: %w", mock.Email, err)
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(MockUserPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash mock user password: %w", err)
		}
		verifiedAt := service.now().UTC()
		user := models.User{
			Name:            mock.Name,
			Email:           mock.Email,
			PasswordHash:    string(hash),
			EmailVerifiedAt: &verifiedAt,
			CreatedAt:       verifiedAt,
		}
		if err := service.users.Create(&user); err != nil {
			return fmt.Errorf("create mock user %s: %w", mock.Email, err)
		}
		service.logger.Info("mock user created", zap.String("email", mock.Email))
	}
	return nil
}

func (service *LocalAuthService) Register(_ context.Context, input RegistrationInput, _ string) (RegistrationResult, error) {
	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return RegistrationResult{}, ErrAuthCredentialsInvalid
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("check registration email: %w", err)
	}
	if exists {
		return RegistrationResult{}, NewGatewayError(http.StatusUnprocessableEntity, BackendMessageEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    service.now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return RegistrationResult{}, fmt.Errorf("create user: %w", err)
	}

	service.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", email))
	return RegistrationResult{Name: user.Name, Email: user.Email}, nil
}

func (service *LocalAuthService) Login(_ context.Context, input LoginInput, _ string) (Session, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return Session{}, NewGatewayError(http.StatusUnauthorized, BackendMessageCredentials)
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, NewGatewayError(http.StatusUnauthorized, BackendMessageCredentials)
	}
	if err != nil {
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, NewGatewayError(http.StatusUnauthorized, BackendMessageCredentials)
	}

	now := service.now()
	token, err := BuildSessionToken(service.secretKey, user.ID, user.Email, SessionTokenTTL, now)
	if err != nil {
		return Session{}, fmt.Errorf("build session token: %w", err)
	}
	return Session{
		Token:     token,
		Name:      user.Name,
		Email:     user.Email,
		ExpiresAt: now.Add(SessionTokenTTL).UTC(),
	}, nil
}

func (service *LocalAuthService) Logout(context.Context, Session, string) error {
	return nil
}

// ForgotPassword issues a reset link, throttled per client IP and per
// account.
func (service *LocalAuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput, clientIP string, _ string) error {
	now := service.now()
	if service.resetLimiter.TooManyRecent(clientIP, now) {
		return NewGatewayError(http.StatusTooManyRequests, BackendMessageTooManyAttempts)
	}
	service.resetLimiter.Add(clientIP, now)

	email := NormalizeAuthEmail(input.Email)
	user, err := service.users.FindByNormalizedEmail(email)
	if email == "" || errors.Is(err, gorm.ErrRecordNotFound) {
		return NewGatewayError(http.StatusUnprocessableEntity, BackendMessageEmailUnknown)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	if user.LastResetRequestAt != nil && now.Sub(*user.LastResetRequestAt) < ForgotPasswordEmailThrottle {
		return NewGatewayError(http.StatusTooManyRequests, BackendMessageRetryLater)
	}

	token, err := BuildPasswordResetToken(service.secretKey, user.ID, user.Email, user.PasswordHash, PasswordResetTokenTTL, now)
	if err != nil {
		return fmt.Errorf("build reset token: %w", err)
	}
	if err := service.users.TouchResetRequest(user.ID, now.UTC()); err != nil {
		return fmt.Errorf("record reset request: %w", err)
	}
	return service.mailer.SendPasswordReset(ctx, user.Email, token)
}

func (service *LocalAuthService) ResetPassword(_ context.Context, input ResetPasswordInput, _ string) error {
	user, err := service.ResolveUserByResetToken(input.Token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	service.logger.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}

// ResolveUserByResetToken rejects tokens issued before the last password
// change.
func (service *LocalAuthService) ResolveUserByResetToken(rawToken string) (models.User, error) {
	invalid := NewGatewayError(http.StatusUnprocessableEntity, BackendMessageResetTokenInvalid)

	claims, err := ParseAuthToken(service.secretKey, rawToken, TokenPurposePasswordReset, service.now())
	if err != nil {
		return models.User{}, invalid
	}
	user, err := service.users.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, invalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if !IsPasswordStateFingerprintMatch(claims.PasswordState, user.PasswordHash) {
		return models.User{}, invalid
	}
	return user, nil
}

func (service *LocalAuthService) MarkEmailVerified(_ context.Context, email string) error {
	updated, err := service.users.MarkEmailVerified(NormalizeAuthEmail(email), service.now().UTC())
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if !updated {
		return ErrAuthAccountNotFound
	}
	return nil
}
