package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/services"
)

const (
	defaultLanguage   = "en"
	maxResponseBytes  = 2 << 20
	fallbackErrorText = "Something went wrong"
	sessionTTL        = 7 * 24 * time.Hour
)

var (
	_ services.AuthGateway  = (*Client)(nil)
	_ services.CourseSource = (*Client)(nil)
)

// Client talks to the remote REST backend. It implements
// services.AuthGateway and services.CourseSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request. A non-2xx status becomes a *services.GatewayError
// carrying the backend's message, falling back to its error field.
func (client *Client) do(ctx context.Context, method string, endpoint string, body any, token string, lang string, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+"/"+strings.TrimLeft(endpoint, "/"), payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if strings.TrimSpace(lang) == "" {
		lang = defaultLanguage
	}
	request.Header.Set("Accept-Language", lang)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Warn("backend request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("%w: %v", services.ErrAuthUnavailable, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := apiErrorBody{}
		_ = json.Unmarshal(raw, &apiErr)
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = strings.TrimSpace(apiErr.Error)
		}
		if message == "" {
			message = fallbackErrorText
		}
		client.logger.Info("backend rejected request",
			zap.String("endpoint", endpoint),
			zap.Int("status", response.StatusCode),
			zap.String("message", message),
		)
		return services.NewGatewayError(response.StatusCode, message)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

type remoteUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (user remoteUser) fullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

type registerRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type registerResponse struct {
	Success bool       `json:"success"`
	User    remoteUser `json:"user"`
}

func (client *Client) Register(ctx context.Context, input services.RegistrationInput, lang string) (services.RegistrationResult, error) {
	firstName, lastName := splitName(input.Name)
	request := registerRequest{
		FirstName:            firstName,
		LastName:             lastName,
		Email:                input.Email,
		Password:             input.Password,
		PasswordConfirmation: input.ConfirmPassword,
	}

	response := registerResponse{}
	if err := client.do(ctx, http.MethodPost, "register", request, "", lang, &response); err != nil {
		return services.RegistrationResult{}, err
	}

	result := services.RegistrationResult{Name: response.User.fullName(), Email: response.User.Email}
	if result.Email == "" {
		result.Email = input.Email
	}
	if result.Name == "" {
		result.Name = strings.TrimSpace(input.Name)
	}
	return result, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool       `json:"success"`
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	User      remoteUser `json:"user"`
}

func (client *Client) Login(ctx context.Context, input services.LoginInput, lang string) (services.Session, error) {
	response := loginResponse{}
	request := loginRequest{Email: input.Email, Password: input.Password}
	if err := client.do(ctx, http.MethodPost, "login", request, "", lang, &response); err != nil {
		return services.Session{}, err
	}
	if strings.TrimSpace(response.Token) == "" {
		return services.Session{}, errors.New("login response has no token")
	}

	email := response.User.Email
	if email == "" {
		email = input.Email
	}
	return services.Session{
		Token:     response.Token,
		Name:      response.User.fullName(),
		Email:     email,
		ExpiresAt: client.now().Add(sessionTTL),
	}, nil
}

func (client *Client) Logout(ctx context.Context, session services.Session, lang string) error {
	err := client.do(ctx, http.MethodPost, "logout", nil, session.Token, lang, nil)
	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Unauthorized() {
		return nil
	}
	return err
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (client *Client) ForgotPassword(ctx context.Context, input services.ForgotPasswordInput, _ string, lang string) error {
	return client.do(ctx, http.MethodPost, "forgot-password", forgotPasswordRequest{Email: input.Email}, "", lang, nil)
}

type resetPasswordRequest struct {
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (client *Client) ResetPassword(ctx context.Context, input services.ResetPasswordInput, lang string) error {
	request := resetPasswordRequest{
		Token:                input.Token,
		Password:             input.Password,
		PasswordConfirmation: input.ConfirmPassword,
	}
	return client.do(ctx, http.MethodPost, "reset-password", request, "", lang, nil)
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func pageQuery(page int, itemsPerPage int) string {
	values := url.Values{}
	values.Set("page", fmt.Sprint(page))
	values.Set("itemsPerPage", fmt.Sprint(itemsPerPage))
	return values.Encode()
}
