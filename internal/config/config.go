package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendMock   = "mock"
	BackendRemote = "remote"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"8080"`
	SecretKey       string        `env:"SECRET_KEY"`
	DBPath          string        `env:"DB_PATH" envDefault:"data/pitlane.db"`
	Timezone        string        `env:"TZ" envDefault:"UTC"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"ro"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
	BackendMode     string        `env:"BACKEND_MODE" envDefault:"mock"`
	APIURL          string        `env:"API_URL" envDefault:"https://backend-spring2025.web-staging.eu/api"`
	APITimeout      time.Duration `env:"API_TIMEOUT" envDefault:"8s"`
	RedisURL        string        `env:"REDIS_URL"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	UploadsDir      string        `env:"UPLOADS_DIR" envDefault:"web/static/uploads"`
	ContentDir      string        `env:"CONTENT_DIR" envDefault:"content"`
	TemplatesDir    string        `env:"TEMPLATES_DIR" envDefault:"internal/templates"`
	LocalesDir      string        `env:"LOCALES_DIR" envDefault:"internal/i18n/locales"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"web/static"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	AuthRateLimit   string        `env:"AUTH_RATE_LIMIT" envDefault:"20-M"`

	Location *time.Location `env:"-"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() error {
	secret, err := ValidateSecretKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	cfg.SecretKey = secret

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	cfg.BackendMode = strings.ToLower(strings.TrimSpace(cfg.BackendMode))
	switch cfg.BackendMode {
	case BackendMock:
	case BackendRemote:
		parsed, err := url.Parse(cfg.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("API_URL must be an absolute URL, got %q", cfg.APIURL)
		}
		cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	default:
		return fmt.Errorf("BACKEND_MODE must be %q or %q, got %q", BackendMock, BackendRemote, cfg.BackendMode)
	}

	if cfg.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}

	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TZ %q: %w", cfg.Timezone, err)
	}
	cfg.Location = location

	cfg.DBPath = filepath.Clean(cfg.DBPath)
	return nil
}

func (cfg Config) IsProduction() bool {
	return strings.EqualFold(cfg.AppEnv, "production")
}

func (cfg Config) IsMockBackend() bool {
	return cfg.BackendMode == BackendMock
}

func (cfg Config) ListenAddress() string {
	return fmt.Sprintf(":%d", cfg.Port)
}

func ValidateSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}
