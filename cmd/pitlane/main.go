package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/api"
	"github.com/terraincognita07/pitlane/internal/backend"
	"github.com/terraincognita07/pitlane/internal/cache"
	"github.com/terraincognita07/pitlane/internal/cli"
	"github.com/terraincognita07/pitlane/internal/config"
	"github.com/terraincognita07/pitlane/internal/db"
	"github.com/terraincognita07/pitlane/internal/i18n"
	"github.com/terraincognita07/pitlane/internal/logging"
	"github.com/terraincognita07/pitlane/internal/metrics"
	"github.com/terraincognita07/pitlane/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}

	if len(os.Args) > 1 {
		if err := runCommand(cfg, os.Args[1:]); err != nil {
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		return
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func runCommand(cfg config.Config, args []string) error {
	switch args[0] {
	case "reset-password":
		if len(args) != 2 {
			return errors.New("usage: pitlane reset-password <email>")
		}
		return cli.RunResetPasswordCommand(cfg.DBPath, args[1], os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	time.Local = cfg.Location

	database, err := db.OpenSQLite(cfg.DBPath, !cfg.IsProduction() && cfg.LogLevel == "debug")
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, cfg.LocalesDir)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	registry := metrics.New()
	store, err := cache.New(lifecycleCtx, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("cache init failed: %w", err)
	}
	defer func() { _ = store.Close() }()
	store = registry.InstrumentStore(store)

	repos := db.NewRepositories(database)
	mailer := services.NewLogMailer(logger)
	secretKey := []byte(cfg.SecretKey)

	var (
		auth     services.AuthGateway
		verifier services.AccountVerifier
		courses  services.CourseSource
	)
	if cfg.IsMockBackend() {
		local := services.NewLocalAuthService(repos.Users, secretKey, mailer, logger)
		if err := local.EnsureMockUsers(lifecycleCtx); err != nil {
			return fmt.Errorf("seed mock users failed: %w", err)
		}
		auth, verifier = local, local
		courses = services.NewLocalCourseSource(repos.Courses)
	} else {
		client := backend.NewClient(cfg.APIURL, cfg.APITimeout, logger)
		auth, courses = client, client
	}

	blog, err := services.LoadBlog(filepath.Join(cfg.ContentDir, "blog"), logger)
	if err != nil {
		return fmt.Errorf("blog init failed: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		SecretKey:     cfg.SecretKey,
		TemplatesDir:  cfg.TemplatesDir,
		Location:      cfg.Location,
		CookieSecure:  cfg.CookieSecure,
		MockBackend:   cfg.IsMockBackend(),
		I18n:          i18nManager,
		Logger:        logger,
		Metrics:       registry,
		Auth:          auth,
		Confirmations: services.NewAccountConfirmations(secretKey, mailer, verifier, logger),
		Events:        services.NewEventService(repos.Events, store, cfg.CacheTTL, logger),
		Gallery:       services.NewGalleryCatalog(cfg.UploadsDir, store, cfg.CacheTTL, logger),
		Blog:          blog,
		Courses:       services.NewCourseCatalog(courses, store, cfg.CacheTTL, logger),
		Contact:       services.NewContactService(repos.Contacts, logger),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	authLimiter, err := api.NewAuthRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("rate limiter init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Pitlane",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logging.RequestID())
	app.Use(logging.Middleware(logger))
	app.Use(registry.Middleware())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(handler.SessionMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))

	app.Static("/static", cfg.StaticDir)
	app.Static("/uploads", cfg.UploadsDir)
	api.RegisterRoutes(app, handler, authLimiter)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("pitlane listening",
		zap.String("address", cfg.ListenAddress()),
		zap.String("backend", cfg.BackendMode),
		zap.String("db", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
	)
	return app.Listen(cfg.ListenAddress())
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "pitlane_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Next:           skipCSRF,
	}
}

// skipCSRF exempts JSON API clients, which cannot read the form token.
func skipCSRF(c *fiber.Ctx) bool {
	return c.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSON && c.Get(fiber.HeaderAccept) == fiber.MIMEApplicationJSON
}
