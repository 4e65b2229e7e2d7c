package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/cache"
	"github.com/terraincognita07/pitlane/internal/db"
	"github.com/terraincognita07/pitlane/internal/i18n"
	"github.com/terraincognita07/pitlane/internal/metrics"
	"github.com/terraincognita07/pitlane/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	handler *Handler
	metrics *metrics.Metrics
}

// newTestApp wires the mock backend over a temporary database and the
// repository templates, locales and blog content.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	internalDir := filepath.Dir(apiDir)
	rootDir := filepath.Dir(internalDir)
	templatesDir := filepath.Join(internalDir, "templates")
	localesDir := filepath.Join(internalDir, "i18n", "locales")
	blogDir := filepath.Join(rootDir, "content", "blog")
	databasePath := filepath.Join(t.TempDir(), "pitlane-test.db")

	database, err := db.OpenSQLite(databasePath, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	uploadsDir := t.TempDir()
	for _, name := range []string{"kart1.jpg", "kart2.png", "kart3.webp", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(uploadsDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write upload fixture: %v", err)
		}
	}

	i18nManager, err := i18n.NewManager(i18n.LangRO, localesDir)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	logger := zap.NewNop()
	registry := metrics.New()
	store := registry.InstrumentStore(cache.NewMemoryStore())
	repos := db.NewRepositories(database)
	mailer := services.NewLogMailer(logger)

	local := services.NewLocalAuthService(repos.Users, []byte(testSecretKey), mailer, logger)
	if err := local.EnsureMockUsers(context.Background()); err != nil {
		t.Fatalf("seed mock users: %v", err)
	}
	blog, err := services.LoadBlog(blogDir, logger)
	if err != nil {
		t.Fatalf("load blog: %v", err)
	}

	handler, err := NewHandler(Dependencies{
		SecretKey:     testSecretKey,
		TemplatesDir:  templatesDir,
		Location:      time.UTC,
		MockBackend:   true,
		I18n:          i18nManager,
		Logger:        logger,
		Metrics:       registry,
		Auth:          local,
		Confirmations: services.NewAccountConfirmations([]byte(testSecretKey), mailer, local, logger),
		Events:        services.NewEventService(repos.Events, store, time.Minute, logger),
		Gallery:       services.NewGalleryCatalog(uploadsDir, store, time.Minute, logger),
		Blog:          blog,
		Courses:       services.NewCourseCatalog(services.NewLocalCourseSource(repos.Courses), store, time.Minute, logger),
		Contact:       services.NewContactService(repos.Contacts, logger),
		Now:           func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	authLimiter, err := NewAuthRateLimiter("1000-M")
	if err != nil {
		t.Fatalf("init rate limiter: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	app.Use(handler.SessionMiddleware)
	RegisterRoutes(app, handler, authLimiter)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, metrics: registry}
}

func (harness *testApp) get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, target, nil)
	request.Header.Set("Accept-Language", "en")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	return harness.do(t, request)
}

func (harness *testApp) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept-Language", "en")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	return harness.do(t, request)
}

func (harness *testApp) do(t *testing.T, request *http.Request) *http.Response {
	t.Helper()

	response, err := harness.app.Test(request, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", request.Method, request.URL, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func newRequest(method string, target string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, target, body)
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(readBody(t, response)), &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	message, _ := payload["error"].(string)
	return message
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie != nil && cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func requireStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()

	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}
