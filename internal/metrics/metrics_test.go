package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraincognita07/pitlane/internal/cache"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/blog/:slug", func(c *fiber.Ctx) error {
		return c.SendString(c.Params("slug"))
	})
	app.Get("/metrics", m.Handler())

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/blog/fitness-for-kart-racers", nil), -1)
	require.NoError(t, err)
	response.Body.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/blog/:slug", "200")))

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "pitlane_http_requests_total"))
}

func TestInstrumentStoreCountsLookups(t *testing.T) {
	m := New()
	store := m.InstrumentStore(cache.NewMemoryStore())
	ctx := context.Background()

	var value string
	assert.ErrorIs(t, store.Get(ctx, "missing", &value), cache.ErrCacheMiss)
	require.NoError(t, store.Set(ctx, "present", "yes", time.Minute))
	require.NoError(t, store.Get(ctx, "present", &value))
	assert.Equal(t, "yes", value)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestRecordAuthAttempt(t *testing.T) {
	m := New()
	m.RecordAuthAttempt("login", false)
	m.RecordAuthAttempt("login", true)
	m.RecordAuthAttempt("login", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "failure")))

	var nilMetrics *Metrics
	nilMetrics.RecordAuthAttempt("login", true)
}
