package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terraincognita07/pitlane/internal/cache"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pitlane_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitlane_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitlane_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitlane_auth_attempts_total",
		Help: "Authentication form submissions by flow and outcome",
	}, []string{"flow", "outcome"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		cacheLookups,
		authAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		authAttempts:    authAttempts,
	}
}

// Middleware labels by route pattern so path parameters stay out of the series.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := "unmatched"
		if matched := c.Route(); matched != nil && matched.Path != "" && status != fiber.StatusNotFound {
			route = matched.Path
		}
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(labels...).Inc()
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) RecordAuthAttempt(flow string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.authAttempts.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstrumentStore counts hits and misses on every Get.
func (m *Metrics) InstrumentStore(store cache.Store) cache.Store {
	return instrumentedStore{Store: store, lookups: m.cacheLookups}
}

type instrumentedStore struct {
	cache.Store
	lookups *prometheus.CounterVec
}

func (store instrumentedStore) Get(ctx context.Context, key string, dest any) error {
	err := store.Store.Get(ctx, key, dest)
	switch {
	case err == nil:
		store.lookups.WithLabelValues("hit").Inc()
	case errors.Is(err, cache.ErrCacheMiss):
		store.lookups.WithLabelValues("miss").Inc()
	default:
		store.lookups.WithLabelValues("error").Inc()
	}
	return err
}
