package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "expiry_notifier"

// Metrics stores Prometheus collectors used by the API, the generator and the
// webhook dispatcher.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal           *prometheus.CounterVec
	httpRequestDuration         *prometheus.HistogramVec
	notificationsGeneratedTotal *prometheus.CounterVec
	webhookAttemptsTotal        *prometheus.CounterVec
	webhookAttemptDuration      prometheus.Histogram
	webhookDispatchTotal        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		notificationsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "notifications_generated_total",
				Help:      "Notifications considered by the generator, by entity and classification.",
			},
			[]string{"entity", "classification"},
		),
		webhookAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "webhook_attempts_total",
				Help:      "Webhook delivery attempts by outcome.",
			},
			[]string{"outcome"},
		),
		webhookAttemptDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "webhook_attempt_duration_seconds",
				Help:      "Duration of a single webhook delivery attempt in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		webhookDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "webhook_dispatch_total",
				Help:      "Digest dispatches by final result.",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.notificationsGeneratedTotal,
		m.webhookAttemptsTotal,
		m.webhookAttemptDuration,
		m.webhookDispatchTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) AddNotificationsGenerated(entity string, classification string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.notificationsGeneratedTotal.WithLabelValues(normalizeLabel(entity), normalizeLabel(classification)).Add(float64(count))
}

func (m *Metrics) ObserveWebhookAttempt(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.webhookAttemptsTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.webhookAttemptDuration.Observe(max(duration.Seconds(), 0))
}

func (m *Metrics) IncWebhookDispatch(result string) {
	if m == nil {
		return
	}
	m.webhookDispatchTotal.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
