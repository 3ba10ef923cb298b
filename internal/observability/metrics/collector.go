// Package metrics exposes Prometheus metrics for payments, validation and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

const (
	namespace = "telebirr"

	// Validation subjects.
	SubjectPluginConfig   = "plugin_config"
	SubjectPaymentRequest = "payment_request"
)

// Collector holds all metrics for the service. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry *prometheus.Registry

	paymentsTotal   *prometheus.CounterVec
	paymentDuration prometheus.Histogram

	validationFailures *prometheus.CounterVec
	validationWarnings *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector backed by its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		paymentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "attempts_total",
			Help:      "Total number of payment attempts by outcome and error type",
		}, []string{"outcome", "error_type"}),
		paymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "duration_seconds",
			Help:      "Time from payment start until the native call settled",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Total number of failed validations by subject",
		}, []string{"subject"}),
		validationWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "warnings_total",
			Help:      "Total number of validation warnings by subject",
		}, []string{"subject"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordPayment records the outcome of one payment attempt. errType is empty
// for successful attempts.
func (c *Collector) RecordPayment(outcome string, errType domain.ErrorType, duration time.Duration) {
	if c == nil {
		return
	}
	c.paymentsTotal.WithLabelValues(outcome, string(errType)).Inc()
	c.paymentDuration.Observe(duration.Seconds())
}

// RecordValidation records a validation result for the given subject.
func (c *Collector) RecordValidation(subject string, result domain.ValidationResult) {
	if c == nil {
		return
	}
	if !result.IsValid {
		c.validationFailures.WithLabelValues(subject).Inc()
	}
	if n := len(result.Warnings); n > 0 {
		c.validationWarnings.WithLabelValues(subject).Add(float64(n))
	}
}

// GinMiddleware records request counts and durations per route.
func GinMiddleware(c *Collector) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}
		start := time.Now()
		ctx.Next()

		endpoint := normalizeEndpoint(ctx.FullPath())
		status := strconv.Itoa(ctx.Writer.Status())
		c.httpRequests.WithLabelValues(ctx.Request.Method, endpoint, status).Inc()
		c.httpDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unknown"
	}
	return endpoint
}
