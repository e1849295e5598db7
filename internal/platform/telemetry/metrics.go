// Package telemetry exposes Prometheus metrics for HTTP traffic and the
// booking and payment flows.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admission outcomes recorded by booking_admissions_total.
const (
	OutcomeAdmitted  = "admitted"
	OutcomeDuplicate = "duplicate"
	OutcomeConflict  = "conflict"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	admissions       *prometheus.CounterVec
	paymentIntents   *prometheus.CounterVec
	paymentsRecorded prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		admissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_admissions_total",
				Help: "Booking requests by admission outcome",
			},
			[]string{"outcome"},
		),
		paymentIntents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_intents_total",
				Help: "Payment intents requested from the provider by result",
			},
			[]string{"status"},
		),
		paymentsRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_recorded_total",
				Help: "Confirmed payments recorded against bookings",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.admissions,
		m.paymentIntents,
		m.paymentsRecorded,
	)
	return m
}

// Middleware records request count and latency, labelled by route pattern
// rather than raw path to keep ids out of the label set.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) BookingAdmission(outcome string) {
	m.admissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PaymentIntent(ok bool) {
	status := "created"
	if !ok {
		status = "failed"
	}
	m.paymentIntents.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentRecorded() {
	m.paymentsRecorded.Inc()
}
