package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/booking/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, nil)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/booking/"+id, nil)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/booking/:id", "200"))
	if got != 3 {
		t.Errorf("expected 3 requests on /booking/:id, got %v", got)
	}
}

func TestMiddleware_RecordsErrorStatus(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/users", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden Access")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/users", "403"))
	if got != 1 {
		t.Errorf("expected one 403, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := NewMetrics()

	m.BookingAdmission(OutcomeAdmitted)
	m.BookingAdmission(OutcomeDuplicate)
	m.BookingAdmission(OutcomeDuplicate)
	m.PaymentIntent(true)
	m.PaymentIntent(false)
	m.PaymentRecorded()

	if got := testutil.ToFloat64(m.admissions.WithLabelValues(OutcomeDuplicate)); got != 2 {
		t.Errorf("expected 2 duplicates, got %v", got)
	}
	if got := testutil.ToFloat64(m.paymentIntents.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected 1 failed intent, got %v", got)
	}
	if got := testutil.ToFloat64(m.paymentsRecorded); got != 1 {
		t.Errorf("expected 1 recorded payment, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.BookingAdmission(OutcomeAdmitted)

	e := echo.New()
	e.GET("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`booking_admissions_total{outcome="admitted"} 1`,
		"payments_recorded_total 0",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}
