package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/config"
	"github.com/doctorsportal/portal/internal/platform/telemetry"
	"github.com/doctorsportal/portal/internal/platform/websocket"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
func (p fakePinger) Driver() string             { return "fake" }

type noProvider struct{}

func (noProvider) CreateIntent(context.Context, int64, string) (string, error) {
	return "", errors.New("not configured")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:               "production",
		StoreDriver:       config.DriverMongo,
		AccessTokenSecret: "secret",
		TokenTTL:          time.Hour,
		PaymentCurrency:   "usd",
		CORSOrigins:       []string{"*"},
		AdminDenyPolicy:   config.DenyEmpty,
		BodyLimit:         "1M",
	}
}

// Only routes that never reach a repository are exercised, so the
// repositories can stay nil.
func newTestServer(p fakePinger) http.Handler {
	st := &stores{pinger: p, close: func(context.Context) error { return nil }}
	return newServer(testConfig(), zerolog.Nop(), st, noProvider{}, telemetry.NewMetrics(), websocket.NewHub(zerolog.Nop()))
}

func TestServer_Liveness(t *testing.T) {
	srv := newTestServer(fakePinger{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Doctor Portal Server is Running" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS outside development")
	}
}

func TestServer_StoreHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(fakePinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/store", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for healthy store, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestServer(fakePinger{err: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/store", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for unhealthy store, got %d", rec.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(fakePinger{})
	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected http_requests_total in exposition")
	}
}

func TestServer_ProtectedRoutesNeedToken(t *testing.T) {
	srv := newTestServer(fakePinger{})

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/booking?email=a@x.com"},
		{http.MethodGet, "/bookings"},
		{http.MethodPut, "/users/admin/abc"},
		{http.MethodGet, "/doctors"},
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tt.method, tt.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Unauthorized Access") {
			t.Errorf("%s %s: unexpected body %s", tt.method, tt.path, rec.Body.String())
		}
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(fakePinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDecodeOptions(t *testing.T) {
	opts, err := decodeOptions(strings.NewReader(`[
		{"name":"Braces","price":25,"slots":["8:00 AM","9:00 AM"]},
		{"name":"Teeth Cleaning","price":15,"slots":["10:00 AM"]}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 2 || opts[0].Name != "Braces" || len(opts[0].Slots) != 2 {
		t.Errorf("unexpected options %+v", opts)
	}

	for _, bad := range []string{`[]`, `{"name":"x"}`, `[{"nmae":"typo"}]`} {
		if _, err := decodeOptions(strings.NewReader(bad)); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"
	if _, err := openStores(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestBootstrap_LogFormatFollowsConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		wantJSON bool
	}{
		{"unset env defaults to development", "", false},
		{"production", "production", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ACCESS_TOKEN", "secret")
			t.Setenv("STORE_DRIVER", config.DriverMongo)
			t.Setenv("MONGO_URI", "mongodb://localhost:27017")
			t.Setenv("ENV", tt.env)

			var buf bytes.Buffer
			prev := logOutput
			logOutput = &buf
			defer func() { logOutput = prev }()

			cfg, logger, err := bootstrap()
			if err != nil {
				t.Fatalf("bootstrap() error: %v", err)
			}
			if cfg.IsDev() == tt.wantJSON {
				t.Fatalf("IsDev() = %v for ENV=%q", cfg.IsDev(), tt.env)
			}

			logger.Info().Msg("ready")
			out := buf.String()
			isJSON := json.Valid(bytes.TrimSpace(buf.Bytes()))
			if isJSON != tt.wantJSON {
				t.Errorf("expected JSON=%v, got %q", tt.wantJSON, out)
			}
			if !strings.Contains(out, "ready") {
				t.Errorf("expected message in output, got %q", out)
			}
		})
	}
}
