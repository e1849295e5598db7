package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stripe/stripe-go/v76"
)

func newStripeTestProvider(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeProvider("sk_test_123", backend)
}

func TestStripeProvider_CreateIntent(t *testing.T) {
	var gotAmount, gotCurrency, gotPath string
	p := newStripeTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotAmount = r.PostForm.Get("amount")
		gotCurrency = r.PostForm.Get("currency")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","object":"payment_intent","amount":2500,"currency":"usd","client_secret":"pi_1_secret_abc"}`))
	})

	secret, err := p.CreateIntent(context.Background(), 2500, "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Errorf("unexpected secret %q", secret)
	}
	if gotPath != "/v1/payment_intents" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotAmount != "2500" || gotCurrency != "usd" {
		t.Errorf("expected amount 2500 usd, got %s %s", gotAmount, gotCurrency)
	}
}

func TestStripeProvider_ErrorMessageVerbatim(t *testing.T) {
	p := newStripeTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Amount must be at least $0.50 usd"}}`))
	})

	_, err := p.CreateIntent(context.Background(), 10, "usd")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Message != "Amount must be at least $0.50 usd" {
		t.Errorf("unexpected message %q", pe.Message)
	}
}
