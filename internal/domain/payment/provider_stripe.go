package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type stripeProvider struct {
	client paymentintent.Client
}

// NewStripeProvider returns a Provider backed by Stripe payment intents. A nil
// backend uses the default API backend.
func NewStripeProvider(secretKey string, backend stripe.Backend) Provider {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &stripeProvider{client: paymentintent.Client{B: backend, Key: secretKey}}
}

func (p *stripeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.client.New(params)
	if err != nil {
		return "", &ProviderError{Message: stripeMessage(err), Err: err}
	}
	return pi.ClientSecret, nil
}

func stripeMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}
