package payment

import (
	"context"
	"fmt"
)

// Provider stages a card charge and returns the secret the client confirms it with.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

// ProviderError wraps a failure reported by the payment provider. Message is
// shown to the client unchanged.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s", e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
