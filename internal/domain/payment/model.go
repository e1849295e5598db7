package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is an append-only confirmation that a booking was paid.
type Record struct {
	ID            string    `json:"_id" bson:"_id,omitempty"`
	BookingID     string    `json:"bookingId" bson:"bookingId"`
	TransactionID string    `json:"transactionId" bson:"transactionId"`
	Price         float64   `json:"price" bson:"price"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

type IntentRequest struct {
	Price float64 `json:"price"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// MaxMinorUnits is the largest single charge Stripe accepts (eight digits).
const MaxMinorUnits int64 = 99_999_999

// ErrInvalidPrice marks a price that cannot be charged.
var ErrInvalidPrice = errors.New("invalid price")

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(MaxMinorUnits)
)

// MinorUnits converts a price in major units to the integer amount the
// provider charges, rounding half away from zero. Callers bound the price
// with ChargeAmount first.
func MinorUnits(price float64) int64 {
	return minorUnits(price).IntPart()
}

func minorUnits(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(hundred).Round(0)
}

// ChargeAmount is MinorUnits for a price that must lie within
// [0, MaxMinorUnits] once converted.
func ChargeAmount(price float64) (int64, error) {
	amount := minorUnits(price)
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: must not be negative, got %v", ErrInvalidPrice, price)
	}
	if amount.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %v exceeds the maximum charge of %s", ErrInvalidPrice, price, maxAmount.Div(hundred).StringFixed(2))
	}
	return amount.IntPart(), nil
}
