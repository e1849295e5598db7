package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/internal/platform/websocket"
)

// Recorder counts payment activity.
type Recorder interface {
	PaymentIntent(ok bool)
	PaymentRecorded()
}

type Service struct {
	provider  Provider
	currency  string
	payments  Repository
	bookings  BookingPayer
	publisher websocket.EventPublisher
	recorder  Recorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates the payment service. publisher and recorder may be nil.
func NewService(provider Provider, currency string, payments Repository, bookings BookingPayer,
	publisher websocket.EventPublisher, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		provider:  provider,
		currency:  strings.ToLower(currency),
		payments:  payments,
		bookings:  bookings,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateIntent stages a card charge for price. Provider failures come back
// as *ProviderError.
func (s *Service) CreateIntent(ctx context.Context, price float64) (IntentResponse, error) {
	amount, err := ChargeAmount(price)
	if err != nil {
		return IntentResponse{}, err
	}

	secret, err := s.provider.CreateIntent(ctx, amount, s.currency)
	if s.recorder != nil {
		s.recorder.PaymentIntent(err == nil)
	}
	if err != nil {
		s.logger.Warn().Err(err).Int64("amount", amount).Str("currency", s.currency).Msg("create payment intent")
		return IntentResponse{}, err
	}
	return IntentResponse{ClientSecret: secret}, nil
}

// Validate checks a payment confirmation before it is recorded.
func Validate(r *Record) error {
	var missing []string
	if strings.TrimSpace(r.BookingID) == "" {
		missing = append(missing, "bookingId")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Record stores the payment and marks its booking paid. A booking id that no
// longer matches anything leaves the payment recorded and the update a no-op.
// Confirming the same booking again overwrites transactionId.
func (s *Service) Record(ctx context.Context, r *Record) (db.InsertResult, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	res, err := s.payments.Insert(ctx, r)
	if err != nil {
		return db.InsertResult{}, err
	}

	upd, err := s.bookings.MarkPaid(ctx, r.BookingID, r.TransactionID)
	if err != nil {
		return db.InsertResult{}, err
	}
	if s.recorder != nil {
		s.recorder.PaymentRecorded()
	}

	if upd.MatchedCount == 0 {
		s.logger.Warn().
			Str("booking_id", r.BookingID).
			Str("payment_id", res.InsertedID).
			Msg("payment recorded for a booking that does not exist")
		return res, nil
	}

	s.publishPaid(ctx, r.BookingID)
	return res, nil
}

func (s *Service) ForBooking(ctx context.Context, bookingID string) ([]*Record, error) {
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *Service) publishPaid(ctx context.Context, bookingID string) {
	if s.publisher == nil {
		return
	}
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil || b == nil {
		return
	}
	err = s.publisher.Publish(ctx, websocket.Event{
		Type:         websocket.EventBookingPaid,
		Topic:        websocket.BookingTopic(b.AppointmentDate),
		ResourceType: "Booking",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", bookingID).Msg("publish payment event")
	}
}
