package payment

import (
	"context"

	"github.com/doctorsportal/portal/internal/domain/booking"
	"github.com/doctorsportal/portal/internal/platform/db"
)

type Repository interface {
	Insert(ctx context.Context, r *Record) (db.InsertResult, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*Record, error)
}

// BookingPayer is the part of the booking store a payment touches.
// booking.Repository satisfies it.
type BookingPayer interface {
	Get(ctx context.Context, id string) (*booking.Booking, error)
	MarkPaid(ctx context.Context, id, transactionID string) (db.UpdateResult, error)
}
