package booking

import (
	"context"

	"github.com/doctorsportal/portal/internal/platform/db"
)

// Repository stores bookings. Lookups by an id the store cannot parse match
// nothing rather than fail.
type Repository interface {
	// CountSame counts bookings sharing the admission key. Slot is not part of it.
	CountSame(ctx context.Context, date, treatment, email string) (int64, error)
	// Insert returns db.ErrConflict when a uniqueness index rejects the row.
	Insert(ctx context.Context, b *Booking) (db.InsertResult, error)
	// Get returns nil, nil when no booking has id.
	Get(ctx context.Context, id string) (*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	List(ctx context.Context, limit, offset int) ([]*Booking, int64, error)
	Delete(ctx context.Context, id string) (db.DeleteResult, error)
	MarkPaid(ctx context.Context, id, transactionID string) (db.UpdateResult, error)
	// EnsureUniqueness installs a unique index on the admission key.
	EnsureUniqueness(ctx context.Context) error
}
