package appointment

import "context"

type OptionRepository interface {
	List(ctx context.Context) ([]*Option, error)
	ListSpecialities(ctx context.Context) ([]*Speciality, error)
	InsertMany(ctx context.Context, options []*Option) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// BookedSlotReader reads the slots taken on a date. It is a narrow read
// model over the bookings store.
type BookedSlotReader interface {
	BookedOn(ctx context.Context, date string) ([]BookedSlot, error)
}
