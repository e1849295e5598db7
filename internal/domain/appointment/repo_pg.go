package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type optionRepoPG struct{ pool *pgxpool.Pool }

func NewOptionRepoPG(pool *pgxpool.Pool) OptionRepository { return &optionRepoPG{pool: pool} }

func (r *optionRepoPG) List(ctx context.Context) ([]*Option, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, price, slots FROM appointment_option ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query appointment options: %w", err)
	}
	defer rows.Close()

	items := make([]*Option, 0)
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Name, &o.Price, &o.Slots); err != nil {
			return nil, fmt.Errorf("scan appointment option: %w", err)
		}
		items = append(items, &o)
	}
	return items, rows.Err()
}

func (r *optionRepoPG) ListSpecialities(ctx context.Context) ([]*Speciality, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name FROM appointment_option ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query specialities: %w", err)
	}
	defer rows.Close()

	items := make([]*Speciality, 0)
	for rows.Next() {
		var s Speciality
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan speciality: %w", err)
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *optionRepoPG) InsertMany(ctx context.Context, opts []*Option) (int, error) {
	if len(opts) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, o := range opts {
		id := uuid.New()
		o.ID = id.String()
		slots := o.Slots
		if slots == nil {
			slots = []string{}
		}
		batch.Queue(`INSERT INTO appointment_option (id, name, price, slots) VALUES ($1, $2, $3, $4)`,
			id, o.Name, o.Price, slots)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range opts {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("insert appointment option: %w", err)
		}
	}
	return len(opts), nil
}

func (r *optionRepoPG) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointment_option`)
	if err != nil {
		return 0, fmt.Errorf("delete appointment options: %w", err)
	}
	return tag.RowsAffected(), nil
}

type bookedSlotReaderPG struct{ pool *pgxpool.Pool }

func NewBookedSlotReaderPG(pool *pgxpool.Pool) BookedSlotReader { return &bookedSlotReaderPG{pool: pool} }

func (r *bookedSlotReaderPG) BookedOn(ctx context.Context, date string) ([]BookedSlot, error) {
	rows, err := r.pool.Query(ctx, `SELECT treatment, slot FROM booking WHERE appointment_date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("query bookings on %s: %w", date, err)
	}
	defer rows.Close()

	items := make([]BookedSlot, 0)
	for rows.Next() {
		var b BookedSlot
		if err := rows.Scan(&b.Treatment, &b.Slot); err != nil {
			return nil, fmt.Errorf("scan booked slot: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
