package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doctorsportal/portal/internal/platform/db"
)

type bookingRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &bookingRepoPG{pool: pool} }

const bookingCols = `id::text, appointment_date, treatment, COALESCE(patient, ''), slot, email,
	COALESCE(phone, ''), price, paid, COALESCE(transaction_id, '')`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.AppointmentDate, &b.Treatment, &b.Patient, &b.Slot, &b.Email,
		&b.Phone, &b.Price, &b.Paid, &b.TransactionID)
	return &b, err
}

func (r *bookingRepoPG) CountSame(ctx context.Context, date, treatment, email string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM booking WHERE appointment_date = $1 AND treatment = $2 AND email = $3`,
		date, treatment, email).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *bookingRepoPG) Insert(ctx context.Context, b *Booking) (db.InsertResult, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking (id, appointment_date, treatment, patient, slot, email, phone, price, paid, transaction_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''))`,
		id, b.AppointmentDate, b.Treatment, b.Patient, b.Slot, b.Email, b.Phone, b.Price, b.Paid, b.TransactionID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return db.InsertResult{}, db.ErrConflict
		}
		return db.InsertResult{}, fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id.String()
	return db.InsertResult{Acknowledged: true, InsertedID: b.ID}, nil
}

func (r *bookingRepoPG) Get(ctx context.Context, id string) (*Booking, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return nil, nil
	}
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE id = $1`, rowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (r *bookingRepoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Booking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *bookingRepoPG) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	items, err := r.query(ctx, `SELECT `+bookingCols+` FROM booking WHERE email = $1 ORDER BY created_at`, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", email, err)
	}
	return items, nil
}

func (r *bookingRepoPG) List(ctx context.Context, limit, offset int) ([]*Booking, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM booking`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	items, err := r.query(ctx, `SELECT `+bookingCols+` FROM booking ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return items, total, nil
}

func (r *bookingRepoPG) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM booking WHERE id = $1`, rowID)
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete booking %s: %w", id, err)
	}
	return db.FromPgDelete(tag), nil
}

func (r *bookingRepoPG) MarkPaid(ctx context.Context, id, transactionID string) (db.UpdateResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `UPDATE booking SET paid = TRUE, transaction_id = $2 WHERE id = $1`, rowID, transactionID)
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("mark booking %s paid: %w", id, err)
	}
	return db.FromPgUpdate(tag), nil
}

func (r *bookingRepoPG) EnsureUniqueness(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS `+uniqueIndexName+`
		ON booking (appointment_date, treatment, email)`)
	if err != nil {
		return fmt.Errorf("create booking unique index: %w", err)
	}
	return nil
}
