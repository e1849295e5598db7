package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doctorsportal/portal/internal/platform/db"
)

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) Insert(ctx context.Context, rec *Record) (db.InsertResult, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment (id, booking_id, transaction_id, price, email, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		id, rec.BookingID, rec.TransactionID, rec.Price, rec.Email, rec.CreatedAt)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	rec.ID = id.String()
	return db.InsertResult{Acknowledged: true, InsertedID: rec.ID}, nil
}

func (r *paymentRepoPG) ListByBooking(ctx context.Context, bookingID string) ([]*Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, booking_id, transaction_id, price, COALESCE(email, ''), created_at
		FROM payment WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query payments for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	items := make([]*Record, 0)
	for rows.Next() {
		var p Record
		if err := rows.Scan(&p.ID, &p.BookingID, &p.TransactionID, &p.Price, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}
