package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doctorsportal/portal/internal/platform/auth"
	"github.com/doctorsportal/portal/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

const userCols = `id::text, email, COALESCE(name, ''), COALESCE(role, '')`

func (r *userRepoPG) Insert(ctx context.Context, u *User) (db.InsertResult, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO portal_user (id, email, name, role)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))`,
		id, u.Email, u.Name, u.Role)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id.String()
	return db.InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM portal_user ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	items := make([]*User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, &u)
	}
	return items, rows.Err()
}

func (r *userRepoPG) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM portal_user WHERE email = $1 ORDER BY created_at LIMIT 1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &u, nil
}

func (r *userRepoPG) RoleByEmail(ctx context.Context, email string) (string, bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return "", false, err
	}
	return u.Role, true, nil
}

// Promote upserts by id. xmax is zero only on a freshly inserted row.
func (r *userRepoPG) Promote(ctx context.Context, id string) (db.UpdateResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}

	var inserted bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO portal_user (id, email, role) VALUES ($1, '', $2)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
		RETURNING (xmax = 0)`, rowID, auth.RoleAdmin).Scan(&inserted)
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("promote user %s: %w", id, err)
	}
	if inserted {
		return db.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: rowID.String()}, nil
	}
	return db.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *userRepoPG) Demote(ctx context.Context, id string) (db.UpdateResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `UPDATE portal_user SET role = NULL WHERE id = $1`, rowID)
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("demote user %s: %w", id, err)
	}
	return db.FromPgUpdate(tag), nil
}

func (r *userRepoPG) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM portal_user WHERE id = $1`, rowID)
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete user %s: %w", id, err)
	}
	return db.FromPgDelete(tag), nil
}

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) Insert(ctx context.Context, d *Doctor) (db.InsertResult, error) {
	id := uuid.New()
	slots := d.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor (id, name, email, specialty, image, available_slots)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6)`,
		id, d.Name, d.Email, d.Specialty, d.Image, slots)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert doctor: %w", err)
	}
	d.ID = id.String()
	return db.InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, COALESCE(email, ''), specialty, COALESCE(image, ''), available_slots
		FROM doctor ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	items := make([]*Doctor, 0)
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Specialty, &d.Image, &d.AvailableSlots); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		if d.AvailableSlots == nil {
			d.AvailableSlots = []string{}
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}

func (r *doctorRepoPG) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	rowID, ok := db.RowID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, rowID)
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete doctor %s: %w", id, err)
	}
	return db.FromPgDelete(tag), nil
}
