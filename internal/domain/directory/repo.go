package directory

import (
	"context"

	"github.com/doctorsportal/portal/internal/platform/db"
)

// UserRepository stores users. It also satisfies auth.RoleLookup.
type UserRepository interface {
	Insert(ctx context.Context, u *User) (db.InsertResult, error)
	List(ctx context.Context) ([]*User, error)
	// FindByEmail returns nil, nil when no user has email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	RoleByEmail(ctx context.Context, email string) (role string, found bool, err error)
	// Promote sets role admin on the user with id, creating a bare record
	// when none exists and id is a valid store id.
	Promote(ctx context.Context, id string) (db.UpdateResult, error)
	// Demote clears the role. It never creates a record.
	Demote(ctx context.Context, id string) (db.UpdateResult, error)
	Delete(ctx context.Context, id string) (db.DeleteResult, error)
}

type DoctorRepository interface {
	Insert(ctx context.Context, d *Doctor) (db.InsertResult, error)
	List(ctx context.Context) ([]*Doctor, error)
	Delete(ctx context.Context, id string) (db.DeleteResult, error)
}
