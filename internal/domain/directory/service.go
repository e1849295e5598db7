package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/platform/auth"
	"github.com/doctorsportal/portal/internal/platform/db"
)

// TokenIssuer signs access tokens. *auth.Issuer satisfies it.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Service struct {
	users   UserRepository
	doctors DoctorRepository
	issuer  TokenIssuer
	logger  zerolog.Logger
}

func NewService(users UserRepository, doctors DoctorRepository, issuer TokenIssuer, logger zerolog.Logger) *Service {
	return &Service{users: users, doctors: doctors, issuer: issuer, logger: logger}
}

// IssueToken signs a token for a registered email. ok is false when no user
// has that email, and the caller must not learn more than that.
func (s *Service) IssueToken(ctx context.Context, email string) (token string, ok bool, err error) {
	if strings.TrimSpace(email) == "" {
		return "", false, nil
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", false, err
	}
	if u == nil {
		return "", false, nil
	}
	token, err = s.issuer.Issue(email)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, found, err := s.users.RoleByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return found && role == auth.RoleAdmin, nil
}

// Register stores u as given, role included.
func (s *Service) Register(ctx context.Context, u *User) (db.InsertResult, error) {
	if strings.TrimSpace(u.Email) == "" {
		return db.InsertResult{}, fmt.Errorf("email is required")
	}
	if u.Role != "" {
		s.logger.Info().Str("email", u.Email).Str("role", u.Role).Msg("user registered with a role")
	}
	return s.users.Insert(ctx, u)
}

func (s *Service) Users(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

func (s *Service) Promote(ctx context.Context, id string) (db.UpdateResult, error) {
	res, err := s.users.Promote(ctx, id)
	if err != nil {
		return db.UpdateResult{}, err
	}
	if res.UpsertedCount > 0 {
		s.logger.Warn().Str("user_id", res.UpsertedID).Msg("promote created a user without an email")
	}
	return res, nil
}

func (s *Service) Demote(ctx context.Context, id string) (db.UpdateResult, error) {
	return s.users.Demote(ctx, id)
}

func (s *Service) RemoveUser(ctx context.Context, id string) (db.DeleteResult, error) {
	return s.users.Delete(ctx, id)
}

func (s *Service) Doctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

func ValidateDoctor(d *Doctor) error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Specialty) == "" {
		missing = append(missing, "specialty")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) AddDoctor(ctx context.Context, d *Doctor) (db.InsertResult, error) {
	if err := ValidateDoctor(d); err != nil {
		return db.InsertResult{}, err
	}
	return s.doctors.Insert(ctx, d)
}

func (s *Service) RemoveDoctor(ctx context.Context, id string) (db.DeleteResult, error) {
	return s.doctors.Delete(ctx, id)
}
