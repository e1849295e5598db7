package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/internal/platform/telemetry"
	"github.com/doctorsportal/portal/internal/platform/websocket"
)

// AdmissionRecorder counts admission outcomes.
type AdmissionRecorder interface {
	BookingAdmission(outcome string)
}

type Service struct {
	repo      Repository
	publisher websocket.EventPublisher
	recorder  AdmissionRecorder
	logger    zerolog.Logger
}

// NewService creates the booking service. publisher and recorder may be nil.
func NewService(repo Repository, publisher websocket.EventPublisher, recorder AdmissionRecorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, recorder: recorder, logger: logger}
}

// Validate checks the fields that make up the admission key.
func Validate(b *Booking) error {
	var missing []string
	if strings.TrimSpace(b.AppointmentDate) == "" {
		missing = append(missing, "appointmentDate")
	}
	if strings.TrimSpace(b.Treatment) == "" {
		missing = append(missing, "treatment")
	}
	if strings.TrimSpace(b.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Admit stores b unless the patient already holds a booking for the same
// treatment on the same date, in which case nothing is written and the
// returned Admission carries the rejection message.
//
// The check and the insert are separate operations. When the store has a
// unique index on the key, a racing duplicate surfaces as db.ErrConflict.
func (s *Service) Admit(ctx context.Context, b *Booking) (Admission, error) {
	n, err := s.repo.CountSame(ctx, b.AppointmentDate, b.Treatment, b.Email)
	if err != nil {
		return Admission{}, err
	}
	if n > 0 {
		s.record(telemetry.OutcomeDuplicate)
		return Admission{Acknowledged: false, Message: DuplicateMessage(b.AppointmentDate)}, nil
	}

	b.Paid = false
	b.TransactionID = ""
	res, err := s.repo.Insert(ctx, b)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			s.record(telemetry.OutcomeConflict)
		}
		return Admission{}, err
	}

	s.record(telemetry.OutcomeAdmitted)
	s.publish(ctx, websocket.EventBookingAdmitted, b.AppointmentDate, res.InsertedID)
	return Admission{Acknowledged: res.Acknowledged, InsertedID: res.InsertedID}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return s.repo.ListByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Booking, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return db.DeleteResult{}, err
	}

	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return db.DeleteResult{}, err
	}
	if existing != nil && res.DeletedCount > 0 {
		s.publish(ctx, websocket.EventBookingDeleted, existing.AppointmentDate, id)
	}
	return res, nil
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.BookingAdmission(outcome)
	}
}

func (s *Service) publish(ctx context.Context, eventType, date, id string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, websocket.Event{
		Type:         eventType,
		Topic:        websocket.BookingTopic(date),
		ResourceType: "Booking",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id).Str("event", eventType).Msg("publish booking event")
	}
}
