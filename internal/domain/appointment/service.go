package appointment

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	options OptionRepository
	booked  BookedSlotReader
}

func NewService(options OptionRepository, booked BookedSlotReader) *Service {
	return &Service{options: options, booked: booked}
}

// Availability returns every option with the slots already booked on date
// removed. An empty date subtracts nothing and returns the full templates.
func (s *Service) Availability(ctx context.Context, date string) ([]*Option, error) {
	opts, err := s.options.List(ctx)
	if err != nil {
		return nil, err
	}

	if date == "" {
		return RemainingSlots(opts, nil), nil
	}

	booked, err := s.booked.BookedOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return RemainingSlots(opts, booked), nil
}

func (s *Service) Specialities(ctx context.Context) ([]*Speciality, error) {
	return s.options.ListSpecialities(ctx)
}

// Seed loads option templates. With replace set, existing templates are
// removed first.
func (s *Service) Seed(ctx context.Context, opts []*Option, replace bool) (int, error) {
	for i, o := range opts {
		if strings.TrimSpace(o.Name) == "" {
			return 0, fmt.Errorf("option %d: name is required", i)
		}
		if o.Price < 0 {
			return 0, fmt.Errorf("option %q: price must not be negative", o.Name)
		}
	}

	if replace {
		if _, err := s.options.DeleteAll(ctx); err != nil {
			return 0, err
		}
	}
	return s.options.InsertMany(ctx, opts)
}
