package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/config"
	"github.com/doctorsportal/portal/internal/domain/appointment"
	"github.com/doctorsportal/portal/internal/domain/booking"
	"github.com/doctorsportal/portal/internal/domain/directory"
	"github.com/doctorsportal/portal/internal/domain/payment"
	"github.com/doctorsportal/portal/internal/platform/db"
)

// stores holds one repository per domain, all backed by the same store
// handle.
type stores struct {
	options  appointment.OptionRepository
	booked   appointment.BookedSlotReader
	bookings booking.Repository
	payments payment.Repository
	users    directory.UserRepository
	doctors  directory.DoctorRepository
	pinger   db.Pinger
	close    func(ctx context.Context) error
}

// openStores connects the store selected by cfg.StoreDriver.
func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("driver", cfg.StoreDriver).Msg("connected to database")
		return &stores{
			options:  appointment.NewOptionRepoPG(pool),
			booked:   appointment.NewBookedSlotReaderPG(pool),
			bookings: booking.NewRepoPG(pool),
			payments: payment.NewRepoPG(pool),
			users:    directory.NewUserRepoPG(pool),
			doctors:  directory.NewDoctorRepoPG(pool),
			pinger:   db.PostgresPinger{Pool: pool},
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("driver", cfg.StoreDriver).Str("database", cfg.MongoDatabase).Msg("connected to database")
		return &stores{
			options:  appointment.NewOptionRepoMongo(database),
			booked:   appointment.NewBookedSlotReaderMongo(database),
			bookings: booking.NewRepoMongo(database),
			payments: payment.NewRepoMongo(database),
			users:    directory.NewUserRepoMongo(database),
			doctors:  directory.NewDoctorRepoMongo(database),
			pinger:   db.MongoPinger{Client: client},
			close:    client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
