package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctorsportal/portal/internal/domain/appointment"
	"github.com/doctorsportal/portal/internal/domain/booking"
	"github.com/doctorsportal/portal/internal/domain/directory"
	"github.com/doctorsportal/portal/internal/domain/payment"
	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/migrations"
)

// storeSet is one driver's full set of repositories.
type storeSet struct {
	name     string
	options  appointment.OptionRepository
	booked   appointment.BookedSlotReader
	bookings booking.Repository
	payments payment.Repository
	users    directory.UserRepository
	doctors  directory.DoctorRepository
	// newID returns a well-formed id that matches no record.
	newID func() string
	reset func(ctx context.Context) error
}

var (
	globalStores []*storeSet
	skipReason   string
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		skipReason = "integration tests skipped in -short mode"
		os.Exit(m.Run())
	}
	if _, err := exec.LookPath("docker"); err != nil {
		skipReason = "docker not available"
		os.Exit(m.Run())
	}

	ctx := context.Background()

	pgStores, pgCleanup, err := setupPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres container: %v\n", err)
		os.Exit(1)
	}
	mongoStores, mongoCleanup, err := setupMongo(ctx)
	if err != nil {
		pgCleanup()
		fmt.Fprintf(os.Stderr, "failed to setup mongo container: %v\n", err)
		os.Exit(1)
	}

	globalStores = []*storeSet{pgStores, mongoStores}
	code := m.Run()
	mongoCleanup()
	pgCleanup()
	os.Exit(code)
}

func setupPostgres(ctx context.Context) (*storeSet, func(), error) {
	connStr, cleanup, err := startPostgres(ctx)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if _, err := db.NewMigrator(pool, migrations.FS).Up(ctx); err != nil {
		pool.Close()
		cleanup()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return &storeSet{
			name:     "postgres",
			options:  appointment.NewOptionRepoPG(pool),
			booked:   appointment.NewBookedSlotReaderPG(pool),
			bookings: booking.NewRepoPG(pool),
			payments: payment.NewRepoPG(pool),
			users:    directory.NewUserRepoPG(pool),
			doctors:  directory.NewDoctorRepoPG(pool),
			newID:    func() string { return uuid.New().String() },
			reset: func(ctx context.Context) error {
				if _, err := pool.Exec(ctx, `DROP INDEX IF EXISTS booking_admission_unique`); err != nil {
					return err
				}
				_, err := pool.Exec(ctx, `TRUNCATE appointment_option, booking, portal_user, doctor, payment`)
				return err
			},
		}, func() {
			pool.Close()
			cleanup()
		}, nil
}

func setupMongo(ctx context.Context) (*storeSet, func(), error) {
	uri, cleanup, err := startMongo(ctx)
	if err != nil {
		return nil, nil, err
	}

	client, database, err := db.NewMongo(ctx, uri, "portaltest")
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &storeSet{
			name:     "mongo",
			options:  appointment.NewOptionRepoMongo(database),
			booked:   appointment.NewBookedSlotReaderMongo(database),
			bookings: booking.NewRepoMongo(database),
			payments: payment.NewRepoMongo(database),
			users:    directory.NewUserRepoMongo(database),
			doctors:  directory.NewDoctorRepoMongo(database),
			newID:    func() string { return primitive.NewObjectID().Hex() },
			reset:    func(ctx context.Context) error { return dropDatabase(ctx, database) },
		}, func() {
			client.Disconnect(context.Background())
			cleanup()
		}, nil
}

func dropDatabase(ctx context.Context, database *mongo.Database) error {
	return database.Drop(ctx)
}

// forEachStore runs fn once per driver against an emptied store.
func forEachStore(t *testing.T, fn func(t *testing.T, s *storeSet)) {
	t.Helper()
	if skipReason != "" {
		t.Skip(skipReason)
	}
	for _, s := range globalStores {
		s := s
		t.Run(s.name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.reset(ctx); err != nil {
				t.Fatalf("reset %s store: %v", s.name, err)
			}
			fn(t, s)
		})
	}
}
