package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the document store.
const (
	CollectionAppointmentOptions = "AppointmentOptions"
	CollectionBookings           = "bookings"
	CollectionUsers              = "users"
	CollectionDoctors            = "doctors"
	CollectionPayments           = "payments"
)

// NewMongo connects the process-wide Mongo client and returns the portal
// database handle alongside it. Callers own the client and disconnect it on
// shutdown.
func NewMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(database), nil
}

// MongoPinger adapts a mongo client to the Pinger interface.
type MongoPinger struct {
	Client *mongo.Client
}

func (p MongoPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}

func (p MongoPinger) Driver() string { return "mongo" }
