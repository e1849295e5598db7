package payment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal/internal/platform/db"
)

type paymentRepoMongo struct{ coll *mongo.Collection }

func NewRepoMongo(database *mongo.Database) Repository {
	return &paymentRepoMongo{coll: database.Collection(db.CollectionPayments)}
}

func (r *paymentRepoMongo) Insert(ctx context.Context, rec *Record) (db.InsertResult, error) {
	doc := *rec
	doc.ID = ""
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	out := db.FromMongoInsert(res)
	rec.ID = out.InsertedID
	return out, nil
}

func (r *paymentRepoMongo) ListByBooking(ctx context.Context, bookingID string) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "bookingId", Value: bookingID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find payments for booking %s: %w", bookingID, err)
	}
	items := make([]*Record, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return items, nil
}
