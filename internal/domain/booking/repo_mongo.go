package booking

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal/internal/platform/db"
)

const uniqueIndexName = "booking_admission_unique"

type bookingRepoMongo struct{ coll *mongo.Collection }

func NewRepoMongo(database *mongo.Database) Repository {
	return &bookingRepoMongo{coll: database.Collection(db.CollectionBookings)}
}

func admissionKey(date, treatment, email string) bson.D {
	return bson.D{
		{Key: "appointmentDate", Value: date},
		{Key: "treatment", Value: treatment},
		{Key: "email", Value: email},
	}
}

func (r *bookingRepoMongo) CountSame(ctx context.Context, date, treatment, email string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, admissionKey(date, treatment, email))
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *bookingRepoMongo) Insert(ctx context.Context, b *Booking) (db.InsertResult, error) {
	doc := *b
	doc.ID = ""
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return db.InsertResult{}, db.ErrConflict
		}
		return db.InsertResult{}, fmt.Errorf("insert booking: %w", err)
	}
	out := db.FromMongoInsert(res)
	b.ID = out.InsertedID
	return out, nil
}

func (r *bookingRepoMongo) Get(ctx context.Context, id string) (*Booking, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return nil, nil
	}
	var b Booking
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *bookingRepoMongo) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	cur, err := r.coll.Find(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return nil, fmt.Errorf("find bookings for %s: %w", email, err)
	}
	items := make([]*Booking, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return items, nil
}

func (r *bookingRepoMongo) List(ctx context.Context, limit, offset int) ([]*Booking, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find bookings: %w", err)
	}
	items := make([]*Booking, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode bookings: %w", err)
	}
	return items, total, nil
}

func (r *bookingRepoMongo) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete booking %s: %w", id, err)
	}
	return db.FromMongoDelete(res), nil
}

func (r *bookingRepoMongo) MarkPaid(ctx context.Context, id, transactionID string) (db.UpdateResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "paid", Value: true},
		{Key: "transactionId", Value: transactionID},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("mark booking %s paid: %w", id, err)
	}
	return db.FromMongoUpdate(res), nil
}

func (r *bookingRepoMongo) EnsureUniqueness(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "appointmentDate", Value: 1},
			{Key: "treatment", Value: 1},
			{Key: "email", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName(uniqueIndexName),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create booking unique index: %w", err)
	}
	return nil
}
