package appointment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal/internal/platform/db"
)

type optionRepoMongo struct{ coll *mongo.Collection }

func NewOptionRepoMongo(database *mongo.Database) OptionRepository {
	return &optionRepoMongo{coll: database.Collection(db.CollectionAppointmentOptions)}
}

func (r *optionRepoMongo) List(ctx context.Context) ([]*Option, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find appointment options: %w", err)
	}
	items := make([]*Option, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode appointment options: %w", err)
	}
	return items, nil
}

func (r *optionRepoMongo) ListSpecialities(ctx context.Context) ([]*Speciality, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find specialities: %w", err)
	}
	items := make([]*Speciality, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode specialities: %w", err)
	}
	return items, nil
}

func (r *optionRepoMongo) InsertMany(ctx context.Context, opts []*Option) (int, error) {
	if len(opts) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(opts))
	for _, o := range opts {
		cp := *o
		cp.ID = ""
		docs = append(docs, cp)
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert appointment options: %w", err)
	}
	for i, id := range res.InsertedIDs {
		opts[i].ID = db.HexID(id)
	}
	return len(res.InsertedIDs), nil
}

func (r *optionRepoMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete appointment options: %w", err)
	}
	return res.DeletedCount, nil
}

type bookedSlotReaderMongo struct{ coll *mongo.Collection }

func NewBookedSlotReaderMongo(database *mongo.Database) BookedSlotReader {
	return &bookedSlotReaderMongo{coll: database.Collection(db.CollectionBookings)}
}

func (r *bookedSlotReaderMongo) BookedOn(ctx context.Context, date string) ([]BookedSlot, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "treatment", Value: 1}, {Key: "slot", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "appointmentDate", Value: date}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings on %s: %w", date, err)
	}
	items := make([]BookedSlot, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode bookings on %s: %w", date, err)
	}
	return items, nil
}
