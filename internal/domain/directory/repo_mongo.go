package directory

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctorsportal/portal/internal/platform/auth"
	"github.com/doctorsportal/portal/internal/platform/db"
)

type userRepoMongo struct{ coll *mongo.Collection }

func NewUserRepoMongo(database *mongo.Database) UserRepository {
	return &userRepoMongo{coll: database.Collection(db.CollectionUsers)}
}

func (r *userRepoMongo) Insert(ctx context.Context, u *User) (db.InsertResult, error) {
	doc := *u
	doc.ID = ""
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert user: %w", err)
	}
	out := db.FromMongoInsert(res)
	u.ID = out.InsertedID
	return out, nil
}

func (r *userRepoMongo) List(ctx context.Context) ([]*User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	items := make([]*User, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return items, nil
}

func (r *userRepoMongo) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &u, nil
}

func (r *userRepoMongo) RoleByEmail(ctx context.Context, email string) (string, bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return "", false, err
	}
	return u.Role, true, nil
}

func (r *userRepoMongo) Promote(ctx context.Context, id string) (db.UpdateResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: auth.RoleAdmin}}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("promote user %s: %w", id, err)
	}
	return db.FromMongoUpdate(res), nil
}

func (r *userRepoMongo) Demote(ctx context.Context, id string) (db.UpdateResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.UpdateResult{Acknowledged: true}, nil
	}
	update := bson.D{{Key: "$unset", Value: bson.D{{Key: "role", Value: ""}}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return db.UpdateResult{}, fmt.Errorf("demote user %s: %w", id, err)
	}
	return db.FromMongoUpdate(res), nil
}

func (r *userRepoMongo) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete user %s: %w", id, err)
	}
	return db.FromMongoDelete(res), nil
}

type doctorRepoMongo struct{ coll *mongo.Collection }

func NewDoctorRepoMongo(database *mongo.Database) DoctorRepository {
	return &doctorRepoMongo{coll: database.Collection(db.CollectionDoctors)}
}

func (r *doctorRepoMongo) Insert(ctx context.Context, d *Doctor) (db.InsertResult, error) {
	doc := *d
	doc.ID = ""
	if doc.AvailableSlots == nil {
		doc.AvailableSlots = []string{}
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return db.InsertResult{}, fmt.Errorf("insert doctor: %w", err)
	}
	out := db.FromMongoInsert(res)
	d.ID = out.InsertedID
	return out, nil
}

func (r *doctorRepoMongo) List(ctx context.Context) ([]*Doctor, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	items := make([]*Doctor, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	for _, d := range items {
		if d.AvailableSlots == nil {
			d.AvailableSlots = []string{}
		}
	}
	return items, nil
}

func (r *doctorRepoMongo) Delete(ctx context.Context, id string) (db.DeleteResult, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return db.DeleteResult{Acknowledged: true}, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return db.DeleteResult{}, fmt.Errorf("delete doctor %s: %w", id, err)
	}
	return db.FromMongoDelete(res), nil
}
