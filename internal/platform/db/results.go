package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The result shapes mirror what the document-store driver reports so clients
// see the same JSON regardless of STORE_DRIVER.

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

var (
	// ErrConflict is returned when a storage-level uniqueness constraint rejects a write.
	ErrConflict = errors.New("conflicting record already exists")
	// ErrNotFound is returned by single-record lookups that match nothing.
	ErrNotFound = errors.New("record not found")
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a duplicate-key error from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNoRows reports whether err means a single-record lookup matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

// ObjectID parses a hex document id. ok is false for anything that is not a
// 24-character hex string; callers treat that as matching nothing.
func ObjectID(hex string) (id primitive.ObjectID, ok bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	return id, err == nil
}

// RowID parses a Postgres row id. ok is false for anything that is not a UUID.
func RowID(s string) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}

// HexID renders an inserted document id as the string clients see.
func HexID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

func FromMongoInsert(res *mongo.InsertOneResult) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: HexID(res.InsertedID)}
}

func FromMongoUpdate(res *mongo.UpdateResult) UpdateResult {
	return UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    HexID(res.UpsertedID),
	}
}

func FromMongoDelete(res *mongo.DeleteResult) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}

// FromPgUpdate reports an UPDATE command tag in document-store terms.
// Postgres does not distinguish matched from modified rows.
func FromPgUpdate(tag pgconn.CommandTag) UpdateResult {
	n := tag.RowsAffected()
	return UpdateResult{Acknowledged: true, MatchedCount: n, ModifiedCount: n}
}

func FromPgDelete(tag pgconn.CommandTag) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}
}
