// Package mongostore implements the repositories on MongoDB. Each entity
// lives in its own collection and documents are keyed by ObjectID hex
// strings assigned on insert.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"zapshift/internal/repository"
)

const (
	usersCollection    = "users"
	ridersCollection   = "riders"
	parcelsCollection  = "parcels"
	paymentsCollection = "payments"
)

// New builds a Store over db. Transactions need a replica set or sharded
// cluster, so they are only used when transactional is true.
func New(client *mongo.Client, db *mongo.Database, transactional bool) *repository.Store {
	store := &repository.Store{
		Users:    &userRepository{coll: db.Collection(usersCollection)},
		Riders:   &riderRepository{coll: db.Collection(ridersCollection)},
		Parcels:  &parcelRepository{coll: db.Collection(parcelsCollection)},
		Payments: &paymentRepository{coll: db.Collection(paymentsCollection)},
		Pinger:   pinger{client: client},
	}
	if transactional {
		store.Tx = sessionTransactor{client: client}
	}
	return store
}

// EnsureIndexes creates the unique and lookup indexes the repositories
// rely on. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ridersCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "riderDistrict", Value: 1}}},
		},
		parcelsCollection: {
			{Keys: bson.D{{Key: "senderEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "riderEmail", Value: 1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "customerEmail", Value: 1}, {Key: "paidAt", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

type sessionTransactor struct {
	client *mongo.Client
}

func (t sessionTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// byID matches id stored either as a hex string or, for documents written
// by earlier clients, as an ObjectId.
func byID(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

// ciExact matches s exactly, ignoring case.
func ciExact(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// ciContains matches any value containing s, ignoring case.
func ciContains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func updateOne(ctx context.Context, coll *mongo.Collection, filter bson.M, set bson.M) error {
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
