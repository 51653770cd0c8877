package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
)

// EnsureIndexes creates every index the repositories rely on. It is
// idempotent and reports all failures at once so startup can stop early.
// The unique email index is what keeps user creation free of duplicates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var err error

	err = multierr.Append(err, ensure(ctx, db.Collection(UsersCollection),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_role_status"),
		},
	))

	err = multierr.Append(err, ensure(ctx, db.Collection(DonationRequestsCollection),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "requesterEmail", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_requester_status"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	))

	err = multierr.Append(err, ensure(ctx, db.Collection(BlogsCollection),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
	))

	return err
}

func ensure(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("%s: %w", coll.Name(), err)
	}
	return nil
}
