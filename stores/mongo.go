package stores

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/models"
)

// EnsureIndexes creates the indexes the settlement pipeline relies on. The
// partial unique index makes "at most one active cart per user" a storage
// guarantee instead of a convention.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.CartStatusActive}),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("transactions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "client_id", Value: 1}},
	})
	return err
}
