package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/models"
)

// MongoProductCatalog is the catalog accessor backed by the "products"
// collection.
type MongoProductCatalog struct {
	Collection *mongo.Collection
}

func NewMongoProductCatalog(db *mongo.Database) *MongoProductCatalog {
	return &MongoProductCatalog{Collection: db.Collection("products")}
}

func (c *MongoProductCatalog) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *MongoProductCatalog) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	products := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := c.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products[product.ID] = product
	}
	return products, cursor.Err()
}

// DebitStock decrements stock and increments sales in one conditional write.
// The stock guard in the filter is what keeps stock non-negative under
// concurrent checkouts.
func (c *MongoProductCatalog) DebitStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity, "sales": quantity}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}
