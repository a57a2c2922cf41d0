package stores

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/models"
)

// MongoOrderStore persists orders in the "orders" collection.
type MongoOrderStore struct {
	Collection *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{Collection: db.Collection("orders")}
}

func (s *MongoOrderStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	order.CreatedAt = time.Now()
	result, err := s.Collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := result.InsertedID.(primitive.ObjectID)
	order.ID = id
	return id, nil
}

// SetTransaction back-fills the transaction id on a seller group's orders.
func (s *MongoOrderStore) SetTransaction(ctx context.Context, orderIDs []primitive.ObjectID, transactionID primitive.ObjectID) error {
	_, err := s.Collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": orderIDs}},
		bson.M{"$set": bson.M{"transaction_id": transactionID}},
	)
	return err
}

func (s *MongoOrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID, filter OrderFilter) ([]models.Order, error) {
	query := bson.M{"user_id": userID}
	if filter.DeliveryStatus != "" {
		query["delivery_status"] = filter.DeliveryStatus
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	if filter.PaymentMethod != "" {
		query["payment_method"] = filter.PaymentMethod
	}

	cursor, err := s.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, cursor.Err()
}
