package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-marketplace/models"
)

// MongoTransactionStore persists transactions in the "transactions"
// collection.
type MongoTransactionStore struct {
	Collection *mongo.Collection
}

func NewMongoTransactionStore(db *mongo.Database) *MongoTransactionStore {
	return &MongoTransactionStore{Collection: db.Collection("transactions")}
}

func (s *MongoTransactionStore) Insert(ctx context.Context, tx *models.Transaction) (primitive.ObjectID, error) {
	tx.CreatedAt = time.Now()
	result, err := s.Collection.InsertOne(ctx, tx)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := result.InsertedID.(primitive.ObjectID)
	tx.ID = id
	return id, nil
}

// FindPendingForSeller locates the pending transaction a create-order phase
// left for a seller, scoped to the cart's recorded transaction ids.
func (s *MongoTransactionStore) FindPendingForSeller(ctx context.Context, ids []primitive.ObjectID, sellerID primitive.ObjectID) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.Collection.FindOne(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"seller_id": sellerID,
		"status":    models.TransactionStatusPending,
	}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *MongoTransactionStore) MarkPaid(ctx context.Context, id primitive.ObjectID, orderIDs []primitive.ObjectID) error {
	_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":    models.TransactionStatusPaid,
			"order_ids": orderIDs,
		},
	})
	return err
}

// HasPaidForPaypalOrder reports whether any transaction for the PayPal order
// is already paid. It is the idempotency check for retried captures.
func (s *MongoTransactionStore) HasPaidForPaypalOrder(ctx context.Context, paypalOrderID string) (bool, error) {
	count, err := s.Collection.CountDocuments(ctx, bson.M{
		"paypal_order_id": paypalOrderID,
		"status":          models.TransactionStatusPaid,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoTransactionStore) FindByClient(ctx context.Context, clientID primitive.ObjectID, filter TransactionFilter) ([]models.Transaction, error) {
	query := bson.M{"client_id": clientID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		query["payment_method"] = filter.PaymentMethod
	}

	cursor, err := s.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	for cursor.Next(ctx) {
		var tx models.Transaction
		if err := cursor.Decode(&tx); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, cursor.Err()
}
