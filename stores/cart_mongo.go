package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-marketplace/models"
)

// MongoCartStore persists carts in the "carts" collection.
type MongoCartStore struct {
	Collection *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{Collection: db.Collection("carts")}
}

func (s *MongoCartStore) FindActive(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"user_id": userID, "status": models.CartStatusActive}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *MongoCartStore) Create(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	now := time.Now()
	cart := &models.Cart{
		UserID:    userID,
		Status:    models.CartStatusActive,
		Orders:    []models.CartOrder{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := s.Collection.InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = result.InsertedID.(primitive.ObjectID)
	return cart, nil
}

// SaveOrders writes back the cart's order groups after an add or remove.
func (s *MongoCartStore) SaveOrders(ctx context.Context, cart *models.Cart) error {
	_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{
		"$set": bson.M{
			"orders":     cart.Orders,
			"updated_at": time.Now(),
		},
	})
	return err
}

// SetCheckoutRefs records the provider order id and the transaction ids a
// checkout produced. The cart's status is untouched.
func (s *MongoCartStore) SetCheckoutRefs(ctx context.Context, cartID primitive.ObjectID, paypalOrderID string, transactionIDs []primitive.ObjectID) error {
	set := bson.M{
		"transaction_ids": transactionIDs,
		"updated_at":      time.Now(),
	}
	if paypalOrderID != "" {
		set["paypal_order_id"] = paypalOrderID
	}
	_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": set})
	return err
}

// Settle flips the cart to settled only if it is still active. A concurrent
// checkout that already claimed the cart makes MatchedCount zero.
func (s *MongoCartStore) Settle(ctx context.Context, cartID primitive.ObjectID) error {
	result, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": cartID, "status": models.CartStatusActive},
		bson.M{"$set": bson.M{"status": models.CartStatusSettled, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAlreadySettled
	}
	return nil
}
