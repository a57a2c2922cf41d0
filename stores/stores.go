// Package stores defines the persistence boundary of the settlement pipeline.
// The services operate against these interfaces; the mongo implementations
// live alongside them.
package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a conditional stock debit loses
	// to the remaining stock level.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrAlreadySettled is returned when a conditional settle finds the cart
	// no longer active.
	ErrAlreadySettled = errors.New("cart already settled")
)

// CartStore persists carts. FindActive looks up by (userId, status=active);
// Settle is the conditional active-to-settled transition that serializes
// concurrent checkouts for the same cart.
type CartStore interface {
	FindActive(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveOrders(ctx context.Context, cart *models.Cart) error
	SetCheckoutRefs(ctx context.Context, cartID primitive.ObjectID, paypalOrderID string, transactionIDs []primitive.ObjectID) error
	Settle(ctx context.Context, cartID primitive.ObjectID) error
}

// ProductCatalog is the read-plus-debit view of the product catalog the
// checkout needs. DebitStock must decrement only if stock covers the quantity,
// and increments the sales counter in the same write.
type ProductCatalog interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	DebitStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// OrderFilter narrows an order-history query. Only these fields are
// recognized; empty values are ignored.
type OrderFilter struct {
	DeliveryStatus string
	PaymentStatus  string
	PaymentMethod  string
}

// OrderStore persists per-unit purchase facts.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	SetTransaction(ctx context.Context, orderIDs []primitive.ObjectID, transactionID primitive.ObjectID) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, filter OrderFilter) ([]models.Order, error)
}

// TransactionFilter narrows a transaction-history query.
type TransactionFilter struct {
	Status        string
	PaymentMethod string
}

// TransactionStore persists per-(cart, seller) payment records.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) (primitive.ObjectID, error)
	FindPendingForSeller(ctx context.Context, ids []primitive.ObjectID, sellerID primitive.ObjectID) (*models.Transaction, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, orderIDs []primitive.ObjectID) error
	HasPaidForPaypalOrder(ctx context.Context, paypalOrderID string) (bool, error)
	FindByClient(ctx context.Context, clientID primitive.ObjectID, filter TransactionFilter) ([]models.Transaction, error)
}
