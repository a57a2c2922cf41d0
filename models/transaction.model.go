package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction status values.
const (
	TransactionStatusPending  = "pending"
	TransactionStatusPaid     = "paid"
	TransactionStatusFailed   = "failed"
	TransactionStatusRefunded = "refunded"
)

// Transaction tracks the payment lifecycle for one (cart, seller) group. A
// checkout produces one transaction per distinct seller in the cart.
type Transaction struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ClientID       primitive.ObjectID   `bson:"client_id" json:"clientId"`
	SellerID       primitive.ObjectID   `bson:"seller_id" json:"sellerId"`
	OrderIDs       []primitive.ObjectID `bson:"order_ids" json:"orderIds"`
	PaymentMethod  string               `bson:"payment_method" json:"paymentMethod"`
	Amount         float64              `bson:"amount" json:"amount"`
	Currency       string               `bson:"currency" json:"currency"`
	Status         string               `bson:"status" json:"status"`
	CartID         primitive.ObjectID   `bson:"cart_id" json:"cartId"`
	PaypalOrderID  string               `bson:"paypal_order_id,omitempty" json:"paypalOrderId,omitempty"`
	PaymentDetails bson.M               `bson:"payment_details,omitempty" json:"paymentDetails,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
}
