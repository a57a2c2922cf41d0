package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery status values for an order.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// Payment status values for an order.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodPaypal = "paypal"
)

// Order is one per-unit purchase fact, written at settlement time. Everything
// except the status fields is immutable once created.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	SellerID       primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	ProductID      primitive.ObjectID `bson:"product_id" json:"productId"`
	Amount         float64            `bson:"amount" json:"amount"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	ShopName       string             `bson:"shop_name" json:"shopName"`
	DeliveryStatus string             `bson:"delivery_status" json:"deliveryStatus"`
	PaymentStatus  string             `bson:"payment_status" json:"paymentStatus"`
	PaymentMethod  string             `bson:"payment_method" json:"paymentMethod"`
	TransactionID  primitive.ObjectID `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CartID         primitive.ObjectID `bson:"cart_id" json:"cartId"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}
