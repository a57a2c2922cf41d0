package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart status values. A cart moves from active to settled exactly once.
const (
	CartStatusActive  = "active"
	CartStatusSettled = "settled"
)

// Unit is a single product line inside a cart order. Price is a snapshot of the
// product price at the time the unit was last added, not a live price.
type Unit struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ShopName  string             `bson:"shop_name" json:"shopName"`
	Product   *Product           `bson:"-" json:"product,omitempty"`
}

// CartOrder groups a cart's units by the seller that owns them. A CartOrder
// with no units must never be persisted.
type CartOrder struct {
	SellerID primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	Units    []Unit             `bson:"units" json:"units"`
	Amount   float64            `bson:"amount" json:"amount"`
}

// RecomputeAmount refreshes the stored per-seller amount from the units.
func (o *CartOrder) RecomputeAmount() {
	total := 0.0
	for _, u := range o.Units {
		total += u.Price * float64(u.Quantity)
	}
	o.Amount = total
}

// Cart represents a user's shopping cart. A user has at most one active cart.
type Cart struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID   `bson:"user_id" json:"userId"`
	Status         string               `bson:"status" json:"status"`
	Orders         []CartOrder          `bson:"orders" json:"orders"`
	PaypalOrderID  string               `bson:"paypal_order_id,omitempty" json:"paypalOrderId,omitempty"`
	TransactionIDs []primitive.ObjectID `bson:"transaction_ids,omitempty" json:"transactionIds,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updatedAt"`
}

// TotalAmount sums the per-seller amounts across the whole cart.
func (c *Cart) TotalAmount() float64 {
	total := 0.0
	for i := range c.Orders {
		for _, u := range c.Orders[i].Units {
			total += u.Price * float64(u.Quantity)
		}
	}
	return total
}

// TotalQuantity sums unit quantities across the whole cart.
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Orders {
		for _, u := range c.Orders[i].Units {
			total += u.Quantity
		}
	}
	return total
}

// FindOrder returns the cart order for a seller, or nil.
func (c *Cart) FindOrder(sellerID primitive.ObjectID) *CartOrder {
	for i := range c.Orders {
		if c.Orders[i].SellerID == sellerID {
			return &c.Orders[i]
		}
	}
	return nil
}

// MarshalJSON includes the derived totals so clients never compute money.
func (c Cart) MarshalJSON() ([]byte, error) {
	type alias Cart
	return json.Marshal(struct {
		alias
		TotalAmount   float64 `json:"totalAmount"`
		TotalQuantity int     `json:"totalQuantity"`
	}{
		alias:         alias(c),
		TotalAmount:   c.TotalAmount(),
		TotalQuantity: c.TotalQuantity(),
	})
}
