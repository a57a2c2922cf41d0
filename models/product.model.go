package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. The settlement pipeline only reads it and debits
// stock; catalog writes belong to the seller-facing surface.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	ShopName    string             `bson:"shop_name" json:"shopName"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    []string           `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	Stock       int                `bson:"stock" json:"stock"`
	Sales       int                `bson:"sales" json:"sales"`
	Rating      float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
