// Package services holds the cart-to-checkout settlement pipeline. The
// services operate on the store interfaces and the payment gateway; every
// failure they surface is a utils.ApiError the controllers map to HTTP.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/paypal"
	"go-marketplace/stores"
	"go-marketplace/utils"
)

// PaymentGateway is the remote payment provider: create an order now, capture
// it in a second call.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, units []paypal.PurchaseUnit) (*paypal.OrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.OrderResponse, error)
}

// CartService owns the active cart and both checkout protocols.
type CartService struct {
	Carts        stores.CartStore
	Catalog      stores.ProductCatalog
	Orders       stores.OrderStore
	Transactions stores.TransactionStore
	Gateway      PaymentGateway
}

func NewCartService(carts stores.CartStore, catalog stores.ProductCatalog, orders stores.OrderStore, transactions stores.TransactionStore, gateway PaymentGateway) *CartService {
	return &CartService{
		Carts:        carts,
		Catalog:      catalog,
		Orders:       orders,
		Transactions: transactions,
		Gateway:      gateway,
	}
}

// GetActiveCart returns the user's active cart populated with product details,
// creating an empty one if none exists. The returned flag reports creation.
func (s *CartService) GetActiveCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, bool, error) {
	cart, created, err := s.getOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if err := s.populate(ctx, cart); err != nil {
		return nil, false, err
	}
	return cart, created, nil
}

func (s *CartService) getOrCreateActiveCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, bool, error) {
	cart, err := s.Carts.FindActive(ctx, userID)
	if err == nil {
		return cart, false, nil
	}
	if err != stores.ErrNotFound {
		return nil, false, err
	}
	cart, err = s.Carts.Create(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

// AddProduct adds one unit of the product to the user's active cart. A repeat
// add accumulates quantity on the existing unit and refreshes its price
// snapshot to the product's current price.
func (s *CartService) AddProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	product, err := s.Catalog.FindByID(ctx, productID)
	if err == stores.ErrNotFound {
		return nil, utils.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	cart, _, err := s.getOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := cart.FindOrder(product.SellerID)
	if order == nil {
		cart.Orders = append(cart.Orders, models.CartOrder{
			SellerID: product.SellerID,
			Units:    []models.Unit{},
		})
		order = &cart.Orders[len(cart.Orders)-1]
	}

	found := false
	for i := range order.Units {
		if order.Units[i].ProductID == product.ID {
			order.Units[i].Quantity++
			order.Units[i].Price = product.Price
			found = true
			break
		}
	}
	if !found {
		order.Units = append(order.Units, models.Unit{
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  1,
			ShopName:  product.ShopName,
		})
	}
	order.RecomputeAmount()

	if err := s.Carts.SaveOrders(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.populate(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveProduct removes one unit of the product from the user's active cart.
// A unit that drops to zero quantity is removed, and a seller group left with
// no units is removed with it.
func (s *CartService) RemoveProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	if _, err := s.Catalog.FindByID(ctx, productID); err != nil {
		if err == stores.ErrNotFound {
			return nil, utils.NotFound("Product not found")
		}
		return nil, err
	}

	cart, err := s.Carts.FindActive(ctx, userID)
	if err == stores.ErrNotFound {
		return nil, utils.NotFound("Cart not found")
	}
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Orders {
		order := &cart.Orders[i]
		for j := range order.Units {
			if order.Units[j].ProductID != productID {
				continue
			}
			found = true
			order.Units[j].Quantity--
			if order.Units[j].Quantity <= 0 {
				order.Units = append(order.Units[:j], order.Units[j+1:]...)
			}
			break
		}
	}
	if !found {
		return nil, utils.NotFound("Product not found in cart")
	}

	orders := cart.Orders[:0]
	for i := range cart.Orders {
		if len(cart.Orders[i].Units) == 0 {
			continue
		}
		cart.Orders[i].RecomputeAmount()
		orders = append(orders, cart.Orders[i])
	}
	cart.Orders = orders

	if err := s.Carts.SaveOrders(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.populate(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// populate attaches product documents to the cart's units for display.
func (s *CartService) populate(ctx context.Context, cart *models.Cart) error {
	ids := make([]primitive.ObjectID, 0, len(cart.Orders))
	for i := range cart.Orders {
		for j := range cart.Orders[i].Units {
			ids = append(ids, cart.Orders[i].Units[j].ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.Catalog.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range cart.Orders {
		for j := range cart.Orders[i].Units {
			if product, ok := products[cart.Orders[i].Units[j].ProductID]; ok {
				p := product
				cart.Orders[i].Units[j].Product = &p
			}
		}
	}
	return nil
}
