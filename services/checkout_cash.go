package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/stores"
	"go-marketplace/utils"
)

// sellerGroup is one seller's slice of a cart, flattened for settlement.
type sellerGroup struct {
	sellerID primitive.ObjectID
	units    []models.Unit
}

func (g *sellerGroup) amount() float64 {
	total := 0.0
	for _, u := range g.units {
		total += u.Price * float64(u.Quantity)
	}
	return total
}

// groupUnitsBySeller flattens the cart's units grouped by seller, preserving
// the cart's seller order.
func groupUnitsBySeller(cart *models.Cart) []sellerGroup {
	groups := []sellerGroup{}
	index := map[primitive.ObjectID]int{}
	for i := range cart.Orders {
		order := &cart.Orders[i]
		at, ok := index[order.SellerID]
		if !ok {
			at = len(groups)
			index[order.SellerID] = at
			groups = append(groups, sellerGroup{sellerID: order.SellerID})
		}
		groups[at].units = append(groups[at].units, order.Units...)
	}
	return groups
}

func flattenUnits(groups []sellerGroup) []models.Unit {
	units := []models.Unit{}
	for i := range groups {
		units = append(units, groups[i].units...)
	}
	return units
}

// validateStock checks every unit against current stock before anything is
// written, so a single checkout call never half-commits on a validation
// failure. Returns product names for later debit diagnostics.
func (s *CartService) validateStock(ctx context.Context, units []models.Unit) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(units))
	for _, unit := range units {
		product, err := s.Catalog.FindByID(ctx, unit.ProductID)
		if err == stores.ErrNotFound {
			return nil, utils.NotFound("Product not found")
		}
		if err != nil {
			return nil, err
		}
		if product.Stock < unit.Quantity {
			return nil, utils.InsufficientStock(fmt.Sprintf("Insufficient stock for product %s", product.Name))
		}
		names[product.ID] = product.Name
	}
	return names, nil
}

// debitStock debits stock and increments sales for every unit. Each debit is
// conditional, so a concurrent buyer draining the product between validation
// and debit surfaces as InsufficientStock rather than negative stock.
func (s *CartService) debitStock(ctx context.Context, units []models.Unit, names map[primitive.ObjectID]string) error {
	for _, unit := range units {
		err := s.Catalog.DebitStock(ctx, unit.ProductID, unit.Quantity)
		if err == stores.ErrInsufficientStock {
			return utils.InsufficientStock(fmt.Sprintf("Insufficient stock for product %s", names[unit.ProductID]))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckoutResult summarizes a completed settlement.
type CheckoutResult struct {
	Message     string
	TotalAmount float64
	Sellers     int
}

// CashCheckout settles the active cart as cash-on-delivery: one order per
// unit, one pending transaction per seller, no money collected now.
//
// Order of operations: validate all stock with pure reads, claim the cart with
// the conditional active-to-settled transition, then debit stock and write the
// ledgers. A validation failure leaves everything untouched; a duplicate
// concurrent call loses the claim and gets a conflict.
func (s *CartService) CashCheckout(ctx context.Context, userID primitive.ObjectID) (*CheckoutResult, error) {
	cart, err := s.Carts.FindActive(ctx, userID)
	if err == stores.ErrNotFound {
		return nil, utils.NotFound("Cart not found")
	}
	if err != nil {
		return nil, err
	}
	if cart.TotalQuantity() == 0 {
		return nil, utils.BadRequest("Cart is empty")
	}

	groups := groupUnitsBySeller(cart)
	allUnits := flattenUnits(groups)

	names, err := s.validateStock(ctx, allUnits)
	if err != nil {
		return nil, err
	}

	if err := s.Carts.Settle(ctx, cart.ID); err != nil {
		if err == stores.ErrAlreadySettled {
			return nil, utils.Conflict("Cart is already being settled")
		}
		return nil, err
	}

	if err := s.debitStock(ctx, allUnits, names); err != nil {
		return nil, err
	}

	transactionIDs := make([]primitive.ObjectID, 0, len(groups))
	for i := range groups {
		group := &groups[i]

		orderIDs := make([]primitive.ObjectID, 0, len(group.units))
		for _, unit := range group.units {
			orderID, err := s.Orders.Insert(ctx, &models.Order{
				UserID:         userID,
				SellerID:       group.sellerID,
				ProductID:      unit.ProductID,
				Amount:         unit.Price * float64(unit.Quantity),
				Quantity:       unit.Quantity,
				ShopName:       unit.ShopName,
				PaymentMethod:  models.PaymentMethodCash,
				PaymentStatus:  models.PaymentStatusPending,
				DeliveryStatus: models.DeliveryStatusPending,
				CartID:         cart.ID,
			})
			if err != nil {
				return nil, err
			}
			orderIDs = append(orderIDs, orderID)
		}

		transactionID, err := s.Transactions.Insert(ctx, &models.Transaction{
			ClientID:      userID,
			SellerID:      group.sellerID,
			OrderIDs:      orderIDs,
			PaymentMethod: models.PaymentMethodCash,
			Amount:        group.amount(),
			Currency:      "USD",
			Status:        models.TransactionStatusPending,
			CartID:        cart.ID,
		})
		if err != nil {
			return nil, err
		}

		if err := s.Orders.SetTransaction(ctx, orderIDs, transactionID); err != nil {
			return nil, err
		}
		transactionIDs = append(transactionIDs, transactionID)
	}

	if err := s.Carts.SetCheckoutRefs(ctx, cart.ID, "", transactionIDs); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Message:     "Order placed successfully. Please pay on delivery.",
		TotalAmount: cart.TotalAmount(),
		Sellers:     len(groups),
	}, nil
}
