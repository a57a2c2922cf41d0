package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/paypal"
	"go-marketplace/stores"
	"go-marketplace/utils"
)

// captureTolerance is the largest captured-vs-expected difference accepted
// before the capture is treated as tampered or partial.
const captureTolerance = 0.01

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// buildPurchaseUnits maps each seller group onto one PayPal purchase unit,
// tagging it with the seller id so the capture can be reconciled per seller.
func buildPurchaseUnits(groups []sellerGroup) []paypal.PurchaseUnit {
	units := make([]paypal.PurchaseUnit, 0, len(groups))
	for i := range groups {
		group := &groups[i]

		items := make([]paypal.Item, 0, len(group.units))
		for _, unit := range group.units {
			items = append(items, paypal.Item{
				Name: fmt.Sprintf("%s - Product %s", unit.ShopName, unit.ProductID.Hex()),
				SKU:  unit.ProductID.Hex(),
				UnitAmount: paypal.Money{
					CurrencyCode: "USD",
					Value:        formatAmount(unit.Price),
				},
				Quantity: strconv.Itoa(unit.Quantity),
			})
		}

		amount := formatAmount(group.amount())
		units = append(units, paypal.PurchaseUnit{
			CustomID: group.sellerID.Hex(),
			Amount: paypal.PurchaseAmount{
				CurrencyCode: "USD",
				Value:        amount,
				Breakdown: &paypal.AmountBreakdown{
					ItemTotal: paypal.Money{CurrencyCode: "USD", Value: amount},
				},
			},
			Items: items,
		})
	}
	return units
}

// PaypalCreateOrder is phase one of the provider checkout: create the remote
// order and a pending transaction per seller. The cart stays active and no
// stock is reserved; stock is validated only at capture time.
func (s *CartService) PaypalCreateOrder(ctx context.Context, userID primitive.ObjectID) (string, error) {
	cart, err := s.Carts.FindActive(ctx, userID)
	if err == stores.ErrNotFound {
		return "", utils.NotFound("Cart not found")
	}
	if err != nil {
		return "", err
	}
	if cart.TotalQuantity() == 0 {
		return "", utils.BadRequest("Cart is empty")
	}

	groups := groupUnitsBySeller(cart)
	response, err := s.Gateway.CreateOrder(ctx, buildPurchaseUnits(groups))
	if err != nil {
		return "", err
	}

	transactionIDs := make([]primitive.ObjectID, 0, len(groups))
	for i := range groups {
		group := &groups[i]
		transactionID, err := s.Transactions.Insert(ctx, &models.Transaction{
			ClientID:       userID,
			SellerID:       group.sellerID,
			OrderIDs:       []primitive.ObjectID{},
			PaymentMethod:  models.PaymentMethodPaypal,
			Amount:         group.amount(),
			Currency:       "USD",
			Status:         models.TransactionStatusPending,
			CartID:         cart.ID,
			PaypalOrderID:  response.ID,
			PaymentDetails: bson.M(response.Raw),
		})
		if err != nil {
			return "", err
		}
		transactionIDs = append(transactionIDs, transactionID)
	}

	if err := s.Carts.SetCheckoutRefs(ctx, cart.ID, response.ID, transactionIDs); err != nil {
		return "", err
	}

	return response.ID, nil
}

// PaypalCaptureOrder is phase two: capture the remote order, verify every
// seller's captured amount, debit stock, write paid orders, mark transactions
// paid and settle the cart. The provider order id is the idempotency key; a
// retried capture that already settled short-circuits.
func (s *CartService) PaypalCaptureOrder(ctx context.Context, userID primitive.ObjectID, orderID string) (string, error) {
	cart, err := s.Carts.FindActive(ctx, userID)
	if err == stores.ErrNotFound {
		return "", utils.NotFound("Cart not found")
	}
	if err != nil {
		return "", err
	}
	if cart.PaypalOrderID != orderID {
		return "", utils.Conflict("Order ID mismatch")
	}

	paid, err := s.Transactions.HasPaidForPaypalOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if paid {
		return "PayPal order already captured", nil
	}

	response, err := s.Gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if response.Status != paypal.OrderCompleted {
		return "", utils.PaymentFailed("PayPal payment not completed")
	}

	for _, unit := range response.PurchaseUnits {
		captured := 0.0
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			captured, _ = strconv.ParseFloat(unit.Payments.Captures[0].Amount.Value, 64)
		}
		expected, _ := strconv.ParseFloat(unit.Amount.Value, 64)
		if math.Abs(captured-expected) > captureTolerance {
			return "", utils.PaymentMismatch(fmt.Sprintf("Payment amount mismatch for seller %s", unit.CustomID))
		}
	}

	groups := groupUnitsBySeller(cart)
	allUnits := flattenUnits(groups)

	// Stock was never reserved at order creation, so a depleted product here
	// is a genuine failure: the payment went through but the goods are gone.
	names, err := s.validateStock(ctx, allUnits)
	if err != nil {
		return "", err
	}
	if err := s.debitStock(ctx, allUnits, names); err != nil {
		return "", err
	}

	for i := range groups {
		group := &groups[i]

		transaction, err := s.Transactions.FindPendingForSeller(ctx, cart.TransactionIDs, group.sellerID)
		if err == stores.ErrNotFound {
			return "", utils.NotFound(fmt.Sprintf("Transaction not found for seller %s", group.sellerID.Hex()))
		}
		if err != nil {
			return "", err
		}

		orderIDs := make([]primitive.ObjectID, 0, len(group.units))
		for _, unit := range group.units {
			createdID, err := s.Orders.Insert(ctx, &models.Order{
				UserID:         userID,
				SellerID:       group.sellerID,
				ProductID:      unit.ProductID,
				Amount:         unit.Price * float64(unit.Quantity),
				Quantity:       unit.Quantity,
				ShopName:       unit.ShopName,
				PaymentMethod:  models.PaymentMethodPaypal,
				PaymentStatus:  models.PaymentStatusPaid,
				DeliveryStatus: models.DeliveryStatusPending,
				TransactionID:  transaction.ID,
				CartID:         cart.ID,
			})
			if err != nil {
				return "", err
			}
			orderIDs = append(orderIDs, createdID)
		}

		if err := s.Transactions.MarkPaid(ctx, transaction.ID, orderIDs); err != nil {
			return "", err
		}
	}

	if err := s.Carts.Settle(ctx, cart.ID); err != nil {
		if err == stores.ErrAlreadySettled {
			return "", utils.Conflict("Cart is already settled")
		}
		return "", err
	}

	return "PayPal order captured successfully", nil
}
