package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/paypal"
	"go-marketplace/utils"
)

// paypalFixture is a two-seller cart ready for the create/capture round trip.
type paypalFixture struct {
	env    *testEnv
	userID primitive.ObjectID
	mug    *models.Product
	lamp   *models.Product
}

func newPaypalFixture(t *testing.T) *paypalFixture {
	t.Helper()
	env := newTestEnv()
	userID := primitive.NewObjectID()
	mug := env.catalog.add(&models.Product{Name: "Mug", SellerID: primitive.NewObjectID(), ShopName: "Pots", Price: 10, Stock: 5})
	lamp := env.catalog.add(&models.Product{Name: "Lamp", SellerID: primitive.NewObjectID(), ShopName: "Lights", Price: 30, Stock: 5})

	_, err := env.service.AddProduct(context.Background(), userID, mug.ID)
	require.NoError(t, err)
	_, err = env.service.AddProduct(context.Background(), userID, mug.ID)
	require.NoError(t, err)
	_, err = env.service.AddProduct(context.Background(), userID, lamp.ID)
	require.NoError(t, err)

	return &paypalFixture{env: env, userID: userID, mug: mug, lamp: lamp}
}

func (f *paypalFixture) create(t *testing.T) string {
	t.Helper()
	f.env.gateway.createResp = &paypal.OrderResponse{
		ID:     "PP-ORDER-1",
		Status: "CREATED",
		Raw:    map[string]interface{}{"id": "PP-ORDER-1", "status": "CREATED"},
	}
	orderID, err := f.env.service.PaypalCreateOrder(context.Background(), f.userID)
	require.NoError(t, err)
	return orderID
}

// capturedResponse echoes the created purchase units back with a capture of
// the given value per seller.
func (f *paypalFixture) capturedResponse(status string, values map[string]string) *paypal.OrderResponse {
	units := make([]paypal.PurchaseUnit, 0, len(f.env.gateway.createdUnits))
	for _, unit := range f.env.gateway.createdUnits {
		value := unit.Amount.Value
		if v, ok := values[unit.CustomID]; ok {
			value = v
		}
		unit.Payments = &paypal.Payments{Captures: []paypal.Capture{{
			ID:     "CAP-" + unit.CustomID,
			Status: status,
			Amount: paypal.Money{CurrencyCode: "USD", Value: value},
		}}}
		units = append(units, unit)
	}
	return &paypal.OrderResponse{ID: "PP-ORDER-1", Status: status, PurchaseUnits: units}
}

func TestPaypalCreateOrder(t *testing.T) {
	f := newPaypalFixture(t)

	orderID := f.create(t)
	assert.Equal(t, "PP-ORDER-1", orderID)

	// One purchase unit per seller, string amounts, seller id in custom_id.
	units := f.env.gateway.createdUnits
	require.Len(t, units, 2)
	assert.Equal(t, f.mug.SellerID.Hex(), units[0].CustomID)
	assert.Equal(t, "20.00", units[0].Amount.Value)
	assert.Equal(t, "USD", units[0].Amount.CurrencyCode)
	require.NotNil(t, units[0].Amount.Breakdown)
	assert.Equal(t, "20.00", units[0].Amount.Breakdown.ItemTotal.Value)
	require.Len(t, units[0].Items, 1)
	assert.Equal(t, "10.00", units[0].Items[0].UnitAmount.Value)
	assert.Equal(t, "2", units[0].Items[0].Quantity)
	assert.Equal(t, f.mug.ID.Hex(), units[0].Items[0].SKU)
	assert.Equal(t, f.lamp.SellerID.Hex(), units[1].CustomID)
	assert.Equal(t, "30.00", units[1].Amount.Value)

	// One pending transaction per seller carrying the provider order id.
	require.Len(t, f.env.transactions.transactions, 2)
	for _, tx := range f.env.transactions.transactions {
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
		assert.Equal(t, models.PaymentMethodPaypal, tx.PaymentMethod)
		assert.Equal(t, "PP-ORDER-1", tx.PaypalOrderID)
		assert.NotNil(t, tx.PaymentDetails)
		assert.Empty(t, tx.OrderIDs)
	}

	// The cart stays active; nothing is reserved or debited yet.
	cart := f.env.carts.carts[0]
	assert.Equal(t, models.CartStatusActive, cart.Status)
	assert.Equal(t, "PP-ORDER-1", cart.PaypalOrderID)
	assert.Len(t, cart.TransactionIDs, 2)
	assert.Equal(t, 5, f.env.catalog.products[f.mug.ID].Stock)
	assert.Empty(t, f.env.orders.orders)
}

func TestPaypalCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv()
	userID := primitive.NewObjectID()
	_, _, err := env.service.GetActiveCart(context.Background(), userID)
	require.NoError(t, err)

	_, err = env.service.PaypalCreateOrder(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, 400, utils.StatusOf(err))
	assert.Nil(t, env.gateway.createdUnits)
}

func TestPaypalCaptureOrder(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)
	f.env.gateway.captureResp = f.capturedResponse(paypal.OrderCompleted, nil)

	message, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	require.NoError(t, err)
	assert.Equal(t, "PayPal order captured successfully", message)

	// One paid order per unit, linked to its seller's transaction.
	require.Len(t, f.env.orders.orders, 2)
	for _, order := range f.env.orders.orders {
		assert.Equal(t, models.PaymentMethodPaypal, order.PaymentMethod)
		assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
		assert.Equal(t, models.DeliveryStatusPending, order.DeliveryStatus)
		assert.False(t, order.TransactionID.IsZero())
	}

	for _, tx := range f.env.transactions.transactions {
		assert.Equal(t, models.TransactionStatusPaid, tx.Status)
		assert.Len(t, tx.OrderIDs, 1)
	}

	assert.Equal(t, 3, f.env.catalog.products[f.mug.ID].Stock)
	assert.Equal(t, 2, f.env.catalog.products[f.mug.ID].Sales)
	assert.Equal(t, 4, f.env.catalog.products[f.lamp.ID].Stock)
	assert.Equal(t, models.CartStatusSettled, f.env.carts.carts[0].Status)
}

func TestPaypalCaptureOrderIDMismatch(t *testing.T) {
	f := newPaypalFixture(t)
	f.create(t)

	_, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, "PP-OTHER")
	requireKind(t, err, utils.KindConflict)
	assert.Equal(t, "Order ID mismatch", err.Error())

	assert.Equal(t, 0, f.env.gateway.captureCalls)
	assert.Empty(t, f.env.orders.orders)
	assert.Equal(t, models.CartStatusActive, f.env.carts.carts[0].Status)
}

func TestPaypalCaptureAmountMismatch(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)
	f.env.gateway.captureResp = f.capturedResponse(paypal.OrderCompleted, map[string]string{
		f.lamp.SellerID.Hex(): "29.00",
	})

	_, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	requireKind(t, err, utils.KindPaymentMismatch)
	assert.Contains(t, err.Error(), f.lamp.SellerID.Hex())

	// Nothing past verification ran.
	assert.Equal(t, 5, f.env.catalog.products[f.mug.ID].Stock)
	assert.Empty(t, f.env.orders.orders)
	for _, tx := range f.env.transactions.transactions {
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
	}
	assert.Equal(t, models.CartStatusActive, f.env.carts.carts[0].Status)
}

func TestPaypalCaptureWithinTolerance(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)
	f.env.gateway.captureResp = f.capturedResponse(paypal.OrderCompleted, map[string]string{
		f.lamp.SellerID.Hex(): "29.99",
	})

	_, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	require.NoError(t, err)
}

func TestPaypalCaptureNotCompleted(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)
	f.env.gateway.captureResp = f.capturedResponse("DECLINED", nil)

	_, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	requireKind(t, err, utils.KindPaymentFailed)
	assert.Equal(t, models.CartStatusActive, f.env.carts.carts[0].Status)
	assert.Empty(t, f.env.orders.orders)
}

func TestPaypalCaptureAlreadyCaptured(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)

	// A previous capture attempt already marked a transaction paid.
	f.env.transactions.transactions[0].Status = models.TransactionStatusPaid

	message, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	require.NoError(t, err)
	assert.Equal(t, "PayPal order already captured", message)
	assert.Equal(t, 0, f.env.gateway.captureCalls)
}

func TestPaypalCaptureStockDrainedSinceCreate(t *testing.T) {
	f := newPaypalFixture(t)
	orderID := f.create(t)
	f.env.gateway.captureResp = f.capturedResponse(paypal.OrderCompleted, nil)

	// Another buyer emptied the shelf between create and capture.
	f.env.catalog.products[f.mug.ID].Stock = 1

	_, err := f.env.service.PaypalCaptureOrder(context.Background(), f.userID, orderID)
	requireKind(t, err, utils.KindInsufficientStock)
	assert.Empty(t, f.env.orders.orders)
}
