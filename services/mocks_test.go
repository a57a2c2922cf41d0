package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/paypal"
	"go-marketplace/stores"
)

type memCartStore struct {
	mu        sync.Mutex
	carts     []*models.Cart
	settleErr error
}

func (m *memCartStore) FindActive(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.UserID == userID && cart.Status == models.CartStatusActive {
			return cart, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (m *memCartStore) Create(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Status: models.CartStatusActive,
		Orders: []models.CartOrder{},
	}
	m.carts = append(m.carts, cart)
	return cart, nil
}

func (m *memCartStore) SaveOrders(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.carts {
		if stored.ID == cart.ID {
			stored.Orders = cart.Orders
			return nil
		}
	}
	return stores.ErrNotFound
}

func (m *memCartStore) SetCheckoutRefs(_ context.Context, cartID primitive.ObjectID, paypalOrderID string, transactionIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.carts {
		if stored.ID == cartID {
			if paypalOrderID != "" {
				stored.PaypalOrderID = paypalOrderID
			}
			stored.TransactionIDs = transactionIDs
			return nil
		}
	}
	return stores.ErrNotFound
}

func (m *memCartStore) Settle(_ context.Context, cartID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settleErr != nil {
		return m.settleErr
	}
	for _, stored := range m.carts {
		if stored.ID == cartID {
			if stored.Status != models.CartStatusActive {
				return stores.ErrAlreadySettled
			}
			stored.Status = models.CartStatusSettled
			return nil
		}
	}
	return stores.ErrNotFound
}

type memCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: map[primitive.ObjectID]*models.Product{}}
}

func (m *memCatalog) add(product *models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return product
}

func (m *memCatalog) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, stores.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *memCatalog) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if product, ok := m.products[id]; ok {
			found[id] = *product
		}
	}
	return found, nil
}

func (m *memCatalog) DebitStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok || product.Stock < quantity {
		return stores.ErrInsufficientStock
	}
	product.Stock -= quantity
	product.Sales += quantity
	return nil
}

type memOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (m *memOrderStore) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	copied := *order
	m.orders = append(m.orders, &copied)
	return order.ID, nil
}

func (m *memOrderStore) SetTransaction(_ context.Context, orderIDs []primitive.ObjectID, transactionID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range orderIDs {
		for _, order := range m.orders {
			if order.ID == id {
				order.TransactionID = transactionID
			}
		}
	}
	return nil
}

func (m *memOrderStore) FindByUser(_ context.Context, userID primitive.ObjectID, filter stores.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []models.Order{}
	for _, order := range m.orders {
		if order.UserID != userID {
			continue
		}
		if filter.DeliveryStatus != "" && order.DeliveryStatus != filter.DeliveryStatus {
			continue
		}
		if filter.PaymentStatus != "" && order.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.PaymentMethod != "" && order.PaymentMethod != filter.PaymentMethod {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

type memTransactionStore struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

func (m *memTransactionStore) Insert(_ context.Context, tx *models.Transaction) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = primitive.NewObjectID()
	copied := *tx
	m.transactions = append(m.transactions, &copied)
	return tx.ID, nil
}

func (m *memTransactionStore) FindPendingForSeller(_ context.Context, ids []primitive.ObjectID, sellerID primitive.ObjectID) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.SellerID != sellerID || tx.Status != models.TransactionStatusPending {
			continue
		}
		for _, id := range ids {
			if tx.ID == id {
				copied := *tx
				return &copied, nil
			}
		}
	}
	return nil, stores.ErrNotFound
}

func (m *memTransactionStore) MarkPaid(_ context.Context, id primitive.ObjectID, orderIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.ID == id {
			tx.Status = models.TransactionStatusPaid
			tx.OrderIDs = orderIDs
			return nil
		}
	}
	return stores.ErrNotFound
}

func (m *memTransactionStore) HasPaidForPaypalOrder(_ context.Context, paypalOrderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.PaypalOrderID == paypalOrderID && tx.Status == models.TransactionStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTransactionStore) FindByClient(_ context.Context, clientID primitive.ObjectID, filter stores.TransactionFilter) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transactions := []models.Transaction{}
	for _, tx := range m.transactions {
		if tx.ClientID != clientID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.PaymentMethod != "" && tx.PaymentMethod != filter.PaymentMethod {
			continue
		}
		transactions = append(transactions, *tx)
	}
	return transactions, nil
}

type mockGateway struct {
	createResp   *paypal.OrderResponse
	createErr    error
	captureResp  *paypal.OrderResponse
	captureErr   error
	createdUnits []paypal.PurchaseUnit
	captureCalls int
}

func (m *mockGateway) CreateOrder(_ context.Context, units []paypal.PurchaseUnit) (*paypal.OrderResponse, error) {
	m.createdUnits = units
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

func (m *mockGateway) CaptureOrder(_ context.Context, _ string) (*paypal.OrderResponse, error) {
	m.captureCalls++
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	return m.captureResp, nil
}

type testEnv struct {
	service      *CartService
	carts        *memCartStore
	catalog      *memCatalog
	orders       *memOrderStore
	transactions *memTransactionStore
	gateway      *mockGateway
}

func newTestEnv() *testEnv {
	carts := &memCartStore{}
	catalog := newMemCatalog()
	orders := &memOrderStore{}
	transactions := &memTransactionStore{}
	gateway := &mockGateway{}
	return &testEnv{
		service:      NewCartService(carts, catalog, orders, transactions, gateway),
		carts:        carts,
		catalog:      catalog,
		orders:       orders,
		transactions: transactions,
		gateway:      gateway,
	}
}
