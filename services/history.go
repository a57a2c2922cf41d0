package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/models"
	"go-marketplace/stores"
)

// HistoryService serves the authenticated user's order and transaction
// ledgers.
type HistoryService struct {
	Orders       stores.OrderStore
	Transactions stores.TransactionStore
}

func NewHistoryService(orders stores.OrderStore, transactions stores.TransactionStore) *HistoryService {
	return &HistoryService{Orders: orders, Transactions: transactions}
}

func (s *HistoryService) ListUserOrders(ctx context.Context, userID primitive.ObjectID, filter stores.OrderFilter) ([]models.Order, error) {
	return s.Orders.FindByUser(ctx, userID, filter)
}

func (s *HistoryService) ListClientTransactions(ctx context.Context, clientID primitive.ObjectID, filter stores.TransactionFilter) ([]models.Transaction, error) {
	return s.Transactions.FindByClient(ctx, clientID, filter)
}
