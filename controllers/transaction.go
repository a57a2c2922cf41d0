package controllers

import (
	"context"
	"net/http"
	"time"

	"go-marketplace/services"
	"go-marketplace/stores"
)

// TransactionController handles transaction-history requests
type TransactionController struct {
	Service *services.HistoryService
}

// NewTransactionController creates a new TransactionController
func NewTransactionController(service *services.HistoryService) *TransactionController {
	return &TransactionController{Service: service}
}

// GetTransactions retrieves the authenticated user's transactions. Recognized
// query parameters: status, paymentMethod.
func (tc *TransactionController) GetTransactions(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := stores.TransactionFilter{
		Status:        query.Get("status"),
		PaymentMethod: query.Get("paymentMethod"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	transactions, err := tc.Service.ListClientTransactions(ctx, userID, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, Message: "Transactions fetched successfully", Transactions: transactions})
}
