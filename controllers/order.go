// controllers/order.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"go-marketplace/services"
	"go-marketplace/stores"
)

// OrderController handles order-history requests
type OrderController struct {
	Service *services.HistoryService
}

// NewOrderController creates a new OrderController
func NewOrderController(service *services.HistoryService) *OrderController {
	return &OrderController{Service: service}
}

// GetOrders retrieves the authenticated user's orders. Recognized query
// parameters: deliveryStatus, paymentStatus, paymentMethod.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := stores.OrderFilter{
		DeliveryStatus: query.Get("deliveryStatus"),
		PaymentStatus:  query.Get("paymentStatus"),
		PaymentMethod:  query.Get("paymentMethod"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Service.ListUserOrders(ctx, userID, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, Message: "Orders fetched successfully", Orders: orders})
}
