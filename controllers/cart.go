package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/services"
	"go-marketplace/utils"
)

// envelope is the JSON response shape shared by the cart endpoints.
type envelope struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Cart         *models.Cart         `json:"cart,omitempty"`
	OrderID      string               `json:"orderId,omitempty"`
	Orders       []models.Order       `json:"orders,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
}

func respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, utils.StatusOf(err), envelope{Success: false, Message: errorMessage(err)})
}

func errorMessage(err error) string {
	if apiErr, ok := err.(*utils.ApiError); ok {
		return apiErr.Message
	}
	log.Printf("internal error: %v", err)
	return "Internal server error"
}

// claimsFromRequest extracts the authenticated user's claims and id.
func claimsFromRequest(r *http.Request) (*utils.Claims, primitive.ObjectID, error) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return nil, primitive.NilObjectID, utils.BadRequest("Could not parse user from context")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, primitive.NilObjectID, utils.BadRequest("Invalid user id in token")
	}
	return claims, userID, nil
}

// CartController handles cart and checkout requests
type CartController struct {
	Service      *services.CartService
	EmailService *utils.EmailService
}

// NewCartController creates a new CartController
func NewCartController(service *services.CartService, emailService *utils.EmailService) *CartController {
	return &CartController{
		Service:      service,
		EmailService: emailService,
	}
}

// GetCart retrieves the user's active cart, creating one if none exists
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cart, created, err := cc.Service.GetActiveCart(ctx, userID)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(w, status, envelope{Success: true, Cart: cart})
}

// AddProduct adds one unit of a product to the user's active cart
func (cc *CartController) AddProduct(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["productId"])
	if err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cart, err := cc.Service.AddProduct(ctx, userID, productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, Message: "Quantity updated", Cart: cart})
}

// RemoveProduct removes one unit of a product from the user's active cart
func (cc *CartController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["productId"])
	if err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cart, err := cc.Service.RemoveProduct(ctx, userID, productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, Message: "Quantity updated", Cart: cart})
}

// CashCheckout settles the active cart as cash-on-delivery
func (cc *CartController) CashCheckout(w http.ResponseWriter, r *http.Request) {
	claims, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := cc.Service.CashCheckout(ctx, userID)
	middleware.RecordCheckoutOperation("cash_checkout", err == nil)
	if err != nil {
		respondError(w, err)
		return
	}

	if cc.EmailService != nil {
		go func(email string) {
			if err := cc.EmailService.SendSettlementEmail(email, models.PaymentMethodCash, result.TotalAmount, result.Sellers); err != nil {
				log.Printf("Failed to send email to %s: %v", email, err)
			}
		}(claims.Email)
	}

	respond(w, http.StatusOK, envelope{Success: true, Message: result.Message})
}

// PaypalCreateOrder creates a PayPal order for the active cart
func (cc *CartController) PaypalCreateOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	orderID, err := cc.Service.PaypalCreateOrder(ctx, userID)
	middleware.RecordCheckoutOperation("paypal_create_order", err == nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, OrderID: orderID, Message: "PayPal order created successfully"})
}

// PaypalCaptureOrder captures a previously created PayPal order
func (cc *CartController) PaypalCaptureOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	message, err := cc.Service.PaypalCaptureOrder(ctx, userID, body.OrderID)
	middleware.RecordCheckoutOperation("paypal_capture_order", err == nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, envelope{Success: true, Message: message})
}
