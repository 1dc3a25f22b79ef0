package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/httpx"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

const maxOrderBodySize = 256 * 1024

// OrderHandlers exposes order, payment, and checkout mutations.
type OrderHandlers struct {
	orders   services.OrderService
	checkout services.CheckoutService
}

// NewOrderHandlers constructs the order mutation endpoints.
func NewOrderHandlers(orders services.OrderService, checkout services.CheckoutService) *OrderHandlers {
	return &OrderHandlers{orders: orders, checkout: checkout}
}

// Routes wires the order endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/orders", h.createOrder)
	r.Post("/payment", h.processPayment)
	r.Post("/create-checkout", h.createCheckout)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxOrderBodySize))
	if err != nil {
		return nil, errors.New("unable to read request body")
	}
	if len(body) == 0 {
		return nil, errors.New("request body is required")
	}
	return body, nil
}

func decodeBody(r *http.Request, dst any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	return nil
}

func (h *OrderHandlers) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readBody(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	// The storefront may send the order nested under "order" or flat.
	var wrapped struct {
		Order *square.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}
	var order square.Order
	if wrapped.Order != nil {
		order = *wrapped.Order
	} else if err := json.Unmarshal(body, &order); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	data, err := h.orders.CreateOrder(ctx, order)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeRaw(w, data)
}

func (h *OrderHandlers) processPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload services.PaymentRequest
	if err := decodeBody(r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	data, err := h.orders.ProcessPayment(ctx, payload)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeRaw(w, data)
}

type checkoutPayload struct {
	Items        []domain.CartItem        `json:"items"`
	CustomerInfo *domain.CustomerInfo     `json:"customerInfo"`
	Customer     *domain.CustomerInfo     `json:"customer"`
	Discounts    []domain.AppliedDiscount `json:"discounts"`
	LocationID   string                   `json:"locationId"`
	PickupDate   string                   `json:"pickupDate"`
	PickupTime   string                   `json:"pickupTime"`
	Note         string                   `json:"note"`
	RedirectURL  string                   `json:"redirectUrl"`
}

func (h *OrderHandlers) createCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload checkoutPayload
	if err := decodeBody(r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	// Both "customerInfo" and the legacy "customer" key are accepted.
	customer := payload.CustomerInfo
	if customer == nil {
		customer = payload.Customer
	}
	req := services.CheckoutRequest{
		Items:       payload.Items,
		Discounts:   payload.Discounts,
		LocationID:  payload.LocationID,
		PickupDate:  payload.PickupDate,
		PickupTime:  payload.PickupTime,
		Note:        payload.Note,
		RedirectURL: payload.RedirectURL,
	}
	if customer != nil {
		req.Customer = *customer
	}

	result, err := h.checkout.CreateCheckout(ctx, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}
