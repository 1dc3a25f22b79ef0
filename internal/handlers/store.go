package handlers

import (
	"net/http"

	"github.com/lakeview-kitchen/ordering-api/internal/platform/httpx"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
)

// StoreHandlers reports the storefront online/offline flag.
type StoreHandlers struct {
	orders services.OrderService
}

// NewStoreHandlers constructs the store status endpoints.
func NewStoreHandlers(orders services.OrderService) *StoreHandlers {
	return &StoreHandlers{orders: orders}
}

// Status serves the online flag read from configuration.
func (h *StoreHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("store_unavailable", "store status is unavailable", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.orders.Status())
}
