package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lakeview-kitchen/ordering-api/internal/platform/httpx"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
)

// CatalogHandlers proxies catalog reads through the cached catalog service.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs the catalog proxy endpoints.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes wires the catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/locations", h.locations)
	r.Post("/products", h.serve(func(ctx context.Context) (json.RawMessage, error) {
		return h.catalog.Products(ctx)
	}))
	r.Post("/categories", h.serve(func(ctx context.Context) (json.RawMessage, error) {
		return h.catalog.Categories(ctx)
	}))
	r.Post("/modifiers", h.serve(func(ctx context.Context) (json.RawMessage, error) {
		return h.catalog.Modifiers(ctx)
	}))
	r.Post("/discounts", h.serve(func(ctx context.Context) (json.RawMessage, error) {
		return h.catalog.Discounts(ctx)
	}))
	r.Post("/measurement-units", h.serve(func(ctx context.Context) (json.RawMessage, error) {
		return h.catalog.MeasurementUnits(ctx)
	}))
}

func (h *CatalogHandlers) locations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}
	data, err := h.catalog.Locations(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeRaw(w, data)
}

func (h *CatalogHandlers) serve(fetch func(context.Context) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if h.catalog == nil {
			httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
			return
		}
		data, err := fetch(ctx)
		if err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		writeRaw(w, data)
	}
}

// writeRaw passes an upstream JSON payload through untouched.
func writeRaw(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
