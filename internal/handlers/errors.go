package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/lakeview-kitchen/ordering-api/internal/platform/httpx"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

// writeServiceError translates service-layer failures into the JSON error
// envelope. Upstream failures surface as 500 with the upstream detail,
// validation failures as 400 with per-field messages, and the offline gate
// as 503 with its user-facing message.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		httpx.WriteError(ctx, w, httpx.
			NewError("validation_failed", "request validation failed", http.StatusBadRequest).
			WithDetails(map[string]any{"errors": validation.Fields}))
		return
	}

	var offline *services.StoreOfflineError
	if errors.As(err, &offline) {
		httpx.WriteError(ctx, w, httpx.NewError("store_offline", offline.Error(), http.StatusServiceUnavailable))
		return
	}

	var upstream *square.UpstreamError
	if errors.As(err, &upstream) {
		httpx.WriteError(ctx, w, httpx.NewError("upstream_error", upstream.Message(), http.StatusInternalServerError))
		return
	}

	httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
}
