package handlers

import (
	"net/http"
	"time"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/cache"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/config"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/httpx"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
)

// HealthHandlers serves liveness, readiness, and config introspection.
type HealthHandlers struct {
	system services.SystemService
	cache  *cache.Store
	cfg    config.Config
	clock  func() time.Time
	start  time.Time
}

// NewHealthHandlers constructs the health endpoints.
func NewHealthHandlers(system services.SystemService, cacheStore *cache.Store, cfg config.Config) *HealthHandlers {
	return &HealthHandlers{
		system: system,
		cache:  cacheStore,
		cfg:    cfg,
		clock:  time.Now,
		start:  time.Now(),
	}
}

// Basic is the cheap liveness probe.
func (h *HealthHandlers) Basic(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    domain.HealthStatusOK,
		"uptime":    now.Sub(h.start).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Detailed probes dependencies and reports 503 when anything is degraded.
func (h *HealthHandlers) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.system == nil {
		httpx.WriteError(ctx, w, httpx.NewError("health_unavailable", "health service is unavailable", http.StatusServiceUnavailable))
		return
	}

	report, err := h.system.HealthReport(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("health_check_failed", "health check failed", http.StatusServiceUnavailable))
		return
	}

	checks := make(map[string]any, len(report.Checks))
	for name, check := range report.Checks {
		entry := map[string]any{
			"status":     check.Status,
			"latency_ms": check.Latency.Milliseconds(),
		}
		if check.Detail != "" {
			entry["detail"] = check.Detail
		}
		if check.Error != "" {
			entry["error"] = check.Error
		}
		checks[name] = entry
	}

	payload := map[string]any{
		"status":      report.Status,
		"checks":      checks,
		"version":     report.Version,
		"environment": report.Environment,
		"uptime":      report.Uptime.String(),
		"timestamp":   report.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		cacheInfo := map[string]any{
			"entries":    stats.Entries,
			"last_swept": stats.Swept,
		}
		if !stats.LastSweep.IsZero() {
			cacheInfo["last_sweep"] = stats.LastSweep.UTC().Format(time.RFC3339)
		}
		payload["cache"] = cacheInfo
	}

	status := http.StatusOK
	if report.Status != domain.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, payload)
}

// Config exposes the effective runtime configuration with secrets redacted.
func (h *HealthHandlers) Config(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"server": map[string]any{
			"port": h.cfg.Server.Port,
		},
		"square": map[string]any{
			"environment":      h.cfg.Square.Environment,
			"base_url":         h.cfg.Square.BaseURL,
			"api_version":      h.cfg.Square.Version,
			"location_id":      h.cfg.Square.LocationID,
			"access_token_set": h.cfg.Square.AccessToken != "",
		},
		"cache": map[string]any{
			"locations_ttl":  h.cfg.Cache.LocationsTTL.String(),
			"products_ttl":   h.cfg.Cache.ProductsTTL.String(),
			"categories_ttl": h.cfg.Cache.CategoriesTTL.String(),
			"modifiers_ttl":  h.cfg.Cache.ModifiersTTL.String(),
			"discounts_ttl":  h.cfg.Cache.DiscountsTTL.String(),
			"default_ttl":    h.cfg.Cache.DefaultTTL.String(),
			"sweep_interval": h.cfg.Cache.SweepInterval.String(),
			"sweep_ceiling":  h.cfg.Cache.SweepCeiling.String(),
		},
		"store": map[string]any{
			"online":          h.cfg.Store.Online,
			"pickup_timezone": h.cfg.Store.PickupTimezone,
		},
	})
}
