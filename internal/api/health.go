package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 3 * time.Second

// ChainPinger reports the chain head. *ethclient.Client satisfies it.
type ChainPinger interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	chain ChainPinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(chain ChainPinger) *HealthHandler {
	return &HealthHandler{chain: chain}
}

// Health returns the health status of the API and its RPC endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	block, err := h.chain.BlockNumber(ctx)
	if err != nil {
		slog.Error("Health check failed", "error", err)
		JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"rpc":    "unreachable",
		})
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"rpc":    "connected",
		"block":  block,
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/api/health", h.Health)
}
