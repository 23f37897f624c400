package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/rps-labs/internal/domain"
	"github.com/ashureev/rps-labs/internal/game"
	"github.com/ashureev/rps-labs/internal/identity"
	"github.com/ashureev/rps-labs/internal/session"
	"github.com/ashureev/rps-labs/internal/view"
	"github.com/ashureev/rps-labs/web"
)

// ClientConfig is what the page learns about the deployment.
type ClientConfig struct {
	ContractAddress  string `json:"contract_address"`
	ChainID          string `json:"chain_id,omitempty"`
	WalletConfigured bool   `json:"wallet_configured"`
}

// GameHandler serves the page, its fragment and the game actions.
type GameHandler struct {
	reg            *session.Registry
	clientCfg      ClientConfig
	confirmTimeout time.Duration
}

// NewGameHandler creates a game handler. confirmTimeout bounds a play
// request; 0 waits for the receipt indefinitely.
func NewGameHandler(reg *session.Registry, clientCfg ClientConfig, confirmTimeout time.Duration) *GameHandler {
	return &GameHandler{reg: reg, clientCfg: clientCfg, confirmTimeout: confirmTimeout}
}

// RegisterRoutes registers the game routes.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Page)
	r.Get("/partials/game", h.Fragment)
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/session", h.GetSession)
		r.Post("/connect", h.Connect)
		r.Post("/play", h.Play)
		r.Post("/history/refresh", h.Refresh)
	})
}

func (h *GameHandler) shell(r *http.Request) *game.Shell {
	return h.reg.Get(identity.KeyFromContext(r.Context()))
}

// Page renders the full game page.
func (h *GameHandler) Page(w http.ResponseWriter, r *http.Request) {
	if err := web.RenderPage(w, view.FromSnapshot(h.shell(r).Snapshot())); err != nil {
		slog.Error("Failed to render page", "error", err)
		Error(w, http.StatusInternalServerError, "render_failed")
	}
}

// Fragment renders the game section for in-place updates.
func (h *GameHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	if err := web.RenderGame(w, view.FromSnapshot(h.shell(r).Snapshot())); err != nil {
		slog.Error("Failed to render game fragment", "error", err)
		Error(w, http.StatusInternalServerError, "render_failed")
	}
}

// GetConfig returns the deployment configuration for the frontend.
func (h *GameHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.clientCfg)
}

// GetSession returns the current session snapshot.
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.shell(r).Snapshot())
}

// Connect connects the page session to the wallet.
func (h *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	shell := h.shell(r)
	err := shell.Dispatch(r.Context(), game.ConnectAction())
	switch {
	case err == nil:
		JSON(w, http.StatusOK, shell.Snapshot())
	case errors.Is(err, game.ErrProviderUnavailable):
		errorWithNotice(w, http.StatusServiceUnavailable, "wallet_unavailable", game.NoticeNoWallet)
	default:
		errorWithNotice(w, http.StatusBadGateway, "connect_failed", game.NoticeConnectFailed)
	}
}

type playRequest struct {
	Move *domain.Move `json:"move"`
}

// Play submits a move and responds once it is confirmed or failed.
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Move == nil {
		Error(w, http.StatusBadRequest, "invalid_move")
		return
	}

	// The submission outlives a closed page; only the configured timeout
	// bounds it.
	ctx := context.WithoutCancel(r.Context())
	if h.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.confirmTimeout)
		defer cancel()
	}

	shell := h.shell(r)
	err := shell.Dispatch(ctx, game.PlayAction(*req.Move))
	switch {
	case err == nil:
		JSON(w, http.StatusOK, shell.Snapshot())
	case errors.Is(err, game.ErrInvalidMove):
		Error(w, http.StatusBadRequest, "invalid_move")
	default:
		errorWithNotice(w, http.StatusBadGateway, "transaction_failed", game.NoticeTxError)
	}
}

// Refresh reloads the history. Failures are logged by the shell and the
// previous history is returned.
func (h *GameHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	shell := h.shell(r)
	_ = shell.Dispatch(r.Context(), game.RefreshAction())
	JSON(w, http.StatusOK, shell.Snapshot())
}
