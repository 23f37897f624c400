// RPS Labs - Rock-Paper-Scissors contract client server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashureev/rps-labs/internal/api"
	"github.com/ashureev/rps-labs/internal/config"
	"github.com/ashureev/rps-labs/internal/contract"
	"github.com/ashureev/rps-labs/internal/game"
	"github.com/ashureev/rps-labs/internal/identity"
	"github.com/ashureev/rps-labs/internal/middleware"
	"github.com/ashureev/rps-labs/internal/session"
	"github.com/ashureev/rps-labs/internal/wallet"
	"github.com/ashureev/rps-labs/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "contract", cfg.ContractAddress)

	// Initialize dependencies.
	client, err := ethclient.DialContext(context.Background(), cfg.RPCURL)
	if err != nil {
		slog.Error("Failed to dial RPC endpoint", "error", err, "rpc_url", cfg.RPCURL)
		os.Exit(1)
	}
	defer client.Close()

	var provider wallet.Provider
	keyProvider, err := wallet.FromConfig(cfg.Wallet, cfg.ChainID, client)
	switch {
	case errors.Is(err, wallet.ErrNotConfigured):
		slog.Warn("No wallet configured, connect will report the wallet as unavailable")
	case err != nil:
		slog.Error("Failed to load wallet", "error", err)
		os.Exit(1)
	default:
		provider = keyProvider
		slog.Info("Wallet loaded", "address", keyProvider.Address().Hex())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := session.NewHub()
	sessions := session.NewRegistry(session.ShellFactory(game.Options{
		Provider: provider,
		Bind: func(_ context.Context, signer *bind.TransactOpts) (game.Contract, error) {
			return contract.New(cfg.Contract(), client, signer), nil
		},
		Metrics: game.NewMetrics(registry),
	}, hub))

	// Initialize handlers.
	clientCfg := api.ClientConfig{
		ContractAddress:  cfg.Contract().Hex(),
		WalletConfigured: provider != nil,
	}
	if cfg.ChainID != nil {
		clientCfg.ChainID = cfg.ChainID.String()
	}
	gameHandler := api.NewGameHandler(sessions, clientCfg, cfg.ConfirmTimeout)
	healthHandler := api.NewHealthHandler(client)
	wsHandler := session.NewWebSocketHandler(sessions, hub, cfg.FrontendURL, cfg.IsDevelopment())
	httpMetrics := middleware.NewMetrics(registry)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(httpMetrics.Middleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Handle("/static/*", web.StaticHandler())

	// Session routes.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		gameHandler.RegisterRoutes(r)
		r.Get("/ws/session", wsHandler.ServeHTTP)
	})

	// Plays block until the receipt arrives, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, sessions, cfg.SweepInterval, cfg.SessionTTL, hub.CloseSession)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
