package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/config"
	"github.com/Simplici0/diamond-courier/internal/db"
	"github.com/Simplici0/diamond-courier/internal/logger"
	"github.com/Simplici0/diamond-courier/internal/migrations"
	"github.com/Simplici0/diamond-courier/internal/relay"
	"github.com/Simplici0/diamond-courier/internal/seed"
	"github.com/Simplici0/diamond-courier/internal/service"
	"github.com/Simplici0/diamond-courier/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	log.Info("starting diamond courier server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"env", cfg.Env,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()
	srv, database, err := bootstrap(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.routes(cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}
	log.Info("server stopped gracefully")
}

// bootstrap opens and migrates the database, syncs the shop catalog into it
// and wires the services. The caller owns the returned database.
func bootstrap(ctx context.Context, cfg *config.Config, log *slog.Logger) (*server, *sql.DB, error) {
	database, err := db.Open(ctx, cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}

	fail := func(err error) (*server, *sql.DB, error) {
		_ = database.Close()
		return nil, nil, err
	}

	if err := migrations.Up(ctx, database); err != nil {
		return fail(err)
	}

	cat, err := catalog.LoadFile(cfg.Storage.CatalogPath)
	if err != nil {
		return fail(err)
	}
	stats, err := seed.Run(ctx, database, cat)
	if err != nil {
		return fail(fmt.Errorf("seed catalog: %w", err))
	}
	log.Info("catalog synced",
		"path", cfg.Storage.CatalogPath,
		"shops", len(cat.Shops),
		"inserts", stats.Inserts,
		"updates", stats.Updates,
		"deactivated", stats.Deactivated,
	)

	sessions, err := newClientSessions(cfg.Session.Secret, cfg.IsProduction())
	if err != nil {
		return fail(fmt.Errorf("create session key: %w", err))
	}

	rl := relay.New(relay.Config{
		FormID:     cfg.Relay.FormID,
		Endpoint:   cfg.Relay.Endpoint,
		WebhookURL: cfg.Relay.WebhookURL,
		Timeout:    cfg.Relay.TimeoutDuration(),
	}, log)

	state := store.New(database)
	shops := catalog.NewRepository(database)

	srv := &server{
		log:      log,
		shops:    shops,
		state:    state,
		requests: service.NewRequestService(rl, state, log),
		checkout: service.NewCheckoutService(shops, state, rl, log),
		sessions: sessions,
		relay:    rl.Name(),
	}
	return srv, database, nil
}
