package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/config"
	"github.com/MrJamesThe3rd/ecokpi/internal/database"
	ecoHttp "github.com/MrJamesThe3rd/ecokpi/internal/http"
	authHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/invoice"
	kpiHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/kpi"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/ecokpi/internal/invoice/store"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
	kpiStore "github.com/MrJamesThe3rd/ecokpi/internal/kpi/store"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
	"github.com/MrJamesThe3rd/ecokpi/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Server.Timeout)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()

	workflowClient := workflow.NewClient(workflow.Config{
		BaseURL:      cfg.Workflow.BaseURL,
		ExtractPath:  cfg.Workflow.ExtractPath,
		GeneratePath: cfg.Workflow.GeneratePath,
		Timeout:      cfg.Workflow.Timeout,
	}, m)

	sessions, closeSessions := sessionCache(cfg)
	defer closeSessions()

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db), workflowClient)
		kpiService     = kpi.NewService(kpiStore.New(db), invoiceService, workflowClient)
		importService  = importer.NewService(invoiceService)
		authService    = auth.NewService(
			auth.NewProvider(cfg.Auth.ProviderURL, cfg.Auth.ProviderAPIKey, cfg.Auth.ProviderTimeout),
			auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
			sessions,
			m,
		)
	)

	router := ecoHttp.New(
		ecoHttp.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Health:         db,
			Metrics:        m,
			Auth:           authService,
		},
		authHandler.NewHandler(authService),
		invoiceHandler.NewHandler(invoiceService),
		kpiHandler.NewHandler(kpiService),
		importHandler.NewHandler(importService),
		exportHandler.NewHandler(invoiceService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}

// sessionCache uses Redis when an address is configured and process memory
// otherwise.
func sessionCache(cfg *config.Config) (auth.Cache, func()) {
	if cfg.Redis.Addr == "" {
		return auth.NewMemoryCache(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, keeping sessions in memory", "addr", cfg.Redis.Addr, "error", err)
		client.Close()

		return auth.NewMemoryCache(), func() {}
	}

	return auth.NewRedisCache(client), func() { client.Close() }
}
