// cmd/api/main.go
package main

import (
	"cashback-chain/internal/auth"
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/catalog"
	"cashback-chain/internal/config"
	"cashback-chain/internal/handler"
	"cashback-chain/internal/middleware"
	"cashback-chain/internal/purchase"
	"cashback-chain/internal/storage"
	"cashback-chain/internal/storage/memory"
	"cashback-chain/internal/storage/postgres"
	"cashback-chain/internal/telemetry"
	"cashback-chain/internal/wallet"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Init(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("Telemetry shutdown failed", "error", err)
		}
	}()

	var store storage.ProfileStorage
	if cfg.DBConn != "" {
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			slog.Error("Failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("DB ping failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to PostgreSQL")
		store = postgres.NewStorage(pool)
	} else {
		slog.Info("DATABASE_URL not set, keeping cashback profiles in memory")
		store = memory.NewStorage()
	}

	registry := cashback.NewRegistry()
	if err := registry.Load(ctx, store); err != nil {
		slog.Error("Failed to load cashback profiles", "error", err)
		os.Exit(1)
	}

	resolver, err := purchase.NewResolver(otel.Meter("cashback-chain/purchase"), otel.Tracer("cashback-chain/purchase"))
	if err != nil {
		slog.Error("Failed to create resolver", "error", err)
		os.Exit(1)
	}

	w, err := wallet.New(registry, resolver, catalog.New(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))), cfg.DefaultProfile)
	if err != nil {
		slog.Error("Failed to create wallet", "error", err, "profile", cfg.DefaultProfile)
		os.Exit(1)
	}

	authMiddleware := middleware.NewAuthMiddleware(auth.NewGate(cfg))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(cfg.ServiceName))

	handler.NewWalletHandler(w, registry, store).Routes(router, authMiddleware.RequireOperator())

	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "addr", cfg.ServerPort, "profile", w.Strategy().Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
