// Command postingd serves the transactional posting API over Postgres.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/example/commerce-ledger/internal/api"
	"github.com/example/commerce-ledger/internal/auth"
	"github.com/example/commerce-ledger/internal/config"
	"github.com/example/commerce-ledger/internal/ledger"
	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/reports"
	"github.com/example/commerce-ledger/internal/security"
	"github.com/example/commerce-ledger/internal/store/postgres"
	"github.com/example/commerce-ledger/pkg/audit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	accounts := posting.DefaultAccountConfig()
	if cfg.ShrinkageAccount != "" {
		accounts.Shrinkage = ledger.AccountSpec{
			Code: cfg.ShrinkageAccount,
			Name: "Inventory Shrinkage",
			Type: ledger.TypeExpense,
		}
	}

	chart := ledger.NewChart()
	engine := ledger.NewEngine(chart)
	poster := posting.NewPoster(store, chart, engine, accounts)

	deps := api.Dependencies{
		Logger:       logger,
		Poster:       poster,
		Reports:      reports.NewService(store),
		Auditor:      audit.NewTrail(),
		MaxBodyBytes: cfg.MaxBodyBytes,
	}

	if cfg.AuthEnabled() {
		verifier, err := auth.NewVerifier(cfg.AuthPublicKey, cfg.AuthIssuer)
		if err != nil {
			logger.Error("failed to parse auth public key", "error", err)
			os.Exit(1)
		}
		deps.Verifier = verifier
	} else {
		logger.Warn("token auth disabled, trusting tenant header")
	}

	if cfg.RateLimitPerMin > 0 && cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		deps.RateLimiter = &security.RedisRateLimiter{
			Redis:     redisClient,
			Prefix:    "postingd",
			PerMinute: cfg.RateLimitPerMin,
		}
	}

	router, err := api.NewRouter(deps)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	logger.Info("posting service listening", "addr", cfg.ListenAddr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
