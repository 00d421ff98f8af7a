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

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitogram/internal/auth"
	"github.com/mmynk/splitogram/internal/config"
	"github.com/mmynk/splitogram/internal/metrics"
	"github.com/mmynk/splitogram/internal/middleware"
	"github.com/mmynk/splitogram/internal/notify"
	"github.com/mmynk/splitogram/internal/oracle"
	"github.com/mmynk/splitogram/internal/service"
	"github.com/mmynk/splitogram/internal/settlement"
	"github.com/mmynk/splitogram/internal/storage/sqlite"
	"github.com/mmynk/splitogram/internal/worker"
	"github.com/mmynk/splitogram/pkg/api/apiconnect"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	queue, closeQueue, err := newQueue(cfg)
	if err != nil {
		return err
	}
	defer closeQueue()

	dispatcher := notify.NewDispatcher(queue, newSender(cfg))
	go func() {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Notification dispatcher stopped", "error", err)
		}
	}()
	notifier := notify.NewNotifier(store, queue, cfg.PagesURL)
	defer notifier.Wait()

	manager := settlement.NewManager(store, newVerifier(cfg), notifier, settlement.Config{
		OracleTimeout:     cfg.OracleTimeout,
		USDTMasterAddress: cfg.USDTMasterAddress,
	})

	if cfg.PendingSweepSchedule != "" {
		sweeper, err := worker.NewSweeper(store, manager).Start(cfg.PendingSweepSchedule)
		if err != nil {
			return err
		}
		defer func() { <-sweeper.Stop().Done() }()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(jwtManager),
		limiter.Interceptor(),
		middleware.ValidationInterceptor(middleware.NewValidator()),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, notifier), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, notifier), interceptors))
	mux.Handle(apiconnect.NewBalanceServiceHandler(service.NewBalanceService(store), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(store, manager), interceptors))
	mux.Handle(apiconnect.NewUserServiceHandler(service.NewUserService(store), interceptors))
	mux.Handle("/metrics", metrics.Handler())

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newQueue returns a Redis-backed queue when REDIS_URL is set and an
// in-memory one otherwise.
func newQueue(cfg *config.Config) (notify.Queue, func(), error) {
	if cfg.RedisURL == "" {
		return notify.NewMemoryQueue(cfg.NotifyQueueSize), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	slog.Info("Notification queue on Redis", "addr", opts.Addr, "key", notify.DefaultRedisKey)
	return notify.NewRedisQueue(client, notify.DefaultRedisKey), func() { client.Close() }, nil
}

func newSender(cfg *config.Config) notify.Sender {
	if cfg.TelegramBotToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, notifications are only logged")
		return notify.LogSender{}
	}
	return notify.NewTelegramSender("", cfg.TelegramBotToken, &http.Client{Timeout: 10 * time.Second})
}

func newVerifier(cfg *config.Config) oracle.Verifier {
	if cfg.TonAPIKey == "" {
		slog.Warn("TONAPI_KEY not set, on-chain verification is disabled")
		return oracle.Disabled{}
	}
	return oracle.NewTonAPI(oracle.TonAPIConfig{
		BaseURL: cfg.TonAPIURL,
		APIKey:  cfg.TonAPIKey,
		Timeout: cfg.OracleTimeout,
	})
}
