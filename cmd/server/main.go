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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/aryan0dhankhar/giftexchange/internal/featureflags"
	"github.com/aryan0dhankhar/giftexchange/internal/handler"
	"github.com/aryan0dhankhar/giftexchange/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/giftexchange/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/giftexchange/internal/observability/tracing"
	"github.com/aryan0dhankhar/giftexchange/internal/repository"
	"github.com/aryan0dhankhar/giftexchange/internal/security"
	"github.com/aryan0dhankhar/giftexchange/internal/security/audit"
	"github.com/aryan0dhankhar/giftexchange/internal/security/ratelimit"
	"github.com/aryan0dhankhar/giftexchange/internal/service"
	"github.com/aryan0dhankhar/giftexchange/internal/worker"
	"github.com/aryan0dhankhar/giftexchange/pkg/config"
)

const serviceName = "giftexchange"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting giftexchange server", slog.String("environment", cfg.Environment))

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	// 4. Audit stream (optional)
	readiness := map[string]handler.Pinger{}
	var sink audit.Sink
	if cfg.AuditStreamEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		sink = redis.NewAuditSink(redisClient, cfg.AuditStream)
		readiness["redis"] = redisClient
		log.Info("audit stream enabled", slog.String("stream", cfg.AuditStream))
	} else {
		log.Info("audit stream disabled: REDIS_URL not set")
	}

	// 5. Store and command layer
	store := repository.NewMemoryStore()
	authz := security.NewAuthorizationService(log)
	auditLogger := audit.NewLogger(log, sink)
	exchange := service.NewExchangeService(store, authz, auditLogger, log)

	if featureflags.Enabled(featureflags.DemoSeed) {
		if err := exchange.SeedDemo(ctx); err != nil {
			return err
		}
	}

	// 6. HTTP surface
	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		Exchange:           exchange,
		Limiter:            limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Readiness:          readiness,
		Logger:             log,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	statsWorker := worker.NewStatsWorker(store, log, cfg.StatsInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting",
			slog.String("addr", server.Addr),
			slog.Float64("rate_limit_rps", cfg.RateLimitRPS),
			slog.Int("rate_limit_burst", cfg.RateLimitBurst),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return statsWorker.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
