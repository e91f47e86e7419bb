package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redecell/internal/config"
	"redecell/internal/infra"
	"redecell/internal/repository"
	"redecell/internal/router"
	"redecell/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets a pretty console writer, prod gets JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := infra.SetupTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := infra.ApplyMigrations(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	reportDB, err := infra.NewReportDB(db)
	if err != nil {
		return fmt.Errorf("report db: %w", err)
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty: every protected route will answer 500")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewMailer(cfg)
	webhookClient := infra.NewWebhookClient(cfg.WebhookURL, infra.NewBreaker(infra.DefaultBreakerConfig("webhook")))

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Handle(worker.QueueEmail, worker.JobEmail, 3, worker.NewEmailWorker(mailer).Process)
	pool.Handle(worker.QueueWebhook, worker.JobWebhook, cfg.WebhookMaxAttempts, worker.NewWebhookWorker(webhookClient).Process)

	r := router.New(cfg, router.Deps{DB: db, ReportDB: reportDB, Redis: rdb, Jobs: dispatcher})
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pool.Run(gctx) })
	g.Go(func() error {
		return worker.RunOverdueCron(gctx, worker.OverdueCronConfig{
			Orders:     repository.NewPurchaseOrderRepository(db),
			RDB:        rdb,
			Dispatcher: dispatcher,
			Interval:   cfg.OverdueScanInterval,
		})
	})
	g.Go(func() error {
		log.Info().Msgf("RedeCell backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
