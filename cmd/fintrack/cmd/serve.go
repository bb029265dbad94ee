package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/ai"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/config"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
	"github.com/valeriaulyamaeva/fintrack/internal/reports"
	"github.com/valeriaulyamaeva/fintrack/internal/routes"
	"github.com/valeriaulyamaeva/fintrack/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the notification workers and the scheduled jobs",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()
	if !cfg.Debug && !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	outbox, err := notify.OpenOutbox(cfg.Notify.OutboxPath)
	if err != nil {
		return err
	}
	defer outbox.Close()

	dispatcher := notify.NewDispatcher(outbox, notify.StoreSink{DB: db}, notify.Options{
		Workers: cfg.Notify.Workers,
		Logger:  logger,
	})
	dispatcher.Start()
	defer dispatcher.Stop()
	// Deliver whatever the previous run left behind.
	if err := dispatcher.Sweep(ctx); err != nil {
		logger.Warn("error sweeping outbox", "err", err)
	}

	service := ledger.New(db, dispatcher, logger)

	deps := routes.Deps{
		DB:             db,
		Ledger:         service,
		Reports:        reports.NewService(db),
		Tokens:         auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger,
	}
	closeAI, err := setupAI(ctx, cfg, &deps, logger)
	if err != nil {
		return err
	}
	defer closeAI()

	jobs := scheduler.New(service, dispatcher, logger)
	if err := jobs.Register(scheduler.DefaultSpecs); err != nil {
		return fmt.Errorf("failed to schedule jobs: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           routes.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupAI fills in the receipt parser and the graph extractor when a model
// key is configured. The returned func releases the graph store.
func setupAI(ctx context.Context, cfg *config.Config, deps *routes.Deps, logger *slog.Logger) (func(), error) {
	noop := func() {}
	if !cfg.AIEnabled() {
		logger.Info("GEMINI_API_KEY not set, receipt and extraction endpoints are disabled")
		return noop, nil
	}
	gen, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return noop, err
	}
	deps.Receipts = ai.NewReceiptParser(gen, logger)

	if !cfg.GraphEnabled() {
		deps.Extractor = ai.NewExtractor(gen, nil, logger)
		return noop, nil
	}
	sink, err := ai.NewNeo4jSink(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		return noop, err
	}
	deps.Extractor = ai.NewExtractor(gen, sink, logger)
	return func() {
		if err := sink.Close(context.Background()); err != nil {
			logger.Warn("error closing neo4j driver", "err", err)
		}
	}, nil
}
