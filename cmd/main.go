package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"user-flag/auth"
	"user-flag/enrichment"
	"user-flag/internal"
	"user-flag/moderation"
	"user-flag/observability"
	"user-flag/pipeline"
	"user-flag/report"
	"user-flag/repositories"
	"user-flag/retry"
	"user-flag/runtime/workers"
	"user-flag/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation
	censored, err := moderation.LoadCensoredWords()
	if err != nil {
		return fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, config.ModerationCharReplacement, log)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	log.Info("Moderation ready", "words", len(censored.Words), "languages", censored.Languages)

	// 4. Enrichment client
	client, err := buildClient(config, log)
	if err != nil {
		return err
	}

	// 5. Pipeline service
	metrics := observability.NewRecorder(log)
	runRepository := repositories.NewRunRepository(db, log)
	pipelineConfig := pipeline.Config{
		Concurrency: config.Concurrency,
		Retry: retry.Policy{
			MaxAttempts: config.Retries,
			BaseDelay:   config.RetryBaseDelay,
			MaxDelay:    config.RetryMaxDelay,
		},
	}
	if err := pipelineConfig.Validate(); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}
	service := services.NewPipelineService(
		log, client, moderator, metrics, runRepository, pipelineConfig, config.OutputDir,
	)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One-shot mode: process a single file, print the report, exit.
	inputFile := flag.String("input", "", "Process this CSV file once and exit instead of serving")
	flag.Parse()
	if *inputFile != "" {
		summary, err := service.Execute(ctx, *inputFile)
		if err != nil {
			return err
		}
		report.PrintAggregates(os.Stdout, summary.Aggregates)
		report.PrintSummary(summary.Record.Metrics, summary.Record.OutputPath)
		return nil
	}

	// 7. Background reporting under supervision
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewReporterWorker(log, metrics, config.ReportInterval))
	go sup.Run(ctx)

	// 8. HTTP API
	tokens := auth.NewTokenManager(config.JWTSecret, "user-flag", config.AuthTokenDuration)
	api := internal.NewServer(log, service, metrics, runRepository, tokens, config.OperatorPasswordHash)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: api.Handler()}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}

// buildClient selects the enrichment transport. The simulated mode keeps the
// whole pipeline runnable without any remote dependency.
func buildClient(config Config, log *slog.Logger) (enrichment.Client, error) {
	switch config.EnrichmentMode {
	case "simulated":
		return enrichment.NewSimulatedClient(log), nil
	case "http":
		if config.NormalizeURL == "" || config.ScoreURL == "" {
			return nil, fmt.Errorf("http enrichment mode requires NORMALIZE_URL and SCORE_URL")
		}
		log.Info("Using remote enrichment services",
			"normalize", config.NormalizeURL, "score", config.ScoreURL)
		return enrichment.NewHTTPClient(config.NormalizeURL, config.ScoreURL, config.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown enrichment mode %q", config.EnrichmentMode)
	}
}
