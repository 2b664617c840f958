package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/api/server"
	"github.com/feral-file/habitat-tracker/internal/config"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/pda"
	"github.com/feral-file/habitat-tracker/internal/providers/metadata"
	"github.com/feral-file/habitat-tracker/internal/providers/solana"
	"github.com/feral-file/habitat-tracker/internal/query"
	"github.com/feral-file/habitat-tracker/internal/ratelimit"
	"github.com/feral-file/habitat-tracker/internal/session"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "habitat-tracker-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting habitat tracker API")

	programID, err := cfg.Solana.ProgramKey()
	if err != nil {
		logger.Fatal("Invalid program id", zap.Error(err))
	}

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	solanaRPC := adapter.NewSolanaRPC(cfg.Solana.RPCURL, cfg.Solana.Commitment)
	defer func() { _ = solanaRPC.Close() }()
	httpClient := adapter.NewHTTPClient(cfg.Metadata.Timeout, nil)

	// Rate limiter shared by every upstream provider
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, clock)
	if err != nil {
		logger.Fatal("Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() { _ = rateLimitProxy.Close() }()

	// Providers
	solanaClient := solana.NewClient(solanaRPC, rateLimitProxy, clock, solana.Config{
		ProgramID:      programID,
		BatchSize:      cfg.Solana.BatchSize,
		RequestTimeout: cfg.Solana.RequestTimeout,
		Retry: adapter.RetryConfig{
			InitialInterval: adapter.DefaultRetryConfig.InitialInterval,
			MaxInterval:     adapter.DefaultRetryConfig.MaxInterval,
			MaxElapsedTime:  cfg.Solana.RetryMaxElapsedTime,
		},
	})
	metadataClient := metadata.NewClient(httpClient, rateLimitProxy, jsonAdapter, cfg.Metadata.URL, cfg.Metadata.PageSize)

	orchestrator := query.NewOrchestrator(pda.New(programID), solanaClient, metadataClient, clock, query.Config{
		LockedStakeAccountSize: cfg.Solana.LockedStakeAccountSize,
		LandlordOffset:         cfg.Solana.LandlordOffset,
		HabitatSymbol:          cfg.Metadata.HabitatSymbol,
		Concurrency:            cfg.Query.Concurrency,
	})
	defer orchestrator.Close()

	sessions := session.NewManager(orchestrator, clock, session.Config{
		MaxSessions:  cfg.Session.MaxSessions,
		TTL:          cfg.Session.TTL,
		QueryTimeout: cfg.Query.Timeout,
	})
	defer sessions.Close()

	logger.InfoCtx(ctx, "Configured upstreams",
		zap.String("rpc_url", cfg.Solana.RPCURL),
		zap.String("program_id", programID.String()),
		zap.Int("locked_stake_account_size", cfg.Solana.LockedStakeAccountSize),
	)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		QueryTimeout: cfg.Query.Timeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}

	srv := server.New(serverConfig, orchestrator, sessions)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	logger.Info("API server stopped")
}
