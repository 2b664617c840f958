package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/config"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/pda"
	"github.com/feral-file/habitat-tracker/internal/providers/metadata"
	"github.com/feral-file/habitat-tracker/internal/providers/solana"
	"github.com/feral-file/habitat-tracker/internal/query"
	"github.com/feral-file/habitat-tracker/internal/ratelimit"
)

type options struct {
	configFile string
	envPath    string
	jsonOutput bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Inspect habitats, tenants and pending harvests",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.envPath, "env", "config/", "Path to environment files")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print the report as JSON")

	root.AddCommand(newLandlordCommand(opts))
	root.AddCommand(newHarvesterCommand(opts))

	return root
}

// app holds the components a command needs and releases them on close
type app struct {
	orchestrator query.Orchestrator
	timeout      time.Duration
	closers      []func()
}

func (r *app) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// queryContext returns a context cancelled on SIGINT/SIGTERM or after the query timeout
func (r *app) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if r.timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

func setup(opts *options) (*app, error) {
	cfg, err := config.LoadTrackerConfig(opts.configFile, opts.envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "habitat-tracker-cli",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	programID, err := cfg.Solana.ProgramKey()
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}

	rt := &app{timeout: cfg.Query.Timeout}
	rt.closers = append(rt.closers, func() { logger.Flush(2 * time.Second) })

	clock := adapter.NewClock()
	solanaRPC := adapter.NewSolanaRPC(cfg.Solana.RPCURL, cfg.Solana.Commitment)
	rt.closers = append(rt.closers, func() { _ = solanaRPC.Close() })

	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, clock)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to create rate limit proxy: %w", err)
	}
	rt.closers = append(rt.closers, func() { _ = rateLimitProxy.Close() })

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
	metadataClient := metadata.NewClient(
		adapter.NewHTTPClient(cfg.Metadata.Timeout, nil),
		rateLimitProxy,
		adapter.NewJSON(),
		cfg.Metadata.URL,
		cfg.Metadata.PageSize,
	)

	rt.orchestrator = query.NewOrchestrator(pda.New(programID), solanaClient, metadataClient, clock, query.Config{
		LockedStakeAccountSize: cfg.Solana.LockedStakeAccountSize,
		LandlordOffset:         cfg.Solana.LandlordOffset,
		HabitatSymbol:          cfg.Metadata.HabitatSymbol,
		Concurrency:            cfg.Query.Concurrency,
	})
	rt.closers = append(rt.closers, rt.orchestrator.Close)

	return rt, nil
}
