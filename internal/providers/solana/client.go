package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/metrics"
	"github.com/feral-file/habitat-tracker/internal/ratelimit"
)

// MaxBatchSize is the most accounts a single getMultipleAccounts call accepts
const MaxBatchSize = 100

// Config holds the Solana account provider configuration
type Config struct {
	ProgramID domain.Key
	BatchSize int
	// RequestTimeout bounds each attempt; zero leaves attempts bounded only by ctx
	RequestTimeout time.Duration
	Retry          adapter.RetryConfig
}

// Client defines the account fetches used by report queries
//
//go:generate mockgen -source=client.go -destination=../../mocks/solana_client.go -package=mocks -mock_names=Client=MockSolanaClient
type Client interface {
	// GetAccount returns the data of one account, or domain.ErrAccountNotFound
	GetAccount(ctx context.Context, address domain.Key) ([]byte, error)

	// GetMultipleAccounts returns one entry per address in input order, nil where the account is missing or closed
	GetMultipleAccounts(ctx context.Context, addresses []domain.Key) ([][]byte, error)

	// ScanProgramAccounts returns the program accounts matching the filter
	ScanProgramAccounts(ctx context.Context, filter domain.ScanFilter) ([]domain.RawAccount, error)
}

// SolanaClient implements Client on top of the RPC adapter with rate limiting and retries
type SolanaClient struct {
	rpc            adapter.SolanaRPC
	rateLimitProxy ratelimit.Proxy
	clock          adapter.Clock
	config         Config
}

// NewClient creates a new Solana account provider
func NewClient(rpc adapter.SolanaRPC, rateLimitProxy ratelimit.Proxy, clock adapter.Clock, cfg Config) Client {
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Retry == (adapter.RetryConfig{}) {
		cfg.Retry = adapter.DefaultRetryConfig
	}

	return &SolanaClient{
		rpc:            rpc,
		rateLimitProxy: rateLimitProxy,
		clock:          clock,
		config:         cfg,
	}
}

// GetAccount fetches a single account
func (c *SolanaClient) GetAccount(ctx context.Context, address domain.Key) ([]byte, error) {
	data, err := call(ctx, c, "getAccountInfo", func(ctx context.Context) ([]byte, error) {
		return c.rpc.GetAccountData(ctx, address)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get account %s: %w", domain.ErrFetchFailure, address, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s has no data", domain.ErrAccountNotFound, address)
	}

	return data, nil
}

// GetMultipleAccounts fetches accounts in chunks of the configured batch size
func (c *SolanaClient) GetMultipleAccounts(ctx context.Context, addresses []domain.Key) ([][]byte, error) {
	results := make([][]byte, 0, len(addresses))

	for start := 0; start < len(addresses); start += c.config.BatchSize {
		end := min(start+c.config.BatchSize, len(addresses))
		chunk := addresses[start:end]

		data, err := call(ctx, c, "getMultipleAccounts", func(ctx context.Context) ([][]byte, error) {
			return c.rpc.GetMultipleAccountsData(ctx, chunk)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: get multiple accounts [%d:%d]: %w", domain.ErrFetchFailure, start, end, err)
		}
		if len(data) != len(chunk) {
			return nil, fmt.Errorf("%w: got %d accounts for %d addresses", domain.ErrFetchFailure, len(data), len(chunk))
		}

		for _, d := range data {
			if len(d) == 0 {
				d = nil
			}
			results = append(results, d)
		}
	}

	return results, nil
}

// ScanProgramAccounts lists program accounts matching the filter
func (c *SolanaClient) ScanProgramAccounts(ctx context.Context, filter domain.ScanFilter) ([]domain.RawAccount, error) {
	accounts, err := call(ctx, c, "getProgramAccounts", func(ctx context.Context) ([]domain.RawAccount, error) {
		return c.rpc.GetProgramAccountsData(ctx, c.config.ProgramID, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan program accounts: %w", domain.ErrFetchFailure, err)
	}

	logger.DebugCtx(ctx, "Scanned program accounts",
		zap.Uint64("data_size", filter.DataSize),
		zap.Uint64("offset", filter.Offset),
		zap.Int("accounts", len(accounts)),
	)

	return accounts, nil
}

// call runs an RPC method through the rate limit proxy with exponential backoff.
// domain.ErrAccountNotFound is not retried.
func call[T any](ctx context.Context, c *SolanaClient, method string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := c.clock.Now()

	var result T
	operation := func() error {
		actx := ctx
		if c.config.RequestTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
			defer cancel()
		}

		var err error
		result, err = ratelimit.Request(actx, c.rateLimitProxy, ratelimit.ProviderSolana, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, ratelimit.ErrProxyClosed) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "RPC call failed, retrying",
			zap.String("method", method),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(newBackOff(c.config.Retry), ctx), notify)

	outcome := metrics.Outcome(err)
	if errors.Is(err, domain.ErrAccountNotFound) {
		outcome = metrics.OutcomeSuccess
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, outcome).Inc()
	metrics.RPCRequestDuration.WithLabelValues(method).Observe(c.clock.Since(start).Seconds())

	return result, err
}

func newBackOff(cfg adapter.RetryConfig) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = cfg.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	return b
}
