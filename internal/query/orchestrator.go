// Package query runs report queries: it fetches and decodes program accounts and feeds them
// through the report builder.
package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/codec"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/metrics"
	"github.com/feral-file/habitat-tracker/internal/pda"
	"github.com/feral-file/habitat-tracker/internal/providers/metadata"
	"github.com/feral-file/habitat-tracker/internal/providers/solana"
	"github.com/feral-file/habitat-tracker/internal/report"
)

// Query kinds
const (
	KindLandlord  = "landlord"
	KindHarvester = "harvester"
)

// Degraded lookup labels
const (
	LookupTenantPlayers = "tenant_players"
	LookupTenantPlayer  = "tenant_player"
)

// Config holds the orchestrator configuration
type Config struct {
	// LockedStakeAccountSize is the exact data length of a locked-ki account
	LockedStakeAccountSize int
	// LandlordOffset is the byte offset of the landlord key inside a locked-ki account
	LandlordOffset int
	HabitatSymbol  string
	Concurrency    int
}

// Orchestrator runs report queries
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/query_orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// LandlordReport builds the habitats, tenants and pending harvests of a landlord
	LandlordReport(ctx context.Context, address string) (*report.Report, error)

	// HarvesterReport builds the player summary and locked stakes of a harvester
	HarvesterReport(ctx context.Context, address string) (*report.HarvesterReport, error)

	// Close stops the worker pool
	Close()
}

type orchestrator struct {
	deriver  *pda.Deriver
	solana   solana.Client
	metadata metadata.Client
	clock    adapter.Clock
	config   Config
	pool     pond.Pool

	closeOnce sync.Once
}

// NewOrchestrator creates a new query orchestrator
func NewOrchestrator(deriver *pda.Deriver, solanaClient solana.Client, metadataClient metadata.Client, clock adapter.Clock, cfg Config) Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.LandlordOffset == 0 {
		cfg.LandlordOffset = codec.LandlordOffset
	}
	if cfg.HabitatSymbol == "" {
		cfg.HabitatSymbol = domain.DEFAULT_HABITAT_SYMBOL
	}

	return &orchestrator{
		deriver:  deriver,
		solana:   solanaClient,
		metadata: metadataClient,
		clock:    clock,
		config:   cfg,
		pool:     pond.NewPool(cfg.Concurrency),
	}
}

// LandlordReport fetches the landlord's habitats and locked stakes concurrently, then resolves the tenants.
// Failing to fetch habitats or stakes aborts the query; tenant lookups degrade to a blank profile.
func (o *orchestrator) LandlordReport(ctx context.Context, address string) (r *report.Report, err error) {
	landlord, err := domain.ParseKey(address)
	if err != nil {
		return nil, err
	}

	queryID := uuid.NewString()
	ctx = logger.WithQuery(ctx, logger.QueryInfo{QueryID: queryID, Kind: KindLandlord, Address: landlord.String()})
	defer o.observe(ctx, KindLandlord, o.clock.Now(), &err)

	var (
		habitats []report.HabitatAccount
		names    map[domain.Key]string
		stakes   []report.StakeAccount
	)

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group := o.pool.NewGroup()
	group.SubmitErr(func() error {
		var err error
		habitats, names, err = o.fetchHabitats(gctx, landlord)
		if err != nil {
			cancel()
		}
		return err
	})
	group.SubmitErr(func() error {
		var err error
		stakes, err = o.scanStakes(gctx, landlord)
		if err != nil {
			cancel()
		}
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	b := report.NewBuilder(landlord)
	b.AddHabitats(habitats, names)
	b.AddStakes(stakes)

	players := o.fetchTenants(ctx, b.TenantKeys())

	r = b.Finalize(players)
	r.QueryID = queryID
	r.GeneratedAt = o.clock.Now().UTC()

	metrics.StakesAggregatedTotal.Add(float64(len(r.PendingHarvests)))
	metrics.TimestampsClamped.Add(float64(r.ClampedTimestamps))

	logger.InfoCtx(ctx, "Built landlord report",
		zap.Int("habitats", len(r.Habitats)),
		zap.Int("tenants", len(r.Tenants)),
		zap.Int("pending_harvests", len(r.PendingHarvests)),
	)

	return r, nil
}

// fetchHabitats lists the landlord's habitat NFTs and loads their habitat-data accounts.
// Mints without a habitat-data account are skipped.
func (o *orchestrator) fetchHabitats(ctx context.Context, landlord domain.Key) ([]report.HabitatAccount, map[domain.Key]string, error) {
	assets, err := o.metadata.ListAssets(ctx, landlord)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list habitats: %w", err)
	}

	owned := metadata.FilterBySymbol(assets, o.config.HabitatSymbol)
	if len(owned) == 0 {
		return nil, nil, nil
	}

	addresses := make([]domain.Key, len(owned))
	for i, asset := range owned {
		addresses[i], err = o.deriver.HabitatData(asset.Mint)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to derive habitat data for %s: %w", asset.Mint, err)
		}
	}

	data, err := o.solana.GetMultipleAccounts(ctx, addresses)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch habitats: %w", err)
	}

	habitats := make([]report.HabitatAccount, 0, len(data))
	for i, d := range data {
		if d == nil {
			logger.DebugCtx(ctx, "Habitat has no data account", zap.String("mint", owned[i].Mint.String()))
			continue
		}

		record, err := codec.DecodeHabitat(d)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode habitat %s: %w", addresses[i], err)
		}
		habitats = append(habitats, report.HabitatAccount{Address: addresses[i], Record: record})
	}

	return habitats, metadata.Names(owned), nil
}

// scanStakes lists every locked-ki account whose landlord field matches
func (o *orchestrator) scanStakes(ctx context.Context, landlord domain.Key) ([]report.StakeAccount, error) {
	filter := domain.ScanFilter{
		DataSize: uint64(o.config.LockedStakeAccountSize), //nolint:gosec,G115
		Offset:   uint64(o.config.LandlordOffset),         //nolint:gosec,G115
		Bytes:    landlord.Bytes(),
	}

	accounts, err := o.solana.ScanProgramAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locked stakes: %w", err)
	}

	stakes := make([]report.StakeAccount, 0, len(accounts))
	for _, account := range accounts {
		record, err := codec.DecodeLockedStakeAccount(account.Data, o.config.LockedStakeAccountSize)
		if err != nil {
			return nil, fmt.Errorf("failed to decode locked stake %s: %w", account.Address, err)
		}
		stakes = append(stakes, report.StakeAccount{Address: account.Address, Record: record})
	}

	return stakes, nil
}

// fetchTenants resolves tenant player records. It never fails: tenants that cannot be
// resolved are left out of the result and counted as degraded lookups.
func (o *orchestrator) fetchTenants(ctx context.Context, tenants []domain.Key) map[domain.Key]*domain.PlayerRecord {
	players := make(map[domain.Key]*domain.PlayerRecord, len(tenants))
	if len(tenants) == 0 {
		return players
	}

	keys := make([]domain.Key, 0, len(tenants))
	addresses := make([]domain.Key, 0, len(tenants))
	for _, tenant := range tenants {
		address, err := o.deriver.PlayerData(tenant)
		if err != nil {
			o.degrade(ctx, LookupTenantPlayer, err, zap.String("tenant", tenant.String()))
			continue
		}
		keys = append(keys, tenant)
		addresses = append(addresses, address)
	}
	if len(addresses) == 0 {
		return players
	}

	data, err := o.solana.GetMultipleAccounts(ctx, addresses)
	if err != nil {
		o.degrade(ctx, LookupTenantPlayers, err, zap.Int("tenants", len(addresses)))
		return players
	}

	for i, d := range data {
		if d == nil {
			o.degrade(ctx, LookupTenantPlayer, domain.ErrAccountNotFound, zap.String("tenant", keys[i].String()))
			continue
		}

		record, err := codec.DecodePlayer(d)
		if err != nil {
			o.degrade(ctx, LookupTenantPlayer, err, zap.String("tenant", keys[i].String()))
			continue
		}
		players[keys[i]] = record
	}

	return players
}

// HarvesterReport loads the player record and walks its locked-ki accounts from the newest index down.
// Closed stake accounts are skipped and the rest returned oldest first.
func (o *orchestrator) HarvesterReport(ctx context.Context, address string) (r *report.HarvesterReport, err error) {
	owner, err := domain.ParseKey(address)
	if err != nil {
		return nil, err
	}

	queryID := uuid.NewString()
	ctx = logger.WithQuery(ctx, logger.QueryInfo{QueryID: queryID, Kind: KindHarvester, Address: owner.String()})
	defer o.observe(ctx, KindHarvester, o.clock.Now(), &err)

	playerAddress, err := o.deriver.PlayerData(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to derive player data: %w", err)
	}

	data, err := o.solana.GetAccount(ctx, playerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", owner, err)
	}

	player, err := codec.DecodePlayer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode player %s: %w", owner, err)
	}

	stakes, err := o.fetchPlayerStakes(ctx, owner, player.CurrentLockedStakeIndex)
	if err != nil {
		return nil, err
	}

	r = report.BuildHarvests(player, stakes)
	r.QueryID = queryID
	r.GeneratedAt = o.clock.Now().UTC()

	metrics.TimestampsClamped.Add(float64(r.ClampedTimestamps))

	logger.InfoCtx(ctx, "Built harvester report",
		zap.Uint32("locked_stake_index", player.CurrentLockedStakeIndex),
		zap.Int("harvests", len(r.Harvests)),
	)

	return r, nil
}

func (o *orchestrator) fetchPlayerStakes(ctx context.Context, owner domain.Key, count uint32) ([]report.StakeAccount, error) {
	if count == 0 {
		return []report.StakeAccount{}, nil
	}

	addresses := make([]domain.Key, 0, count)
	for i := count; i > 0; i-- {
		address, err := o.deriver.LockedStake(owner, i-1)
		if err != nil {
			return nil, fmt.Errorf("failed to derive locked stake %d: %w", i-1, err)
		}
		addresses = append(addresses, address)
	}

	data, err := o.solana.GetMultipleAccounts(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locked stakes: %w", err)
	}

	stakes := make([]report.StakeAccount, 0, len(data))
	for i, d := range data {
		if d == nil {
			continue
		}

		record, err := codec.DecodeLockedStake(d)
		if err != nil {
			return nil, fmt.Errorf("failed to decode locked stake %s: %w", addresses[i], err)
		}
		stakes = append(stakes, report.StakeAccount{Address: addresses[i], Record: record})
	}

	// Fetched newest first
	slices.Reverse(stakes)

	return stakes, nil
}

func (o *orchestrator) degrade(ctx context.Context, lookup string, err error, fields ...zap.Field) {
	metrics.DegradedLookups.WithLabelValues(lookup).Inc()
	logger.WarnCtx(ctx, "Lookup degraded", append(fields, zap.String("lookup", lookup), zap.Error(err))...)
}

func (o *orchestrator) observe(ctx context.Context, kind string, start time.Time, errp *error) {
	err := *errp
	metrics.QueriesTotal.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	metrics.QueryDuration.WithLabelValues(kind).Observe(o.clock.Since(start).Seconds())

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, context.Canceled):
		logger.WarnCtx(ctx, "Query failed", zap.Error(err))
	default:
		logger.ErrorCtx(ctx, err)
	}
}

// Close stops the worker pool and waits for running queries
func (o *orchestrator) Close() {
	o.closeOnce.Do(o.pool.StopAndWait)
}
