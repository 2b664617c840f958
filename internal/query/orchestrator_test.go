package query_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/habitat-tracker/internal/codec"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/mocks"
	"github.com/feral-file/habitat-tracker/internal/pda"
	"github.com/feral-file/habitat-tracker/internal/query"
)

const stakeAccountSize = 1000

var (
	programID = domain.MustParseKey(domain.DEFAULT_PROGRAM_ID)
	deriver   = pda.New(programID)

	landlord    = domain.MustParseKey("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	tenant      = domain.MustParseKey("So11111111111111111111111111111111111111112")
	newTenant   = domain.MustParseKey("SysvarC1ock11111111111111111111111111111111")
	habitatMint = domain.MustParseKey("Stake11111111111111111111111111111111111111")
	otherMint   = domain.MustParseKey("Vote111111111111111111111111111111111111111")

	now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	header = [codec.HeaderSize]byte{1, 2, 3, 4, 5, 6, 7, 8}
)

type testMocks struct {
	ctrl     *gomock.Controller
	solana   *mocks.MockSolanaClient
	metadata *mocks.MockMetadataClient
	clock    *mocks.MockClock
}

func setupTest(t *testing.T) (*testMocks, query.Orchestrator) {
	ctrl := gomock.NewController(t)

	tm := &testMocks{
		ctrl:     ctrl,
		solana:   mocks.NewMockSolanaClient(ctrl),
		metadata: mocks.NewMockMetadataClient(ctrl),
		clock:    mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()

	o := query.NewOrchestrator(deriver, tm.solana, tm.metadata, tm.clock, query.Config{
		LockedStakeAccountSize: stakeAccountSize,
		LandlordOffset:         codec.LandlordOffset,
		HabitatSymbol:          "HABITAT",
		Concurrency:            2,
	})
	t.Cleanup(o.Close)

	return tm, o
}

func mustDerive(k domain.Key, err error) domain.Key {
	if err != nil {
		panic(err)
	}
	return k
}

func stakeData(t *testing.T, player domain.Key, amount uint64, bips uint16, end uint64, size int) []byte {
	t.Helper()
	data, err := codec.EncodeLockedStake(header, &domain.LockedStakeRecord{
		Player:          player,
		StartTimestamp:  end - 100,
		EndTimestamp:    end,
		Amount:          amount,
		Habitat:         habitatMint,
		RoyaltyRateBips: bips,
		Landlord:        landlord,
	}, make([]byte, size-codec.LockedStakeSchema.Len()))
	require.NoError(t, err)
	return data
}

func habitatData(t *testing.T) []byte {
	t.Helper()
	data, err := codec.EncodeHabitat(header, &domain.HabitatRecord{
		HabitatMint: habitatMint,
		Level:       2,
		Harvester:   tenant,
		Sequence:    7,
	}, nil)
	require.NoError(t, err)
	return data
}

func playerData(t *testing.T, p *domain.PlayerRecord) []byte {
	t.Helper()
	data, err := codec.EncodePlayer(header, p, nil)
	require.NoError(t, err)
	return data
}

func stakeFilter() domain.ScanFilter {
	return domain.ScanFilter{
		DataSize: stakeAccountSize,
		Offset:   uint64(codec.LandlordOffset),
		Bytes:    landlord.Bytes(),
	}
}

func TestLandlordReport(t *testing.T) {
	tm, o := setupTest(t)

	habitatAddress := mustDerive(deriver.HabitatData(habitatMint))
	tenantPlayer := mustDerive(deriver.PlayerData(tenant))
	newTenantPlayer := mustDerive(deriver.PlayerData(newTenant))

	tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return([]domain.Asset{
		{Mint: habitatMint, Symbol: "HABITAT", Name: "Habitat #7"},
		{Mint: otherMint, Symbol: "KI", Name: "Ki"},
	}, nil)
	tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), []domain.Key{habitatAddress}).Return([][]byte{habitatData(t)}, nil)
	tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return([]domain.RawAccount{
		{Address: domain.Key{1}, Data: stakeData(t, tenant, 5_000_000_000, 500, 3000, stakeAccountSize)},
		{Address: domain.Key{2}, Data: stakeData(t, landlord, 1_000_000_000, 500, 2000, stakeAccountSize)},
		{Address: domain.Key{3}, Data: stakeData(t, newTenant, 2_000_000_000, 1000, 1000, stakeAccountSize)},
	}, nil)
	tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), []domain.Key{tenantPlayer, newTenantPlayer}).Return([][]byte{
		playerData(t, &domain.PlayerRecord{Player: tenant, Active: true, LastHarvestTimestamp: 1700000000}),
		nil,
	}, nil)

	r, err := o.LandlordReport(context.Background(), landlord.String())
	require.NoError(t, err)

	assert.NotEmpty(t, r.QueryID)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, landlord, r.Landlord)

	require.Len(t, r.Habitats, 1)
	assert.Equal(t, "Habitat #7", r.Habitats[0].Name)
	assert.Equal(t, habitatAddress, r.Habitats[0].Address)
	assert.True(t, r.Habitats[0].Occupied)

	require.Len(t, r.PendingHarvests, 3)
	assert.Equal(t, domain.Key{3}, r.PendingHarvests[0].Account)
	assert.Equal(t, domain.Key{2}, r.PendingHarvests[1].Account)
	assert.Equal(t, domain.Key{1}, r.PendingHarvests[2].Account)
	assert.Equal(t, "Habitat #7", r.PendingHarvests[2].HabitatName)
	assert.True(t, r.PendingHarvests[1].SelfHarvest)

	require.Len(t, r.Tenants, 2)
	assert.Equal(t, tenant, r.Tenants[0].Player)
	require.NotNil(t, r.Tenants[0].Profile)
	assert.True(t, r.Tenants[0].Profile.Active)
	assert.Equal(t, newTenant, r.Tenants[1].Player)
	assert.Nil(t, r.Tenants[1].Profile)

	// 0.25 + 1.0 + 0.2
	assert.InDelta(t, 1.45, r.TotalLandlordShare, 1e-9)
	assert.Equal(t, "1.45", r.TotalLandlordShareExact.String())
}

func TestLandlordReport_InvalidAddress(t *testing.T) {
	_, o := setupTest(t)

	_, err := o.LandlordReport(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestLandlordReport_Empty(t *testing.T) {
	tm, o := setupTest(t)

	tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, nil)
	tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return(nil, nil)

	r, err := o.LandlordReport(context.Background(), landlord.String())
	require.NoError(t, err)
	assert.Empty(t, r.Habitats)
	assert.Empty(t, r.Tenants)
	assert.Empty(t, r.PendingHarvests)
	assert.Zero(t, r.TotalLandlordShare)
}

func TestLandlordReport_FatalFailures(t *testing.T) {
	fetchErr := fmt.Errorf("%w: connection reset", domain.ErrFetchFailure)

	tests := []struct {
		name    string
		setup   func(tm *testMocks)
		wantErr error
	}{
		{
			name: "metadata failure",
			setup: func(tm *testMocks) {
				tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, fetchErr)
				tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantErr: domain.ErrFetchFailure,
		},
		{
			name: "habitat fetch failure",
			setup: func(tm *testMocks) {
				tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return([]domain.Asset{{Mint: habitatMint, Symbol: "HABITAT"}}, nil)
				tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), gomock.Any()).Return(nil, fetchErr)
				tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantErr: domain.ErrFetchFailure,
		},
		{
			name: "scan failure",
			setup: func(tm *testMocks) {
				tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, nil).AnyTimes()
				tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return(nil, fetchErr)
			},
			wantErr: domain.ErrFetchFailure,
		},
		{
			name: "stake of unexpected size",
			setup: func(tm *testMocks) {
				tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, nil).AnyTimes()
				tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return([]domain.RawAccount{
					{Address: domain.Key{1}, Data: stakeData(t, tenant, 1, 0, 1000, 1040)},
				}, nil)
			},
			wantErr: domain.ErrSchemaMismatch,
		},
		{
			name: "truncated habitat",
			setup: func(tm *testMocks) {
				tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return([]domain.Asset{{Mint: habitatMint, Symbol: "HABITAT"}}, nil)
				tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), gomock.Any()).Return([][]byte{habitatData(t)[:40]}, nil)
				tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantErr: domain.ErrTruncatedBuffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, o := setupTest(t)
			tt.setup(tm)

			r, err := o.LandlordReport(context.Background(), landlord.String())
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLandlordReport_TenantLookupDegrades(t *testing.T) {
	tm, o := setupTest(t)

	tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, nil)
	tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return([]domain.RawAccount{
		{Address: domain.Key{1}, Data: stakeData(t, tenant, 5_000_000_000, 500, 3000, stakeAccountSize)},
	}, nil)
	tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), gomock.Any()).Return(nil, errors.New("rpc unavailable"))

	r, err := o.LandlordReport(context.Background(), landlord.String())
	require.NoError(t, err)
	require.Len(t, r.Tenants, 1)
	assert.Nil(t, r.Tenants[0].Profile)
	assert.InDelta(t, 4.75, r.Tenants[0].PendingTotal, 1e-12)
}

func TestLandlordReport_CorruptTenantRecordDegrades(t *testing.T) {
	tm, o := setupTest(t)

	tm.metadata.EXPECT().ListAssets(gomock.Any(), landlord).Return(nil, nil)
	tm.solana.EXPECT().ScanProgramAccounts(gomock.Any(), stakeFilter()).Return([]domain.RawAccount{
		{Address: domain.Key{1}, Data: stakeData(t, tenant, 1, 0, 3000, stakeAccountSize)},
	}, nil)
	tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), gomock.Any()).Return([][]byte{{0, 1, 2}}, nil)

	r, err := o.LandlordReport(context.Background(), landlord.String())
	require.NoError(t, err)
	require.Len(t, r.Tenants, 1)
	assert.Nil(t, r.Tenants[0].Profile)
}

func TestHarvesterReport(t *testing.T) {
	tm, o := setupTest(t)

	playerAddress := mustDerive(deriver.PlayerData(tenant))
	stakeAddresses := []domain.Key{
		mustDerive(deriver.LockedStake(tenant, 2)),
		mustDerive(deriver.LockedStake(tenant, 1)),
		mustDerive(deriver.LockedStake(tenant, 0)),
	}

	newest := stakeData(t, tenant, 3_000_000_000, 500, 3000, codec.LockedStakeSchema.Len())
	oldest := stakeData(t, tenant, 1_000_000_000, 500, 1000, codec.LockedStakeSchema.Len())

	tm.solana.EXPECT().GetAccount(gomock.Any(), playerAddress).Return(playerData(t, &domain.PlayerRecord{
		Player:                  tenant,
		Active:                  true,
		CurrentLockedStakeIndex: 3,
	}), nil)
	tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), stakeAddresses).Return([][]byte{newest, nil, oldest}, nil)

	r, err := o.HarvesterReport(context.Background(), tenant.String())
	require.NoError(t, err)

	assert.NotEmpty(t, r.QueryID)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, tenant, r.Player.Player)
	assert.Equal(t, uint32(3), r.Player.CurrentLockedStakeIndex)

	require.Len(t, r.Harvests, 2)
	assert.Equal(t, stakeAddresses[2], r.Harvests[0].Account, "oldest first")
	assert.Equal(t, stakeAddresses[0], r.Harvests[1].Account)
	assert.InDelta(t, 4.0, r.TotalAmount, 1e-12)
}

func TestHarvesterReport_NoStakes(t *testing.T) {
	tm, o := setupTest(t)

	tm.solana.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(playerData(t, &domain.PlayerRecord{Player: tenant}), nil)

	r, err := o.HarvesterReport(context.Background(), tenant.String())
	require.NoError(t, err)
	assert.Empty(t, r.Harvests)
}

func TestHarvesterReport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(tm *testMocks)
		wantErr error
	}{
		{
			name: "player not found",
			setup: func(tm *testMocks) {
				tm.solana.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "truncated player",
			setup: func(tm *testMocks) {
				tm.solana.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(make([]byte, 20), nil)
			},
			wantErr: domain.ErrTruncatedBuffer,
		},
		{
			name: "stake fetch failure",
			setup: func(tm *testMocks) {
				tm.solana.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(playerData(t, &domain.PlayerRecord{Player: tenant, CurrentLockedStakeIndex: 1}), nil)
				tm.solana.EXPECT().GetMultipleAccounts(gomock.Any(), gomock.Any()).Return(nil, domain.ErrFetchFailure)
			},
			wantErr: domain.ErrFetchFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, o := setupTest(t)
			tt.setup(tm)

			_, err := o.HarvesterReport(context.Background(), tenant.String())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid address", func(t *testing.T) {
		_, o := setupTest(t)
		_, err := o.HarvesterReport(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}
