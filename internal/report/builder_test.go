package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/report"
	"github.com/feral-file/habitat-tracker/internal/units"
)

func key(b byte) domain.Key {
	var k domain.Key
	for i := range k {
		k[i] = b
	}
	return k
}

var (
	landlord = key(1)
	tenantA  = key(2)
	tenantB  = key(3)

	habitatAddr1 = key(10)
	habitatMint1 = key(11)
	habitatAddr2 = key(20)
	habitatMint2 = key(21)
)

func stake(account byte, player domain.Key, habitat domain.Key, amount uint64, bips uint16, start, end uint64) report.StakeAccount {
	return report.StakeAccount{
		Address: key(account),
		Record: &domain.LockedStakeRecord{
			Player:          player,
			StartTimestamp:  start,
			EndTimestamp:    end,
			Amount:          amount,
			Habitat:         habitat,
			RoyaltyRateBips: bips,
			Landlord:        landlord,
		},
	}
}

func TestBuild_Empty(t *testing.T) {
	r := report.Build(report.Input{Landlord: landlord})

	assert.Equal(t, landlord, r.Landlord)
	assert.NotNil(t, r.Habitats)
	assert.Empty(t, r.Habitats)
	assert.NotNil(t, r.Tenants)
	assert.Empty(t, r.Tenants)
	assert.NotNil(t, r.PendingHarvests)
	assert.Empty(t, r.PendingHarvests)
	assert.Zero(t, r.TotalLandlordShare)
	assert.True(t, r.TotalLandlordShareExact.IsZero())
}

func TestBuild_TenantSplit(t *testing.T) {
	// 5 ki at 5% royalty
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes:   []report.StakeAccount{stake(100, tenantA, habitatMint1, 5_000_000_000, 500, 1000, 2000)},
	})

	require.Len(t, r.PendingHarvests, 1)
	p := r.PendingHarvests[0]
	assert.False(t, p.SelfHarvest)
	assert.Equal(t, 5.0, p.Amount)
	assert.InDelta(t, 0.25, p.LandlordShare, 1e-12)
	assert.InDelta(t, 4.75, p.TenantShare, 1e-12)
	assert.Equal(t, "0.25", p.LandlordShareExact.String())
	assert.Equal(t, "4.75", p.TenantShareExact.String())

	require.Len(t, r.Tenants, 1)
	assert.Equal(t, tenantA, r.Tenants[0].Player)
	assert.InDelta(t, 4.75, r.Tenants[0].PendingTotal, 1e-12)
	assert.Equal(t, 1, r.Tenants[0].Stakes)

	assert.InDelta(t, 0.25, r.TotalLandlordShare, 1e-12)
	assert.Equal(t, "0.25", r.TotalLandlordShareExact.String())
}

func TestBuild_SelfHarvest(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes:   []report.StakeAccount{stake(100, landlord, habitatMint1, 3_000_000_000, 500, 1000, 2000)},
	})

	require.Len(t, r.PendingHarvests, 1)
	p := r.PendingHarvests[0]
	assert.True(t, p.SelfHarvest)
	assert.Equal(t, 3.0, p.LandlordShare)
	assert.Zero(t, p.TenantShare)
	assert.True(t, p.TenantShareExact.IsZero())

	assert.Empty(t, r.Tenants, "self harvests do not create tenants")
	assert.Equal(t, 3.0, r.TotalLandlordShare)
}

func TestBuild_PendingSortedByEndTimeStable(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(100, tenantA, habitatMint1, 1, 0, 0, 500),
			stake(101, tenantB, habitatMint1, 1, 0, 0, 300),
			stake(102, tenantA, habitatMint1, 1, 0, 0, 500),
			stake(103, tenantB, habitatMint1, 1, 0, 0, 100),
		},
	})

	var accounts []domain.Key
	for _, p := range r.PendingHarvests {
		accounts = append(accounts, p.Account)
	}
	assert.Equal(t, []domain.Key{key(103), key(101), key(100), key(102)}, accounts)
}

func TestBuild_EqualEndTimesKeepDiscoveryOrder(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(2, tenantB, habitatMint1, 1, 0, 0, 700),
			stake(1, tenantA, habitatMint1, 1, 0, 0, 700),
		},
	})

	require.Len(t, r.PendingHarvests, 2)
	assert.Equal(t, tenantB, r.PendingHarvests[0].Player)
	assert.Equal(t, tenantA, r.PendingHarvests[1].Player)
}

func TestBuild_TenantAggregation(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(100, tenantB, habitatMint1, 2_000_000_000, 1000, 1500, 3000),
			stake(101, tenantA, habitatMint1, 1_000_000_000, 1000, 1200, 3000),
			stake(102, tenantB, habitatMint2, 4_000_000_000, 2500, 1100, 3000),
		},
	})

	require.Len(t, r.Tenants, 2)
	assert.Equal(t, tenantB, r.Tenants[0].Player, "tenants keep discovery order")
	assert.Equal(t, tenantA, r.Tenants[1].Player)

	b := r.Tenants[0]
	assert.InDelta(t, 1.8+3.0, b.PendingTotal, 1e-9)
	assert.Equal(t, "4.8", b.PendingTotalExact.String())
	assert.Equal(t, 2, b.Stakes)
	assert.Equal(t, time.Unix(1500, 0).UTC(), b.LatestStartTime)

	assert.InDelta(t, 0.2+0.1+1.0, r.TotalLandlordShare, 1e-9)
	assert.Equal(t, "1.3", r.TotalLandlordShareExact.String())
}

func TestBuild_TenantProfiles(t *testing.T) {
	players := map[domain.Key]*domain.PlayerRecord{
		tenantA: {
			Player:               tenantA,
			Active:               true,
			ActiveHabitat:        habitatAddr1,
			LastHarvestTimestamp: 1700000000,
			NextHarvestTimestamp: 1700086400,
		},
	}

	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(100, tenantA, habitatMint1, 1, 0, 0, 1),
			stake(101, tenantB, habitatMint1, 1, 0, 0, 1),
		},
		Players: players,
	})

	require.Len(t, r.Tenants, 2)
	require.NotNil(t, r.Tenants[0].Profile)
	assert.True(t, r.Tenants[0].Profile.Active)
	assert.False(t, r.Tenants[0].Profile.Banned)
	assert.Equal(t, habitatAddr1, r.Tenants[0].Profile.ActiveHabitat)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), r.Tenants[0].Profile.LastHarvestTime)
	assert.Equal(t, time.Unix(1700086400, 0).UTC(), r.Tenants[0].Profile.NextHarvestTime)

	assert.Nil(t, r.Tenants[1].Profile, "unresolved tenants keep a blank profile")
}

func TestBuild_Habitats(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Habitats: []report.HabitatAccount{
			{Address: habitatAddr2, Record: &domain.HabitatRecord{HabitatMint: habitatMint2, Sequence: 9, Harvester: tenantA}},
			{Address: habitatAddr1, Record: &domain.HabitatRecord{HabitatMint: habitatMint1, Sequence: 3, TotalKiHarvested: 1_500_000_000}},
			{Address: key(30), Record: nil},
		},
		Names: map[domain.Key]string{habitatMint2: "Habitat #2"},
		Stakes: []report.StakeAccount{
			stake(100, tenantA, habitatMint2, 1, 0, 0, 1),
			stake(101, tenantA, habitatAddr1, 1, 0, 0, 2),
			stake(102, tenantA, key(40), 1, 0, 0, 3),
		},
	})

	require.Len(t, r.Habitats, 2)
	assert.Equal(t, habitatAddr1, r.Habitats[0].Address, "habitats are ordered by sequence")
	assert.Equal(t, habitatAddr1.Short(), r.Habitats[0].Name)
	assert.False(t, r.Habitats[0].Occupied)
	assert.Equal(t, 1.5, r.Habitats[0].TotalKiHarvested)

	assert.Equal(t, "Habitat #2", r.Habitats[1].Name)
	assert.True(t, r.Habitats[1].Occupied)
	assert.Equal(t, tenantA, r.Habitats[1].Harvester)

	require.Len(t, r.PendingHarvests, 3)
	assert.Equal(t, "Habitat #2", r.PendingHarvests[0].HabitatName, "matched by mint")
	assert.Equal(t, habitatAddr1.Short(), r.PendingHarvests[1].HabitatName, "matched by address")
	assert.Equal(t, key(40).Short(), r.PendingHarvests[2].HabitatName, "unknown habitat")
}

func TestBuild_HabitatSortIsStable(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Habitats: []report.HabitatAccount{
			{Address: habitatAddr2, Record: &domain.HabitatRecord{HabitatMint: habitatMint2, Sequence: 1}},
			{Address: habitatAddr1, Record: &domain.HabitatRecord{HabitatMint: habitatMint1, Sequence: 1}},
		},
	})

	require.Len(t, r.Habitats, 2)
	assert.Equal(t, habitatAddr2, r.Habitats[0].Address)
	assert.Equal(t, habitatAddr1, r.Habitats[1].Address)
}

func TestBuild_ClampsTimestamps(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(100, tenantA, habitatMint1, 1, 0, 0, ^uint64(0)),
			stake(101, tenantA, habitatMint1, 1, 0, 0, 10),
		},
	})

	assert.Equal(t, 1, r.ClampedTimestamps)
	require.Len(t, r.PendingHarvests, 2)
	assert.Equal(t, key(101), r.PendingHarvests[0].Account)
	assert.Equal(t, units.MaxTime, r.PendingHarvests[1].EndTime)
}

func TestBuild_OrdersByRawTimestampsPastClamp(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(50, tenantA, habitatMint1, 1, 0, units.MaxUnixSeconds+2, 300_000_000_000),
			stake(51, tenantA, habitatMint1, 1, 0, units.MaxUnixSeconds+1, 260_000_000_000),
		},
	})

	require.Len(t, r.PendingHarvests, 2)
	assert.Equal(t, key(51), r.PendingHarvests[0].Account)
	assert.Equal(t, key(50), r.PendingHarvests[1].Account)
	assert.Equal(t, units.MaxTime, r.PendingHarvests[0].EndTime)
	assert.Equal(t, uint64(260_000_000_000), r.PendingHarvests[0].EndTimestampRaw)
	assert.Equal(t, 4, r.ClampedTimestamps)

	require.Len(t, r.Tenants, 1)
	assert.Equal(t, units.MaxTime, r.Tenants[0].LatestStartTime)
}

func TestBuild_LatestStartUsesRawTimestamp(t *testing.T) {
	r := report.Build(report.Input{
		Landlord: landlord,
		Stakes: []report.StakeAccount{
			stake(60, tenantA, habitatMint1, 1, 0, units.MaxUnixSeconds+5, 10),
			stake(61, tenantA, habitatMint1, 1, 0, 0, 20),
		},
	})

	require.Len(t, r.Tenants, 1)
	assert.Equal(t, units.MaxTime, r.Tenants[0].LatestStartTime)
	assert.Equal(t, 2, r.Tenants[0].Stakes)
}

func TestBuilder_Incremental(t *testing.T) {
	b := report.NewBuilder(landlord)
	b.AddHabitats(nil, nil)
	b.AddStakes([]report.StakeAccount{
		stake(100, tenantB, habitatMint1, 1, 0, 0, 1),
		stake(101, landlord, habitatMint1, 1, 0, 0, 1),
		stake(102, tenantA, habitatMint1, 1, 0, 0, 1),
		stake(103, tenantB, habitatMint1, 1, 0, 0, 1),
	})

	assert.Equal(t, []domain.Key{tenantB, tenantA}, b.TenantKeys())

	r := b.Finalize(nil)
	assert.Len(t, r.PendingHarvests, 4)
	assert.Len(t, r.Tenants, 2)
}

func TestBuild_SharesSumToAmount(t *testing.T) {
	var stakes []report.StakeAccount
	for i, bips := range []uint16{0, 1, 333, 5000, 9999, 10000} {
		stakes = append(stakes, stake(byte(100+i), tenantA, habitatMint1, 123_456_789_012, bips, 0, 1))
	}

	r := report.Build(report.Input{Landlord: landlord, Stakes: stakes})
	for _, p := range r.PendingHarvests {
		assert.InEpsilon(t, p.Amount, p.LandlordShare+p.TenantShare, 1e-9)
		assert.True(t, p.LandlordShareExact.Add(p.TenantShareExact).Equal(units.AmountDecimal(p.AmountRaw)))
	}
}
