package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/report"
)

var (
	landlordKey = domain.MustParseKey("So11111111111111111111111111111111111111112")
	tenantKey   = domain.MustParseKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

func TestPrintLandlordReport(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	r := &report.Report{
		QueryID:     "q-1",
		GeneratedAt: now,
		Landlord:    landlordKey,
		Habitats: []report.HabitatRow{
			{Name: "Ember Vale", Level: 3, Element: 1, Occupied: true, Harvester: tenantKey, HarvesterRoyaltyBips: 500, ExpiryTime: now.Add(48 * time.Hour)},
		},
		Tenants: []report.Tenant{
			{Player: tenantKey, Stakes: 1, PendingTotal: 5, LatestStartTime: now.Add(-2 * time.Hour)},
		},
		PendingHarvests: []report.PendingHarvest{
			{HabitatName: "Ember Vale", Player: tenantKey, Amount: 5, RoyaltyRateBips: 500, LandlordShare: 0.25, TenantShare: 4.75, EndTime: now.Add(time.Hour)},
		},
		TotalLandlordShareExact: decimal.RequireFromString("0.25"),
		ClampedTimestamps:       1,
	}

	var buf bytes.Buffer
	require.NoError(t, printLandlordReport(&buf, r, now))

	out := buf.String()
	assert.Contains(t, out, "Landlord "+landlordKey.String())
	assert.Contains(t, out, "Ember Vale")
	assert.Contains(t, out, tenantKey.Short())
	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "4.7500")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "from now")
	assert.Contains(t, out, "Total landlord share: 0.25")
	assert.Contains(t, out, "1 timestamps were out of range")
	// Unresolved tenant profile
	assert.Contains(t, out, "?")
}

func TestPrintHarvesterReport(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	r := &report.HarvesterReport{
		QueryID: "q-2",
		Player: report.PlayerSummary{
			Player:                  tenantKey,
			Active:                  true,
			CurrentLockedStakeIndex: 2,
			TotalKiWithdrawn:        12.5,
		},
		Harvests: []report.PendingHarvest{
			{Index: 0, HabitatName: "Own", Player: tenantKey, Amount: 2, SelfHarvest: true, LandlordShare: 2},
			{Index: 1, HabitatName: "Other", Player: tenantKey, Amount: 5, RoyaltyRateBips: 500, LandlordShare: 0.25, TenantShare: 4.75},
		},
		TotalAmount:        7,
		TotalLandlordShare: 2.25,
		TotalTenantShare:   4.75,
	}

	var buf bytes.Buffer
	require.NoError(t, printHarvesterReport(&buf, r, now))

	out := buf.String()
	assert.Contains(t, out, "Player "+tenantKey.String())
	assert.Contains(t, out, "Active habitat")
	assert.Contains(t, out, "12.5000")
	assert.Contains(t, out, "self")
	assert.Contains(t, out, "Harvests (2)")
	assert.Contains(t, out, "Total 7.0000 (landlords 2.2500, tenant 4.7500)")
	assert.NotContains(t, out, "Warning")
}

func TestRelative(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, "-", relative(time.Time{}, now))
	assert.Equal(t, "-", relative(time.Unix(0, 0), now))
	assert.Equal(t, "1 hour ago", relative(now.Add(-time.Hour), now))
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"landlord"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	assert.Error(t, err, "landlord requires exactly one address")
}
