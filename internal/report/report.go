// Package report aggregates decoded program accounts into landlord and harvester reports.
//
// Everything here is pure: callers fetch and decode, the builder only sorts, splits and sums.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// HabitatAccount is a decoded habitat-data account with its address
type HabitatAccount struct {
	Address domain.Key
	Record  *domain.HabitatRecord
}

// StakeAccount is a decoded locked-ki account with its address
type StakeAccount struct {
	Address domain.Key
	Record  *domain.LockedStakeRecord
}

// HabitatRow is one habitat owned by the landlord
type HabitatRow struct {
	Address              domain.Key
	Mint                 domain.Key
	Name                 string
	Level                uint8
	Element              uint8
	Genesis              bool
	Sequence             uint64
	Harvester            domain.Key
	Occupied             bool
	HarvesterRoyaltyBips uint16
	TotalKiHarvested     float64
	TotalKiHarvestedRaw  uint64
	Durability           uint32
	TerraformCount       uint8
	CrystalsRefined      uint8
	RenewalTime          time.Time
	ExpiryTime           time.Time
	NextDayTime          time.Time
}

// PendingHarvest is one locked stake with its royalty split
type PendingHarvest struct {
	Account         domain.Key
	Player          domain.Key
	Habitat         domain.Key
	HabitatName     string
	Index           uint32
	Amount          float64
	AmountRaw       uint64
	RoyaltyRateBips uint16
	SelfHarvest     bool
	LandlordShare   float64
	TenantShare     float64

	// Exact shares of AmountRaw
	LandlordShareExact decimal.Decimal
	TenantShareExact   decimal.Decimal

	// StartTime and EndTime are clamped for display; ordering uses the raw values
	StartTime         time.Time
	EndTime           time.Time
	StartTimestampRaw uint64
	EndTimestampRaw   uint64
}

// TenantProfile is the part of a tenant's player-data record shown next to their stakes
type TenantProfile struct {
	Active          bool
	Banned          bool
	ActiveHabitat   domain.Key
	LastHarvestTime time.Time
	NextHarvestTime time.Time
}

// Tenant aggregates the pending stakes of one player on the landlord's habitats.
// Profile is nil when the player's record could not be resolved.
type Tenant struct {
	Player            domain.Key
	PendingTotal      float64
	PendingTotalExact decimal.Decimal
	Stakes            int
	LatestStartTime   time.Time
	Profile           *TenantProfile

	latestStartRaw uint64
}

// Report is the landlord view
type Report struct {
	QueryID     string
	GeneratedAt time.Time
	Landlord    domain.Key

	Habitats        []HabitatRow
	Tenants         []Tenant
	PendingHarvests []PendingHarvest

	TotalLandlordShare      float64
	TotalLandlordShareExact decimal.Decimal

	// ClampedTimestamps counts timestamps past units.MaxTime
	ClampedTimestamps int
}

// PlayerSummary is the player-data record prepared for display
type PlayerSummary struct {
	Player                  domain.Key
	GameAccountUID          domain.Key
	ActiveHabitat           domain.Key
	Active                  bool
	Banned                  bool
	CurrentLockedStakeIndex uint32
	TotalKiWithdrawn        float64
	TotalEnergyConverted    float64
	LastHarvestTime         time.Time
	NextHarvestTime         time.Time
}

// HarvesterReport is the harvester view: the player and their locked stakes in chronological order
type HarvesterReport struct {
	QueryID     string
	GeneratedAt time.Time

	Player   PlayerSummary
	Harvests []PendingHarvest

	TotalAmount        float64
	TotalLandlordShare float64
	TotalTenantShare   float64

	ClampedTimestamps int
}
