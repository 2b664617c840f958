package dto

import (
	"time"

	apierrors "github.com/feral-file/habitat-tracker/internal/api/shared/errors"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HabitatResponse represents a habitat owned by the landlord
type HabitatResponse struct {
	Address              string    `json:"address"`
	Mint                 string    `json:"mint"`
	Name                 string    `json:"name"`
	Level                uint8     `json:"level"`
	Element              uint8     `json:"element"`
	Genesis              bool      `json:"genesis"`
	Sequence             uint64    `json:"sequence"`
	Occupied             bool      `json:"occupied"`
	Harvester            *string   `json:"harvester"`
	HarvesterRoyaltyBips uint16    `json:"harvester_royalty_bips"`
	HarvesterRoyaltyPct  float64   `json:"harvester_royalty_percent"`
	TotalKiHarvested     float64   `json:"total_ki_harvested"`
	TotalKiHarvestedRaw  string    `json:"total_ki_harvested_raw"`
	Durability           uint32    `json:"durability"`
	TerraformCount       uint8     `json:"terraform_count"`
	CrystalsRefined      uint8     `json:"crystals_refined"`
	RenewalTime          time.Time `json:"renewal_time"`
	ExpiryTime           time.Time `json:"expiry_time"`
	NextDayTime          time.Time `json:"next_day_time"`
}

// PendingHarvestResponse represents a locked stake with its royalty split
type PendingHarvestResponse struct {
	Account            string    `json:"account"`
	Player             string    `json:"player"`
	Habitat            string    `json:"habitat"`
	HabitatName        string    `json:"habitat_name"`
	Index              uint32    `json:"index"`
	Amount             float64   `json:"amount"`
	AmountExact        string    `json:"amount_exact"`
	RoyaltyRateBips    uint16    `json:"royalty_rate_bips"`
	RoyaltyRatePct     float64   `json:"royalty_rate_percent"`
	SelfHarvest        bool      `json:"self_harvest"`
	LandlordShare      float64   `json:"landlord_share"`
	LandlordShareExact string    `json:"landlord_share_exact"`
	TenantShare        float64   `json:"tenant_share"`
	TenantShareExact   string    `json:"tenant_share_exact"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
}

// TenantProfileResponse represents the player-data fields shown next to a tenant
type TenantProfileResponse struct {
	Active          bool      `json:"active"`
	Banned          bool      `json:"banned"`
	ActiveHabitat   *string   `json:"active_habitat"`
	LastHarvestTime time.Time `json:"last_harvest_time"`
	NextHarvestTime time.Time `json:"next_harvest_time"`
}

// TenantResponse represents a tenant's pending stakes on the landlord's habitats.
// Profile is null when the tenant's player record could not be resolved.
type TenantResponse struct {
	Player            string                 `json:"player"`
	PendingTotal      float64                `json:"pending_total"`
	PendingTotalExact string                 `json:"pending_total_exact"`
	Stakes            int                    `json:"stakes"`
	LatestStartTime   time.Time              `json:"latest_start_time"`
	Profile           *TenantProfileResponse `json:"profile"`
}

// LandlordReportResponse represents a landlord report
type LandlordReportResponse struct {
	QueryID                 string                   `json:"query_id"`
	GeneratedAt             time.Time                `json:"generated_at"`
	Landlord                string                   `json:"landlord"`
	Habitats                []HabitatResponse        `json:"habitats"`
	Tenants                 []TenantResponse         `json:"tenants"`
	PendingHarvests         []PendingHarvestResponse `json:"pending_harvests"`
	TotalLandlordShare      float64                  `json:"total_landlord_share"`
	TotalLandlordShareExact string                   `json:"total_landlord_share_exact"`
	ClampedTimestamps       int                      `json:"clamped_timestamps,omitempty"`
}

// PlayerResponse represents a player-data record
type PlayerResponse struct {
	Player                  string    `json:"player"`
	GameAccountUID          string    `json:"game_account_uid"`
	ActiveHabitat           *string   `json:"active_habitat"`
	Active                  bool      `json:"active"`
	Banned                  bool      `json:"banned"`
	CurrentLockedStakeIndex uint32    `json:"current_locked_stake_index"`
	TotalKiWithdrawn        float64   `json:"total_ki_withdrawn"`
	TotalEnergyConverted    float64   `json:"total_energy_converted"`
	LastHarvestTime         time.Time `json:"last_harvest_time"`
	NextHarvestTime         time.Time `json:"next_harvest_time"`
}

// HarvesterReportResponse represents a harvester report
type HarvesterReportResponse struct {
	QueryID            string                   `json:"query_id"`
	GeneratedAt        time.Time                `json:"generated_at"`
	Player             PlayerResponse           `json:"player"`
	Harvests           []PendingHarvestResponse `json:"harvests"`
	TotalAmount        float64                  `json:"total_amount"`
	TotalLandlordShare float64                  `json:"total_landlord_share"`
	TotalTenantShare   float64                  `json:"total_tenant_share"`
	ClampedTimestamps  int                      `json:"clamped_timestamps,omitempty"`
}

// SessionResponse represents the state of a query session
type SessionResponse struct {
	SessionID string                  `json:"session_id"`
	Sequence  uint64                  `json:"sequence"`
	Landlord  string                  `json:"landlord,omitempty"`
	Searching bool                    `json:"searching"`
	UpdatedAt time.Time               `json:"updated_at"`
	Report    *LandlordReportResponse `json:"report,omitempty"`
	Error     *apierrors.APIError     `json:"error,omitempty"`
}

// SubmitQueryResponse represents the response for submitting a session query
type SubmitQueryResponse struct {
	SessionID string `json:"session_id"`
	Sequence  uint64 `json:"sequence"`
}
