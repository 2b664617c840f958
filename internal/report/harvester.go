package report

import (
	"time"

	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/units"
)

// BuildHarvests prepares the harvester view.
// Stakes must already be in chronological order. A stake is a self harvest when the player
// staked on their own habitat.
func BuildHarvests(player *domain.PlayerRecord, stakes []StakeAccount) *HarvesterReport {
	// Row conversion is shared with the landlord view
	b := NewBuilder(player.Player)

	r := &HarvesterReport{
		Player: PlayerSummary{
			Player:                  player.Player,
			GameAccountUID:          player.GameAccountUID,
			ActiveHabitat:           player.ActiveHabitat,
			Active:                  player.Active,
			Banned:                  player.Banned,
			CurrentLockedStakeIndex: player.CurrentLockedStakeIndex,
			TotalKiWithdrawn:        units.Amount(player.TotalKiWithdrawn),
			TotalEnergyConverted:    units.Amount(player.TotalEnergyConverted),
			LastHarvestTime:         b.timestamp(player.LastHarvestTimestamp),
			NextHarvestTime:         b.timestamp(player.NextHarvestTimestamp),
		},
		Harvests: make([]PendingHarvest, 0, len(stakes)),
	}

	for _, s := range stakes {
		if s.Record == nil {
			continue
		}
		row := b.pendingHarvest(s.Address, s.Record, s.Record.SelfHarvest())
		r.Harvests = append(r.Harvests, row)

		r.TotalAmount += row.Amount
		r.TotalLandlordShare += row.LandlordShare
		r.TotalTenantShare += row.TenantShare
	}

	r.ClampedTimestamps = b.clamped
	return r
}

// Latest returns the most recent harvest, or nil when there are none
func (r *HarvesterReport) Latest() *PendingHarvest {
	if len(r.Harvests) == 0 {
		return nil
	}
	return &r.Harvests[len(r.Harvests)-1]
}

// Unlocked reports whether the stake end time has passed
func (p *PendingHarvest) Unlocked(now time.Time) bool {
	return !p.EndTime.After(now)
}
