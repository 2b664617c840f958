package dto

import (
	"strconv"

	apierrors "github.com/feral-file/habitat-tracker/internal/api/shared/errors"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/report"
	"github.com/feral-file/habitat-tracker/internal/session"
	"github.com/feral-file/habitat-tracker/internal/units"
)

// optionalKey maps the zero key to nil
func optionalKey(k domain.Key) *string {
	if k.IsZero() {
		return nil
	}
	s := k.String()
	return &s
}

// MapLandlordReportToDTO maps a landlord report to its response
func MapLandlordReportToDTO(r *report.Report) *LandlordReportResponse {
	resp := &LandlordReportResponse{
		QueryID:                 r.QueryID,
		GeneratedAt:             r.GeneratedAt,
		Landlord:                r.Landlord.String(),
		Habitats:                make([]HabitatResponse, len(r.Habitats)),
		Tenants:                 make([]TenantResponse, len(r.Tenants)),
		PendingHarvests:         mapPendingHarvests(r.PendingHarvests),
		TotalLandlordShare:      r.TotalLandlordShare,
		TotalLandlordShareExact: r.TotalLandlordShareExact.String(),
		ClampedTimestamps:       r.ClampedTimestamps,
	}

	for i, h := range r.Habitats {
		resp.Habitats[i] = HabitatResponse{
			Address:              h.Address.String(),
			Mint:                 h.Mint.String(),
			Name:                 h.Name,
			Level:                h.Level,
			Element:              h.Element,
			Genesis:              h.Genesis,
			Sequence:             h.Sequence,
			Occupied:             h.Occupied,
			Harvester:            optionalKey(h.Harvester),
			HarvesterRoyaltyBips: h.HarvesterRoyaltyBips,
			HarvesterRoyaltyPct:  units.Percent(h.HarvesterRoyaltyBips),
			TotalKiHarvested:     h.TotalKiHarvested,
			TotalKiHarvestedRaw:  strconv.FormatUint(h.TotalKiHarvestedRaw, 10),
			Durability:           h.Durability,
			TerraformCount:       h.TerraformCount,
			CrystalsRefined:      h.CrystalsRefined,
			RenewalTime:          h.RenewalTime,
			ExpiryTime:           h.ExpiryTime,
			NextDayTime:          h.NextDayTime,
		}
	}

	for i, t := range r.Tenants {
		resp.Tenants[i] = TenantResponse{
			Player:            t.Player.String(),
			PendingTotal:      t.PendingTotal,
			PendingTotalExact: t.PendingTotalExact.String(),
			Stakes:            t.Stakes,
			LatestStartTime:   t.LatestStartTime,
		}
		if t.Profile != nil {
			resp.Tenants[i].Profile = &TenantProfileResponse{
				Active:          t.Profile.Active,
				Banned:          t.Profile.Banned,
				ActiveHabitat:   optionalKey(t.Profile.ActiveHabitat),
				LastHarvestTime: t.Profile.LastHarvestTime,
				NextHarvestTime: t.Profile.NextHarvestTime,
			}
		}
	}

	return resp
}

// MapHarvesterReportToDTO maps a harvester report to its response
func MapHarvesterReportToDTO(r *report.HarvesterReport) *HarvesterReportResponse {
	p := r.Player
	return &HarvesterReportResponse{
		QueryID:     r.QueryID,
		GeneratedAt: r.GeneratedAt,
		Player: PlayerResponse{
			Player:                  p.Player.String(),
			GameAccountUID:          p.GameAccountUID.String(),
			ActiveHabitat:           optionalKey(p.ActiveHabitat),
			Active:                  p.Active,
			Banned:                  p.Banned,
			CurrentLockedStakeIndex: p.CurrentLockedStakeIndex,
			TotalKiWithdrawn:        p.TotalKiWithdrawn,
			TotalEnergyConverted:    p.TotalEnergyConverted,
			LastHarvestTime:         p.LastHarvestTime,
			NextHarvestTime:         p.NextHarvestTime,
		},
		Harvests:           mapPendingHarvests(r.Harvests),
		TotalAmount:        r.TotalAmount,
		TotalLandlordShare: r.TotalLandlordShare,
		TotalTenantShare:   r.TotalTenantShare,
		ClampedTimestamps:  r.ClampedTimestamps,
	}
}

func mapPendingHarvests(harvests []report.PendingHarvest) []PendingHarvestResponse {
	resp := make([]PendingHarvestResponse, len(harvests))
	for i, p := range harvests {
		resp[i] = PendingHarvestResponse{
			Account:            p.Account.String(),
			Player:             p.Player.String(),
			Habitat:            p.Habitat.String(),
			HabitatName:        p.HabitatName,
			Index:              p.Index,
			Amount:             p.Amount,
			AmountExact:        units.AmountDecimal(p.AmountRaw).String(),
			RoyaltyRateBips:    p.RoyaltyRateBips,
			RoyaltyRatePct:     units.Percent(p.RoyaltyRateBips),
			SelfHarvest:        p.SelfHarvest,
			LandlordShare:      p.LandlordShare,
			LandlordShareExact: p.LandlordShareExact.String(),
			TenantShare:        p.TenantShare,
			TenantShareExact:   p.TenantShareExact.String(),
			StartTime:          p.StartTime,
			EndTime:            p.EndTime,
		}
	}
	return resp
}

// MapSessionToDTO maps a session snapshot to its response.
// A failed query is reported in Error with the same code the synchronous endpoints use.
func MapSessionToDTO(s session.State) *SessionResponse {
	resp := &SessionResponse{
		SessionID: s.SessionID,
		Sequence:  s.Sequence,
		Landlord:  s.Landlord,
		Searching: s.Searching,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Report != nil {
		resp.Report = MapLandlordReportToDTO(s.Report)
	}
	if s.Err != nil {
		_, resp.Error = apierrors.FromError(s.Err)
	}
	return resp
}
