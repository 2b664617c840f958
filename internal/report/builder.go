package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/units"
)

// Input holds every account a landlord report is built from
type Input struct {
	Landlord domain.Key
	Habitats []HabitatAccount
	Names    map[domain.Key]string
	Stakes   []StakeAccount
	Players  map[domain.Key]*domain.PlayerRecord
}

// Builder runs the three aggregation passes of one landlord report.
// A builder is owned by a single query and is not safe for concurrent use.
type Builder struct {
	landlord domain.Key

	habitats []HabitatRow
	// habitat rows indexed by both account address and mint
	habitatIndex map[domain.Key]int

	pending []PendingHarvest

	tenants     []Tenant
	tenantIndex map[domain.Key]int

	clamped int
}

// NewBuilder creates a builder for the landlord
func NewBuilder(landlord domain.Key) *Builder {
	return &Builder{
		landlord:     landlord,
		habitats:     []HabitatRow{},
		habitatIndex: make(map[domain.Key]int),
		pending:      []PendingHarvest{},
		tenants:      []Tenant{},
		tenantIndex:  make(map[domain.Key]int),
	}
}

// Build runs every pass over a complete input
func Build(in Input) *Report {
	b := NewBuilder(in.Landlord)
	b.AddHabitats(in.Habitats, in.Names)
	b.AddStakes(in.Stakes)
	return b.Finalize(in.Players)
}

// AddHabitats attaches display names and orders habitats by sequence.
// Names are keyed by mint; habitats without one are named by their abbreviated address.
func (b *Builder) AddHabitats(habitats []HabitatAccount, names map[domain.Key]string) {
	for _, h := range habitats {
		if h.Record == nil {
			continue
		}
		b.habitats = append(b.habitats, b.habitatRow(h, names))
	}

	sort.SliceStable(b.habitats, func(i, j int) bool {
		return b.habitats[i].Sequence < b.habitats[j].Sequence
	})

	clear(b.habitatIndex)
	for i, h := range b.habitats {
		b.habitatIndex[h.Address] = i
		b.habitatIndex[h.Mint] = i
	}
}

func (b *Builder) habitatRow(h HabitatAccount, names map[domain.Key]string) HabitatRow {
	r := h.Record

	name := names[r.HabitatMint]
	if name == "" {
		name = h.Address.Short()
	}

	return HabitatRow{
		Address:              h.Address,
		Mint:                 r.HabitatMint,
		Name:                 name,
		Level:                r.Level,
		Element:              r.Element,
		Genesis:              r.Genesis,
		Sequence:             r.Sequence,
		Harvester:            r.Harvester,
		Occupied:             r.Occupied(),
		HarvesterRoyaltyBips: r.HarvesterRoyaltyBips,
		TotalKiHarvested:     units.Amount(r.TotalKiHarvested),
		TotalKiHarvestedRaw:  r.TotalKiHarvested,
		Durability:           r.Durability,
		TerraformCount:       r.TerraformCount,
		CrystalsRefined:      r.CrystalsRefined,
		RenewalTime:          b.timestamp(r.RenewalTimestamp),
		ExpiryTime:           b.timestamp(r.ExpiryTimestamp),
		NextDayTime:          b.timestamp(r.NextDayTimestamp),
	}
}

// AddStakes splits every stake and accumulates tenant totals.
// Stakes are kept in the order given; tenants in the order they are first seen.
func (b *Builder) AddStakes(stakes []StakeAccount) {
	for _, s := range stakes {
		if s.Record == nil {
			continue
		}

		row := b.pendingHarvest(s.Address, s.Record, s.Record.Player == b.landlord)
		b.pending = append(b.pending, row)

		if row.SelfHarvest {
			continue
		}

		i, ok := b.tenantIndex[row.Player]
		if !ok {
			i = len(b.tenants)
			b.tenantIndex[row.Player] = i
			b.tenants = append(b.tenants, Tenant{
				Player:            row.Player,
				PendingTotalExact: decimal.Zero,
			})
		}

		t := &b.tenants[i]
		t.PendingTotal += row.TenantShare
		t.PendingTotalExact = t.PendingTotalExact.Add(row.TenantShareExact)
		t.Stakes++
		if t.Stakes == 1 || row.StartTimestampRaw > t.latestStartRaw {
			t.latestStartRaw = row.StartTimestampRaw
			t.LatestStartTime = row.StartTime
		}
	}
}

func (b *Builder) pendingHarvest(address domain.Key, s *domain.LockedStakeRecord, self bool) PendingHarvest {
	row := PendingHarvest{
		Account:         address,
		Player:          s.Player,
		Habitat:         s.Habitat,
		HabitatName:     s.Habitat.Short(),
		Index:           s.Index,
		Amount:          units.Amount(s.Amount),
		AmountRaw:       s.Amount,
		RoyaltyRateBips: s.RoyaltyRateBips,
		SelfHarvest:     self,
		StartTime:       b.timestamp(s.StartTimestamp),
		EndTime:         b.timestamp(s.EndTimestamp),

		StartTimestampRaw: s.StartTimestamp,
		EndTimestampRaw:   s.EndTimestamp,
	}

	if i, ok := b.habitatIndex[s.Habitat]; ok {
		row.HabitatName = b.habitats[i].Name
	}

	if self {
		row.LandlordShare = row.Amount
		row.LandlordShareExact = units.AmountDecimal(s.Amount)
		row.TenantShareExact = decimal.Zero
		return row
	}

	row.LandlordShare, row.TenantShare = units.Split(row.Amount, s.RoyaltyRateBips)
	row.LandlordShareExact, row.TenantShareExact = units.SplitDecimal(s.Amount, s.RoyaltyRateBips)
	return row
}

// TenantKeys returns the distinct tenants in discovery order
func (b *Builder) TenantKeys() []domain.Key {
	keys := make([]domain.Key, len(b.tenants))
	for i, t := range b.tenants {
		keys[i] = t.Player
	}
	return keys
}

// Finalize orders pending harvests by raw end timestamp, merges tenant profiles and sums the landlord share.
// Tenants missing from players keep a nil profile.
func (b *Builder) Finalize(players map[domain.Key]*domain.PlayerRecord) *Report {
	sort.SliceStable(b.pending, func(i, j int) bool {
		return b.pending[i].EndTimestampRaw < b.pending[j].EndTimestampRaw
	})

	for i := range b.tenants {
		p, ok := players[b.tenants[i].Player]
		if !ok || p == nil {
			continue
		}
		b.tenants[i].Profile = &TenantProfile{
			Active:          p.Active,
			Banned:          p.Banned,
			ActiveHabitat:   p.ActiveHabitat,
			LastHarvestTime: b.timestamp(p.LastHarvestTimestamp),
			NextHarvestTime: b.timestamp(p.NextHarvestTimestamp),
		}
	}

	total := 0.0
	totalExact := decimal.Zero
	for _, p := range b.pending {
		total += p.LandlordShare
		totalExact = totalExact.Add(p.LandlordShareExact)
	}

	return &Report{
		Landlord:                b.landlord,
		Habitats:                b.habitats,
		Tenants:                 b.tenants,
		PendingHarvests:         b.pending,
		TotalLandlordShare:      total,
		TotalLandlordShareExact: totalExact,
		ClampedTimestamps:       b.clamped,
	}
}

func (b *Builder) timestamp(sec uint64) time.Time {
	t, err := units.Timestamp(sec)
	if err != nil {
		b.clamped++
	}
	return t
}
