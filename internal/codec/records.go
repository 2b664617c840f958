package codec

import (
	"fmt"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// PlayerSchema is the player-data account layout
var PlayerSchema = Schema{
	Name: "PlayerData",
	Fields: []Field{
		{Name: "player", Type: PubKey},
		{Name: "gameAccountUid", Type: PubKey},
		{Name: "totalKiWithdrawn", Type: UInt64LE},
		{Name: "totalEnergyConverted", Type: UInt64LE},
		{Name: "currentLockedKiIndex", Type: UInt32LE},
		{Name: "activeHabitat", Type: PubKey},
		{Name: "banned", Type: UInt8},
		{Name: "active", Type: UInt8},
		{Name: "lastHarvestTimestamp", Type: UInt64LE},
		{Name: "nextHarvestTimestamp", Type: UInt64LE},
		{Name: "durableNonceAccount", Type: PubKey},
	},
}

// LockedStakeSchema is the locked-ki account layout
var LockedStakeSchema = Schema{
	Name: "LockedKi",
	Fields: []Field{
		{Name: "player", Type: PubKey},
		{Name: "startTimestamp", Type: UInt64LE},
		{Name: "endTimestamp", Type: UInt64LE},
		{Name: "amount", Type: UInt64LE},
		{Name: "habitat", Type: PubKey},
		{Name: "energyConverted", Type: UInt64LE},
		{Name: "indexId", Type: UInt32LE},
		{Name: "royaltyRateBips", Type: UInt16LE},
		{Name: "landlord", Type: PubKey},
	},
}

// HabitatSchema is the habitat-data account layout, up to the last field we read.
// Habitat accounts are larger; the remainder is kept as trailing bytes.
var HabitatSchema = Schema{
	Name: "HabitatData",
	Fields: []Field{
		{Name: "habitatMint", Type: PubKey},
		{Name: "level", Type: UInt8},
		{Name: "element", Type: UInt8},
		{Name: "genesis", Type: UInt8},
		{Name: "renewalTimestamp", Type: UInt64LE},
		{Name: "expiryTimestamp", Type: UInt64LE},
		{Name: "nextDayTimestamp", Type: UInt64LE},
		{Name: "crystalsRefined", Type: UInt8},
		{Name: "harvester", Type: PubKey},
		{Name: "harvesterRoyaltyBips", Type: UInt16LE},
		{Name: "totalKiHarvested", Type: UInt64LE},
		{Name: "durability", Type: UInt32LE},
		{Name: "terraformCount", Type: UInt8},
		{Name: "sequence", Type: UInt64LE},
	},
}

// LandlordOffset is the account offset of the landlord key in a locked-ki account
var LandlordOffset = mustOffset(LockedStakeSchema, "landlord")

func mustOffset(s Schema, name string) int {
	offset, err := s.Offset(name)
	if err != nil {
		panic(err)
	}
	return offset
}

// fieldReader reads typed fields from a record and keeps the first error
type fieldReader struct {
	r   *Record
	err error
}

func (fr *fieldReader) key(name string) domain.Key {
	if fr.err != nil {
		return domain.Key{}
	}
	k, err := fr.r.Key(name)
	fr.err = err
	return k
}

func (fr *fieldReader) uint(name string, kind Kind) uint64 {
	if fr.err != nil {
		return 0
	}
	v, err := fr.r.Uint(name, kind)
	fr.err = err
	return v
}

func (fr *fieldReader) flag(name string) bool {
	return fr.uint(name, KindUint8) != 0
}

// fieldWriter is the encoding counterpart of fieldReader
type fieldWriter struct {
	r   *Record
	err error
}

func (fw *fieldWriter) key(name string, k domain.Key) {
	if fw.err == nil {
		fw.err = fw.r.SetKey(name, k)
	}
}

func (fw *fieldWriter) uint(name string, kind Kind, v uint64) {
	if fw.err == nil {
		fw.err = fw.r.SetUint(name, kind, v)
	}
}

func (fw *fieldWriter) flag(name string, b bool) {
	var v uint64
	if b {
		v = 1
	}
	fw.uint(name, KindUint8, v)
}

// DecodePlayer decodes a player-data account
func DecodePlayer(data []byte) (*domain.PlayerRecord, error) {
	r, err := PlayerSchema.Decode(data)
	if err != nil {
		return nil, err
	}

	fr := &fieldReader{r: r}
	p := &domain.PlayerRecord{
		Player:                  fr.key("player"),
		GameAccountUID:          fr.key("gameAccountUid"),
		TotalKiWithdrawn:        fr.uint("totalKiWithdrawn", KindUint64),
		TotalEnergyConverted:    fr.uint("totalEnergyConverted", KindUint64),
		CurrentLockedStakeIndex: uint32(fr.uint("currentLockedKiIndex", KindUint32)),
		ActiveHabitat:           fr.key("activeHabitat"),
		Banned:                  fr.flag("banned"),
		Active:                  fr.flag("active"),
		LastHarvestTimestamp:    fr.uint("lastHarvestTimestamp", KindUint64),
		NextHarvestTimestamp:    fr.uint("nextHarvestTimestamp", KindUint64),
		DurableNonceAccount:     fr.key("durableNonceAccount"),
	}
	if fr.err != nil {
		return nil, fr.err
	}

	return p, nil
}

// EncodePlayer encodes a player-data account with the given discriminator and trailing bytes.
// Flags are written as 0 or 1; PlayerSchema.Decode and Encode reproduce other flag bytes exactly.
func EncodePlayer(header [HeaderSize]byte, p *domain.PlayerRecord, trailing []byte) ([]byte, error) {
	r := NewRecord(PlayerSchema)
	r.Header = header
	r.Trailing = trailing

	fw := &fieldWriter{r: r}
	fw.key("player", p.Player)
	fw.key("gameAccountUid", p.GameAccountUID)
	fw.uint("totalKiWithdrawn", KindUint64, p.TotalKiWithdrawn)
	fw.uint("totalEnergyConverted", KindUint64, p.TotalEnergyConverted)
	fw.uint("currentLockedKiIndex", KindUint32, uint64(p.CurrentLockedStakeIndex))
	fw.key("activeHabitat", p.ActiveHabitat)
	fw.flag("banned", p.Banned)
	fw.flag("active", p.Active)
	fw.uint("lastHarvestTimestamp", KindUint64, p.LastHarvestTimestamp)
	fw.uint("nextHarvestTimestamp", KindUint64, p.NextHarvestTimestamp)
	fw.key("durableNonceAccount", p.DurableNonceAccount)
	if fw.err != nil {
		return nil, fw.err
	}

	return PlayerSchema.Encode(r)
}

// DecodeLockedStake decodes a locked-ki account.
// Royalty rates above 10000 basis points are rejected with ErrSchemaMismatch.
func DecodeLockedStake(data []byte) (*domain.LockedStakeRecord, error) {
	r, err := LockedStakeSchema.Decode(data)
	if err != nil {
		return nil, err
	}

	fr := &fieldReader{r: r}
	s := &domain.LockedStakeRecord{
		Player:          fr.key("player"),
		StartTimestamp:  fr.uint("startTimestamp", KindUint64),
		EndTimestamp:    fr.uint("endTimestamp", KindUint64),
		Amount:          fr.uint("amount", KindUint64),
		Habitat:         fr.key("habitat"),
		EnergyConverted: fr.uint("energyConverted", KindUint64),
		Index:           uint32(fr.uint("indexId", KindUint32)),
		RoyaltyRateBips: uint16(fr.uint("royaltyRateBips", KindUint16)),
		Landlord:        fr.key("landlord"),
	}
	if fr.err != nil {
		return nil, fr.err
	}

	if s.RoyaltyRateBips > domain.BIPS_DENOMINATOR {
		return nil, fmt.Errorf("%w: royalty rate %d bips exceeds %d", domain.ErrSchemaMismatch, s.RoyaltyRateBips, domain.BIPS_DENOMINATOR)
	}

	return s, nil
}

// DecodeLockedStakeAccount decodes a locked-ki account whose total length must equal accountSize
func DecodeLockedStakeAccount(data []byte, accountSize int) (*domain.LockedStakeRecord, error) {
	if len(data) != accountSize {
		return nil, fmt.Errorf("%w: %s account is %d bytes, expected %d", domain.ErrSchemaMismatch, LockedStakeSchema.Name, len(data), accountSize)
	}
	return DecodeLockedStake(data)
}

// EncodeLockedStake encodes a locked-ki account with the given discriminator and trailing bytes.
// Passing the bytes past LockedStakeSchema.Len() of a decoded account reproduces it exactly.
func EncodeLockedStake(header [HeaderSize]byte, s *domain.LockedStakeRecord, trailing []byte) ([]byte, error) {
	r := NewRecord(LockedStakeSchema)
	r.Header = header
	r.Trailing = trailing

	fw := &fieldWriter{r: r}
	fw.key("player", s.Player)
	fw.uint("startTimestamp", KindUint64, s.StartTimestamp)
	fw.uint("endTimestamp", KindUint64, s.EndTimestamp)
	fw.uint("amount", KindUint64, s.Amount)
	fw.key("habitat", s.Habitat)
	fw.uint("energyConverted", KindUint64, s.EnergyConverted)
	fw.uint("indexId", KindUint32, uint64(s.Index))
	fw.uint("royaltyRateBips", KindUint16, uint64(s.RoyaltyRateBips))
	fw.key("landlord", s.Landlord)
	if fw.err != nil {
		return nil, fw.err
	}

	return LockedStakeSchema.Encode(r)
}

// DecodeHabitat decodes a habitat-data account, ignoring bytes past the last known field
func DecodeHabitat(data []byte) (*domain.HabitatRecord, error) {
	r, err := HabitatSchema.Decode(data)
	if err != nil {
		return nil, err
	}

	fr := &fieldReader{r: r}
	h := &domain.HabitatRecord{
		HabitatMint:          fr.key("habitatMint"),
		Level:                uint8(fr.uint("level", KindUint8)),
		Element:              uint8(fr.uint("element", KindUint8)),
		Genesis:              fr.flag("genesis"),
		RenewalTimestamp:     fr.uint("renewalTimestamp", KindUint64),
		ExpiryTimestamp:      fr.uint("expiryTimestamp", KindUint64),
		NextDayTimestamp:     fr.uint("nextDayTimestamp", KindUint64),
		CrystalsRefined:      uint8(fr.uint("crystalsRefined", KindUint8)),
		Harvester:            fr.key("harvester"),
		HarvesterRoyaltyBips: uint16(fr.uint("harvesterRoyaltyBips", KindUint16)),
		TotalKiHarvested:     fr.uint("totalKiHarvested", KindUint64),
		Durability:           uint32(fr.uint("durability", KindUint32)),
		TerraformCount:       uint8(fr.uint("terraformCount", KindUint8)),
		Sequence:             fr.uint("sequence", KindUint64),
	}
	if fr.err != nil {
		return nil, fr.err
	}

	return h, nil
}

// EncodeHabitat encodes a habitat-data account with the given discriminator and trailing bytes
func EncodeHabitat(header [HeaderSize]byte, h *domain.HabitatRecord, trailing []byte) ([]byte, error) {
	r := NewRecord(HabitatSchema)
	r.Header = header
	r.Trailing = trailing

	fw := &fieldWriter{r: r}
	fw.key("habitatMint", h.HabitatMint)
	fw.uint("level", KindUint8, uint64(h.Level))
	fw.uint("element", KindUint8, uint64(h.Element))
	fw.flag("genesis", h.Genesis)
	fw.uint("renewalTimestamp", KindUint64, h.RenewalTimestamp)
	fw.uint("expiryTimestamp", KindUint64, h.ExpiryTimestamp)
	fw.uint("nextDayTimestamp", KindUint64, h.NextDayTimestamp)
	fw.uint("crystalsRefined", KindUint8, uint64(h.CrystalsRefined))
	fw.key("harvester", h.Harvester)
	fw.uint("harvesterRoyaltyBips", KindUint16, uint64(h.HarvesterRoyaltyBips))
	fw.uint("totalKiHarvested", KindUint64, h.TotalKiHarvested)
	fw.uint("durability", KindUint32, uint64(h.Durability))
	fw.uint("terraformCount", KindUint8, uint64(h.TerraformCount))
	fw.uint("sequence", KindUint64, h.Sequence)
	if fw.err != nil {
		return nil, fw.err
	}

	return HabitatSchema.Encode(r)
}
