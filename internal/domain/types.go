package domain

// PlayerRecord is the decoded player-data account.
// Integer fields keep their raw on-chain representation; see package units for display values.
type PlayerRecord struct {
	Player                  Key
	GameAccountUID          Key
	TotalKiWithdrawn        uint64
	TotalEnergyConverted    uint64
	CurrentLockedStakeIndex uint32
	ActiveHabitat           Key
	Banned                  bool
	Active                  bool
	LastHarvestTimestamp    uint64
	NextHarvestTimestamp    uint64
	DurableNonceAccount     Key
}

// LockedStakeRecord is the decoded locked-ki account created when a harvest cycle starts
type LockedStakeRecord struct {
	Player          Key
	StartTimestamp  uint64
	EndTimestamp    uint64
	Amount          uint64
	Habitat         Key
	EnergyConverted uint64
	Index           uint32
	RoyaltyRateBips uint16
	Landlord        Key
}

// SelfHarvest reports whether the staker is also the landlord
func (r *LockedStakeRecord) SelfHarvest() bool {
	return r.Player == r.Landlord
}

// HabitatRecord is the decoded habitat-data account
type HabitatRecord struct {
	HabitatMint          Key
	Level                uint8
	Element              uint8
	Genesis              bool
	RenewalTimestamp     uint64
	ExpiryTimestamp      uint64
	NextDayTimestamp     uint64
	CrystalsRefined      uint8
	Harvester            Key
	HarvesterRoyaltyBips uint16
	TotalKiHarvested     uint64
	Durability           uint32
	TerraformCount       uint8
	Sequence             uint64
}

// Occupied reports whether a harvester is set on the habitat
func (r *HabitatRecord) Occupied() bool {
	return !r.Harvester.IsZero()
}

// RawAccount is an account address with its undecoded data
type RawAccount struct {
	Address Key
	Data    []byte
}

// ScanFilter selects program accounts by exact data size and a byte comparison at an offset
type ScanFilter struct {
	DataSize uint64
	Offset   uint64
	Bytes    []byte
}

// Asset is an NFT owned by a wallet as reported by the metadata service
type Asset struct {
	Mint   Key
	Symbol string
	Name   string
}
