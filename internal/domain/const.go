package domain

const (
	// Program constants
	DEFAULT_PROGRAM_ID = "HAbiTatJVqoCJd9asyr6RxMEdwtfrQugwp7VAFyKWb1g"
	DEFAULT_RPC_URL    = "https://api.mainnet-beta.solana.com"

	// Derivation seed tags
	SEED_PLAYER_DATA  = "player-data"
	SEED_LOCKED_KI    = "locked-ki"
	SEED_HABITAT_DATA = "habitat-data"

	// Token constants
	KI_DECIMALS      = 9
	BIPS_DENOMINATOR = 10000

	// DEFAULT_HABITAT_SYMBOL is the NFT symbol that tags habitat mints
	DEFAULT_HABITAT_SYMBOL = "HABITAT"
)
