// Package pda derives program addresses: deterministic account addresses that sit off the
// ed25519 curve and therefore have no private key.
package pda

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed
	MaxSeedLength = 32
	// MaxBumpAttempts caps the bump search from 255 down to 0
	MaxBumpAttempts = 256
)

// ErrOnCurve is returned by CreateAddress when the hash lands on the curve
var ErrOnCurve = errors.New("derived address is on the ed25519 curve")

// IsOnCurve reports whether b is a valid compressed ed25519 point
func IsOnCurve(b []byte) bool {
	return solana.IsOnCurve(b)
}

type createFunc func(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error)

// Deriver computes program addresses for a single program
type Deriver struct {
	programID domain.Key
	create    createFunc
}

// New creates a deriver for a program id
func New(programID domain.Key) *Deriver {
	return &Deriver{
		programID: programID,
		create:    solana.CreateProgramAddress,
	}
}

// ProgramID returns the program the deriver derives for
func (d *Deriver) ProgramID() domain.Key {
	return d.programID
}

// CreateAddress derives the address of the seeds followed by the bump.
// It fails with ErrOnCurve when the result is a valid public key.
func (d *Deriver) CreateAddress(seeds [][]byte, bump uint8) (domain.Key, error) {
	if err := validateSeeds(seeds); err != nil {
		return domain.ZeroKey, err
	}

	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, []byte{bump})

	// Seeds are already validated, so the only remaining failure is an on-curve hash
	k, err := d.create(withBump, solana.PublicKey(d.programID))
	if err != nil {
		return domain.ZeroKey, fmt.Errorf("%w: bump %d: %w", ErrOnCurve, bump, err)
	}

	return domain.Key(k), nil
}

// FindAddress searches bumps from 255 down to 0 and returns the first off-curve address
func (d *Deriver) FindAddress(seeds ...[]byte) (domain.Key, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return domain.ZeroKey, 0, err
	}

	bump := 255
	for range MaxBumpAttempts {
		k, err := d.CreateAddress(seeds, uint8(bump))
		if err == nil {
			return k, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return domain.ZeroKey, 0, err
		}
		bump--
	}

	return domain.ZeroKey, 0, fmt.Errorf("%w: no off-curve address in %d attempts", domain.ErrDerivationExhausted, MaxBumpAttempts)
}

// PlayerData derives the player-data account of an owner
func (d *Deriver) PlayerData(owner domain.Key) (domain.Key, error) {
	k, _, err := d.FindAddress([]byte(domain.SEED_PLAYER_DATA), owner[:])
	return k, err
}

// LockedStake derives the locked-ki account of an owner at a sequence index
func (d *Deriver) LockedStake(owner domain.Key, index uint32) (domain.Key, error) {
	k, _, err := d.FindAddress([]byte(domain.SEED_LOCKED_KI), owner[:], IndexSeed(index))
	return k, err
}

// HabitatData derives the habitat-data account of a habitat mint
func (d *Deriver) HabitatData(mint domain.Key) (domain.Key, error) {
	k, _, err := d.FindAddress([]byte(domain.SEED_HABITAT_DATA), mint[:])
	return k, err
}

// IndexSeed encodes a sequence index as a 4-byte little-endian seed
func IndexSeed(index uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, 4), index)
}

func validateSeeds(seeds [][]byte) error {
	// The bump takes one seed slot
	if len(seeds) >= MaxSeeds {
		return fmt.Errorf("%w: %d seeds, at most %d allowed", domain.ErrMaxSeedLength, len(seeds), MaxSeeds-1)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return fmt.Errorf("%w: seed %d is %d bytes, at most %d allowed", domain.ErrMaxSeedLength, i, len(seed), MaxSeedLength)
		}
	}
	return nil
}
