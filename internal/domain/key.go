package domain

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// KeySize is the byte length of an account address
const KeySize = 32

// Key is a 32-byte account address. It is a value type and can be copied freely.
type Key [KeySize]byte

// ZeroKey is the default key, used on chain to mean "none"
var ZeroKey Key

// ParseKey parses a base58 encoded address
func ParseKey(s string) (Key, error) {
	var k Key

	s = strings.TrimSpace(s)
	if s == "" {
		return k, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	b, err := base58.Decode(s)
	if err != nil {
		return k, fmt.Errorf("%w: %s: %v", ErrInvalidAddress, s, err)
	}
	if len(b) != KeySize {
		return k, fmt.Errorf("%w: %s decodes to %d bytes", ErrInvalidAddress, s, len(b))
	}

	copy(k[:], b)
	return k, nil
}

// MustParseKey parses a base58 address and panics on failure.
// Only meant for constants and tests.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// KeyFromBytes copies a 32-byte slice into a Key
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("%w: key must be %d bytes, got %d", ErrSchemaMismatch, KeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// String returns the base58 representation
func (k Key) String() string {
	return base58.Encode(k[:])
}

// Short returns the first 8 base58 characters followed by an ellipsis
func (k Key) Short() string {
	s := k.String()
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}

// IsZero reports whether the key is all zero bytes
func (k Key) IsZero() bool {
	return k == ZeroKey
}

// Bytes returns a copy of the key bytes
func (k Key) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, k[:])
	return b
}

// MarshalText implements encoding.TextMarshaler
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
