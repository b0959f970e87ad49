package domain

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Identity is a 32-byte ledger key (account address or program id),
// written in base58 like every Solana public key.
type Identity [32]byte

// ParseIdentity decodes a base58 key. The input must decode to exactly 32 bytes.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	if s == "" {
		return id, fmt.Errorf("%w: empty", ErrInvalidIdentity)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("%w: decoded length %d", ErrInvalidIdentity, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MustIdentity is ParseIdentity for constants; it panics on bad input.
func MustIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) String() string { return base58.Encode(id[:]) }

func (id Identity) IsZero() bool { return id == Identity{} }

func (id Identity) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *Identity) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
