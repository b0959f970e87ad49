package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
)

const pdaMarker = "ProgramDerivedAddress"

var ErrNoViableBump = errors.New("no viable bump seed for program address")

// FindProgramAddress derives a program address the way the Solana runtime does:
// sha256(seeds || bump || program || marker), walking the bump down from 255
// until the hash is not a valid ed25519 point.
func FindProgramAddress(seeds [][]byte, program Identity) (Identity, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(program[:])
		h.Write([]byte(pdaMarker))
		var candidate Identity
		copy(candidate[:], h.Sum(nil))
		if !IsOnCurve(candidate) {
			return candidate, uint8(bump), nil
		}
	}
	return Identity{}, 0, ErrNoViableBump
}

// IsOnCurve reports whether id decodes as an ed25519 point.
func IsOnCurve(id Identity) bool {
	_, err := new(edwards25519.Point).SetBytes(id[:])
	return err == nil
}

// PriceFeedAccount returns the push-oracle account holding the latest update
// for feed on the given shard.
func PriceFeedAccount(shard uint16, feed FeedID, pushOracle Identity) (Identity, error) {
	shardSeed := make([]byte, 2)
	binary.LittleEndian.PutUint16(shardSeed, shard)
	addr, _, err := FindProgramAddress([][]byte{shardSeed, feed[:]}, pushOracle)
	return addr, err
}
