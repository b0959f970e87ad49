package domain

import (
	"encoding/hex"
	"strings"
)

// FeedIDHexLen is the length of a feed identifier in hex form, without prefix.
const FeedIDHexLen = 64

// FeedID names a price feed.
type FeedID [32]byte

func (f FeedID) String() string { return "0x" + hex.EncodeToString(f[:]) }

// NormalizeFeedIDHex strips a single optional "0x" prefix.
func NormalizeFeedIDHex(s string) string {
	return strings.TrimPrefix(s, "0x")
}

// IsHexFeedID reports whether s (already normalized) is exactly 64 hex digits.
func IsHexFeedID(s string) bool {
	if len(s) != FeedIDHexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// MaxRelayAge is the largest staleness bound, in seconds, the relay accepts.
const MaxRelayAge uint64 = 3600
