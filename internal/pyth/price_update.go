// Package pyth reads Pyth PriceUpdateV2 accounts: the signed price record the
// receiver program posts on chain. Signatures are verified by the receiver
// before the account is written; this package only decodes and checks freshness.
package pyth

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"pricerelay-service/internal/domain"
)

const (
	discriminatorLen = 8
	messageLen       = 32 + 8 + 8 + 4 + 8 + 8 + 8 + 8
	// AccountLen is the allocated size of a PriceUpdateV2 account.
	AccountLen = discriminatorLen + 32 + 2 + messageLen + 8
)

var (
	ErrInvalidDiscriminator   = errors.New("pyth: account discriminator mismatch")
	ErrAccountTooShort        = errors.New("pyth: account data too short")
	ErrUnknownVerification    = errors.New("pyth: unknown verification level")
	ErrWrongVerificationLevel = errors.New("pyth: insufficient verification level")
	ErrMismatchedFeedID       = errors.New("pyth: feed id mismatch")
	ErrPriceTooOld            = errors.New("pyth: price too old")
	ErrFeedIDNonHex           = errors.New("pyth: feed id is not hex")
	ErrFeedIDLength           = errors.New("pyth: feed id must be 32 bytes")
)

// Discriminator is the Anchor account tag of PriceUpdateV2.
var Discriminator = func() [discriminatorLen]byte {
	sum := sha256.Sum256([]byte("account:PriceUpdateV2"))
	var d [discriminatorLen]byte
	copy(d[:], sum[:discriminatorLen])
	return d
}()

// VerificationLevel records how many guardian signatures backed the update.
// Full means the full quorum was checked.
type VerificationLevel struct {
	Full          bool
	NumSignatures uint8
}

func (v VerificationLevel) gte(other VerificationLevel) bool {
	if v.Full {
		return true
	}
	if other.Full {
		return false
	}
	return v.NumSignatures >= other.NumSignatures
}

// PriceFeedMessage is one timestamped observation for a feed.
type PriceFeedMessage struct {
	FeedID          domain.FeedID
	Price           int64
	Conf            uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	EMAPrice        int64
	EMAConf         uint64
}

func (m PriceFeedMessage) Quote() domain.PriceQuote {
	return domain.PriceQuote{
		Price:       m.Price,
		Conf:        m.Conf,
		Exponent:    m.Exponent,
		PublishTime: m.PublishTime,
	}
}

// PriceUpdate is a decoded PriceUpdateV2 account.
type PriceUpdate struct {
	WriteAuthority domain.Identity
	Verification   VerificationLevel
	Message        PriceFeedMessage
	PostedSlot     uint64
}

// Observations lists every price message carried by the record.
func (u PriceUpdate) Observations() []PriceFeedMessage {
	return []PriceFeedMessage{u.Message}
}

// FeedIDFromHex decodes a 32-byte feed id, accepting an optional 0x prefix.
func FeedIDFromHex(s string) (domain.FeedID, error) {
	var id domain.FeedID
	s = domain.NormalizeFeedIDHex(s)
	if len(s) != hex.EncodedLen(len(id)) {
		return id, ErrFeedIDLength
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return domain.FeedID{}, fmt.Errorf("%w: %v", ErrFeedIDNonHex, err)
	}
	return id, nil
}

// Decode parses account data. Trailing bytes past the posted slot are ignored.
func Decode(data []byte) (PriceUpdate, error) {
	var u PriceUpdate
	r := reader{buf: data}

	disc := r.bytes(discriminatorLen)
	if r.err != nil {
		return u, r.err
	}
	if [discriminatorLen]byte(disc) != Discriminator {
		return u, ErrInvalidDiscriminator
	}
	copy(u.WriteAuthority[:], r.bytes(32))

	switch tag := r.u8(); tag {
	case 0:
		u.Verification = VerificationLevel{NumSignatures: r.u8()}
	case 1:
		u.Verification = VerificationLevel{Full: true}
	default:
		return u, fmt.Errorf("%w: %d", ErrUnknownVerification, tag)
	}

	m := &u.Message
	copy(m.FeedID[:], r.bytes(32))
	m.Price = int64(r.u64())
	m.Conf = r.u64()
	m.Exponent = int32(r.u32())
	m.PublishTime = int64(r.u64())
	m.PrevPublishTime = int64(r.u64())
	m.EMAPrice = int64(r.u64())
	m.EMAConf = r.u64()
	u.PostedSlot = r.u64()
	if r.err != nil {
		return PriceUpdate{}, r.err
	}
	return u, nil
}

// Encode serializes the update into an AccountLen-sized buffer.
func (u PriceUpdate) Encode() []byte {
	out := make([]byte, 0, AccountLen)
	out = append(out, Discriminator[:]...)
	out = append(out, u.WriteAuthority[:]...)
	if u.Verification.Full {
		out = append(out, 1)
	} else {
		out = append(out, 0, u.Verification.NumSignatures)
	}
	m := u.Message
	out = append(out, m.FeedID[:]...)
	out = binary.LittleEndian.AppendUint64(out, uint64(m.Price))
	out = binary.LittleEndian.AppendUint64(out, m.Conf)
	out = binary.LittleEndian.AppendUint32(out, uint32(m.Exponent))
	out = binary.LittleEndian.AppendUint64(out, uint64(m.PublishTime))
	out = binary.LittleEndian.AppendUint64(out, uint64(m.PrevPublishTime))
	out = binary.LittleEndian.AppendUint64(out, uint64(m.EMAPrice))
	out = binary.LittleEndian.AppendUint64(out, m.EMAConf)
	out = binary.LittleEndian.AppendUint64(out, u.PostedSlot)
	for len(out) < AccountLen {
		out = append(out, 0)
	}
	return out
}

// GetPriceNoOlderThan returns the freshest fully verified observation for feed
// whose publish time is within maxAge seconds of now. The bound is inclusive.
func (u PriceUpdate) GetPriceNoOlderThan(now int64, maxAge uint64, feed domain.FeedID) (domain.PriceQuote, error) {
	if !u.Verification.gte(VerificationLevel{Full: true}) {
		return domain.PriceQuote{}, ErrWrongVerificationLevel
	}
	var (
		best  PriceFeedMessage
		found bool
	)
	for _, m := range u.Observations() {
		if m.FeedID != feed {
			continue
		}
		if !found || m.PublishTime > best.PublishTime {
			best, found = m, true
		}
	}
	if !found {
		return domain.PriceQuote{}, ErrMismatchedFeedID
	}
	if saturatingAdd(best.PublishTime, maxAge) < now {
		return domain.PriceQuote{}, fmt.Errorf("%w: published %d, now %d, max age %d", ErrPriceTooOld, best.PublishTime, now, maxAge)
	}
	return best.Quote(), nil
}

func saturatingAdd(t int64, d uint64) int64 {
	if d > math.MaxInt64 || t > math.MaxInt64-int64(d) {
		return math.MaxInt64
	}
	return t + int64(d)
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrAccountTooShort, n, r.off, len(r.buf))
		return make([]byte, n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8   { return r.bytes(1)[0] }
func (r *reader) u32() uint32 { return binary.LittleEndian.Uint32(r.bytes(4)) }
func (r *reader) u64() uint64 { return binary.LittleEndian.Uint64(r.bytes(8)) }
