package pyth

import (
	"errors"
	"strings"
	"testing"

	"pricerelay-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func sampleUpdate(t *testing.T, publish int64) PriceUpdate {
	t.Helper()
	feed, err := FeedIDFromHex("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)
	return PriceUpdate{
		WriteAuthority: domain.Identity{9},
		Verification:   VerificationLevel{Full: true},
		Message: PriceFeedMessage{
			FeedID:          feed,
			Price:           6_543_210_000,
			Conf:            1_250_000,
			Exponent:        -8,
			PublishTime:     publish,
			PrevPublishTime: publish - 1,
			EMAPrice:        6_540_000_000,
			EMAConf:         1_300_000,
		},
		PostedSlot: 280_000_000,
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()
	u := sampleUpdate(t, 1_700_000_000)
	data := u.Encode()
	require.Len(t, data, AccountLen)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, u, got)

	partial := u
	partial.Verification = VerificationLevel{NumSignatures: 5}
	got, err = Decode(partial.Encode())
	require.NoError(t, err)
	require.Equal(t, partial, got)
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()
	data := sampleUpdate(t, 1).Encode()

	bad := append([]byte(nil), data...)
	bad[0] ^= 0xff
	_, err := Decode(bad)
	require.ErrorIs(t, err, ErrInvalidDiscriminator)

	_, err = Decode(data[:60])
	require.ErrorIs(t, err, ErrAccountTooShort)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrAccountTooShort)

	bad = append([]byte(nil), data...)
	bad[discriminatorLen+32] = 7
	_, err = Decode(bad)
	require.ErrorIs(t, err, ErrUnknownVerification)
}

func TestGetPriceNoOlderThan_InclusiveBoundary(t *testing.T) {
	t.Parallel()
	const published = int64(1_700_000_000)
	u := sampleUpdate(t, published)
	feed := u.Message.FeedID

	q, err := u.GetPriceNoOlderThan(published+60, 60, feed)
	require.NoError(t, err)
	require.Equal(t, u.Message.Price, q.Price)
	require.Equal(t, u.Message.Conf, q.Conf)
	require.Equal(t, u.Message.Exponent, q.Exponent)

	_, err = u.GetPriceNoOlderThan(published+61, 60, feed)
	require.ErrorIs(t, err, ErrPriceTooOld)

	// A publish time ahead of the clock is not stale.
	_, err = u.GetPriceNoOlderThan(published-10, 0, feed)
	require.NoError(t, err)
}

func TestGetPriceNoOlderThan_Rejects(t *testing.T) {
	t.Parallel()
	u := sampleUpdate(t, 100)

	var other domain.FeedID
	other[0] = 1
	_, err := u.GetPriceNoOlderThan(100, 10, other)
	require.ErrorIs(t, err, ErrMismatchedFeedID)

	u.Verification = VerificationLevel{NumSignatures: 13}
	_, err = u.GetPriceNoOlderThan(100, 10, u.Message.FeedID)
	require.ErrorIs(t, err, ErrWrongVerificationLevel)
}

func TestGetPriceNoOlderThan_HugeMaxAge(t *testing.T) {
	u := sampleUpdate(t, 100)
	_, err := u.GetPriceNoOlderThan(1<<62, ^uint64(0), u.Message.FeedID)
	require.NoError(t, err)
}

func TestFeedIDFromHex(t *testing.T) {
	t.Parallel()
	hexID := strings.Repeat("0f", 32)
	a, err := FeedIDFromHex(hexID)
	require.NoError(t, err)
	b, err := FeedIDFromHex("0x" + hexID)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, byte(0x0f), a[31])

	_, err = FeedIDFromHex(hexID[:62])
	require.True(t, errors.Is(err, ErrFeedIDLength))

	_, err = FeedIDFromHex("zz" + hexID[2:])
	require.True(t, errors.Is(err, ErrFeedIDNonHex))
}
