// Package pythtest builds PriceUpdateV2 records for tests.
package pythtest

import (
	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/pyth"
)

const (
	Price    int64  = 6_543_210_000
	Conf     uint64 = 1_250_000
	Exponent int32  = -8
)

// FullyVerifiedRecord returns a fully verified update for feedHex published at publish.
func FullyVerifiedRecord(addr, owner domain.Identity, feedHex string, publish int64) domain.Record {
	feed, err := pyth.FeedIDFromHex(feedHex)
	if err != nil {
		panic(err)
	}
	u := pyth.PriceUpdate{
		WriteAuthority: domain.Identity{0x77},
		Verification:   pyth.VerificationLevel{Full: true},
		Message: pyth.PriceFeedMessage{
			FeedID:          feed,
			Price:           Price,
			Conf:            Conf,
			Exponent:        Exponent,
			PublishTime:     publish,
			PrevPublishTime: publish - 1,
			EMAPrice:        Price,
			EMAConf:         Conf,
		},
		PostedSlot: 42,
	}
	return domain.Record{Address: addr, Owner: owner, Data: u.Encode()}
}
