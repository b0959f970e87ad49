package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/pyth"
)

var errBackend = errors.New("backend down")

var (
	relayID    = domain.Identity{0xee}
	receiverID = domain.Identity{0xaa}
	accountID  = domain.Identity{0x01}
	callerID   = domain.Identity{0xc0}
)

var feedHex = strings.Repeat("ab", 32)

type fakeRecords struct {
	mu      sync.Mutex
	records map[domain.Identity]domain.Record
	err     error
	loads   int
}

func newFakeRecords(recs ...domain.Record) *fakeRecords {
	f := &fakeRecords{records: map[domain.Identity]domain.Record{}}
	for _, r := range recs {
		f.put(r)
	}
	return f
}

func (f *fakeRecords) Load(_ context.Context, addr domain.Identity) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return domain.Record{}, f.err
	}
	r, ok := f.records[addr]
	if !ok {
		return domain.Record{Address: addr}, nil
	}
	r.Data = append([]byte(nil), r.Data...)
	return r, nil
}

func (f *fakeRecords) put(r domain.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.Address] = r
}

func (f *fakeRecords) mutate(addr domain.Identity, fn func(*domain.Record)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.records[addr]
	fn(&r)
	f.records[addr] = r
}

type fakeClock struct {
	t   time.Time
	err error
}

func (f fakeClock) Now(context.Context) (time.Time, error) { return f.t, f.err }

// fakeInvoker stands in for the oracle across the boundary; sideEffect runs
// before the result is returned, modelling a callee that touches the record.
type fakeInvoker struct {
	quote      domain.PriceQuote
	err        error
	calls      int
	last       GetPriceRequest
	sideEffect func()
}

func (f *fakeInvoker) GetPrice(_ context.Context, req GetPriceRequest) (domain.PriceQuote, error) {
	f.calls++
	f.last = req
	if f.sideEffect != nil {
		f.sideEffect()
	}
	return f.quote, f.err
}

type countingObserver struct {
	relay  map[string]int
	oracle map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{relay: map[string]int{}, oracle: map[string]int{}}
}

func (o *countingObserver) RelayOutcome(s string) { o.relay[s]++ }
func (o *countingObserver) OracleLookup(s string) { o.oracle[s]++ }

func priceRecord(publish int64, full bool) domain.Record {
	feed, _ := pyth.FeedIDFromHex(feedHex)
	u := pyth.PriceUpdate{
		WriteAuthority: domain.Identity{0x77},
		Verification:   pyth.VerificationLevel{Full: full, NumSignatures: 3},
		Message: pyth.PriceFeedMessage{
			FeedID:      feed,
			Price:       6_543_210_000,
			Conf:        1_250_000,
			Exponent:    -8,
			PublishTime: publish,
		},
		PostedSlot: 42,
	}
	return domain.Record{Address: accountID, Owner: receiverID, Data: u.Encode()}
}
