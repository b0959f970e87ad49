package application

import (
	"context"
	"time"

	"pricerelay-service/internal/domain"
)

// RecordStore reads shared data records from the ledger. A missing address
// yields a record with a zero owner and no data, not an error.
type RecordStore interface {
	Load(ctx context.Context, address domain.Identity) (domain.Record, error)
}

// Clock is the trusted time source. It may be unavailable.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// OracleInvoker is the capability the relay uses to call the oracle service
// across the trust boundary. The oracle may live in another process.
type OracleInvoker interface {
	GetPrice(ctx context.Context, req GetPriceRequest) (domain.PriceQuote, error)
}

// Observer receives outcome names for metrics. Implementations must be cheap.
type Observer interface {
	RelayOutcome(outcome string)
	OracleLookup(outcome string)
}

type realClock struct{}

func (realClock) Now(context.Context) (time.Time, error) { return time.Now(), nil }

// SystemClock returns the local wall clock.
func SystemClock() Clock { return realClock{} }

type nopObserver struct{}

func (nopObserver) RelayOutcome(string) {}
func (nopObserver) OracleLookup(string) {}
