package application

import (
	"context"
	"fmt"

	"pricerelay-service/internal/domain"

	"go.uber.org/zap"
)

// FetchRequest is a relay call made on behalf of Caller.
type FetchRequest struct {
	MaximumAge uint64
	FeedIDHex  string
	Record     domain.Identity
	Caller     domain.Identity
}

// FetchResult carries the quote the oracle produced. Nothing is cached.
type FetchResult struct {
	Quote domain.PriceQuote
	State domain.RequestState
}

// RelayService guards a delegated oracle call: it validates the request,
// snapshots the shared record, invokes the oracle and re-checks the snapshot.
type RelayService struct {
	identity domain.Identity
	records  RecordStore
	oracle   OracleInvoker
	log      *zap.Logger
	observer Observer
}

type RelayOption func(*RelayService)

func WithRelayLogger(l *zap.Logger) RelayOption { return func(s *RelayService) { s.log = l } }

func WithRelayObserver(o Observer) RelayOption { return func(s *RelayService) { s.observer = o } }

// NewRelayService builds a relay whose own identity is self. Records owned by
// self are refused.
func NewRelayService(self domain.Identity, records RecordStore, oracle OracleInvoker, opts ...RelayOption) *RelayService {
	s := &RelayService{identity: self, records: records, oracle: oracle}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

func (s *RelayService) Identity() domain.Identity { return s.identity }

// FetchPrice runs one request through the guard. Every gate is final: the
// first failure ends the request and nothing is retried internally.
func (s *RelayService) FetchPrice(ctx context.Context, req FetchRequest) (FetchResult, error) {
	run := &guardRun{
		state: domain.RequestStateValidating,
		log: s.log.With(
			zap.String("feed_id", req.FeedIDHex),
			zap.Uint64("maximum_age", req.MaximumAge),
			zap.Stringer("price_account", req.Record),
			zap.Stringer("caller", req.Caller),
		),
	}

	clean := domain.NormalizeFeedIDHex(req.FeedIDHex)
	if !domain.IsHexFeedID(clean) {
		return s.reject(run, ErrInvalidFeedIDFormat)
	}
	if req.MaximumAge == 0 || req.MaximumAge > domain.MaxRelayAge {
		return s.reject(run, ErrInvalidMaximumAge)
	}

	before, err := s.records.Load(ctx, req.Record)
	if err != nil {
		run.log.Error("relay.load_failed", zap.Error(err))
		return s.reject(run, fmt.Errorf("%w: load record: %v", ErrEmptyPriceAccount, err))
	}
	if before.Owner == s.identity {
		return s.reject(run, ErrInvalidPriceAccountOwner)
	}
	if before.IsEmpty() {
		return s.reject(run, ErrEmptyPriceAccount)
	}

	run.enter(domain.RequestStateSnapshotting)
	snap := before.Snapshot()

	run.enter(domain.RequestStateDelegating)
	quote, callErr := s.oracle.GetPrice(ctx, GetPriceRequest{
		MaximumAge: req.MaximumAge,
		FeedIDHex:  req.FeedIDHex,
		Record:     req.Record,
		Payer:      req.Caller,
	})

	run.enter(domain.RequestStateVerifying)
	after, err := s.records.Load(ctx, req.Record)
	if err != nil {
		return s.reject(run, fmt.Errorf("%w: reload record: %v", ErrAccountStateModified, err))
	}
	if got := after.Snapshot(); got != snap {
		run.log.Error("relay.account_state_modified",
			zap.Stringer("owner_before", snap.Owner), zap.Stringer("owner_after", got.Owner),
			zap.Int("len_before", snap.DataLen), zap.Int("len_after", got.DataLen),
			zap.Bool("empty_before", snap.IsEmpty), zap.Bool("empty_after", got.IsEmpty),
		)
		return s.reject(run, ErrAccountStateModified)
	}
	if callErr != nil {
		run.log.Warn("relay.oracle_error", zap.Error(callErr))
		return s.reject(run, ErrOracleProgram)
	}

	run.enter(domain.RequestStateSucceeded)
	s.observer.RelayOutcome("ok")
	run.log.Info("relay.price_fetched", zap.Stringer("quote", quote))
	return FetchResult{Quote: quote, State: run.state}, nil
}

func (s *RelayService) reject(run *guardRun, err error) (FetchResult, error) {
	failed := run.state
	run.enter(domain.RequestStateRejected)
	name := "unknown"
	if ce, ok := domain.AsCoded(err); ok {
		name = ce.Name
	}
	s.observer.RelayOutcome(name)
	run.log.Warn("relay.rejected",
		zap.String("reason", name),
		zap.String("failed_in", string(failed)),
		zap.Bool("retryable", IsRetryable(err)),
		zap.Error(err),
	)
	return FetchResult{State: run.state}, err
}

type guardRun struct {
	state domain.RequestState
	log   *zap.Logger
}

func (r *guardRun) enter(next domain.RequestState) {
	r.log.Debug("relay.state", zap.String("from", string(r.state)), zap.String("to", string(next)))
	r.state = next
}
