package application

import (
	"context"
	"fmt"

	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/pyth"

	"go.uber.org/zap"
)

// GetPriceRequest is the input of the oracle's price lookup.
type GetPriceRequest struct {
	MaximumAge uint64
	FeedIDHex  string
	Record     domain.Identity
	Payer      domain.Identity
}

// OracleService reads a bounded-age price out of a PriceUpdateV2 record.
type OracleService struct {
	records  RecordStore
	clock    Clock
	receiver domain.Identity
	log      *zap.Logger
	observer Observer
}

type OracleOption func(*OracleService)

func WithClock(c Clock) OracleOption { return func(s *OracleService) { s.clock = c } }

// WithReceiverProgram requires records to be owned by the given program.
func WithReceiverProgram(id domain.Identity) OracleOption {
	return func(s *OracleService) { s.receiver = id }
}

func WithOracleLogger(l *zap.Logger) OracleOption { return func(s *OracleService) { s.log = l } }

func WithOracleObserver(o Observer) OracleOption { return func(s *OracleService) { s.observer = o } }

func NewOracleService(records RecordStore, opts ...OracleOption) *OracleService {
	s := &OracleService{records: records}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

// GetPrice validates the feed id, reads trusted time and returns the freshest
// observation no older than req.MaximumAge seconds.
func (s *OracleService) GetPrice(ctx context.Context, req GetPriceRequest) (domain.PriceQuote, error) {
	log := s.log.With(
		zap.String("feed_id", req.FeedIDHex),
		zap.Uint64("maximum_age", req.MaximumAge),
		zap.Stringer("price_account", req.Record),
		zap.Stringer("payer", req.Payer),
	)
	q, err := s.getPrice(ctx, req)
	if err != nil {
		ce, _ := domain.AsCoded(err)
		if ce != nil {
			s.observer.OracleLookup(ce.Name)
		}
		log.Warn("oracle.get_price_failed", zap.Error(err))
		return domain.PriceQuote{}, err
	}
	s.observer.OracleLookup("ok")
	log.Info("oracle.price", zap.Stringer("quote", q), zap.Int64("publish_time", q.PublishTime))
	return q, nil
}

func (s *OracleService) getPrice(ctx context.Context, req GetPriceRequest) (domain.PriceQuote, error) {
	clean := domain.NormalizeFeedIDHex(req.FeedIDHex)
	if len(clean) != domain.FeedIDHexLen {
		return domain.PriceQuote{}, ErrOracleInvalidFeedIDFormat
	}
	feed, err := pyth.FeedIDFromHex(clean)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("%w: %v", ErrOracleInvalidFeedIDFormat, err)
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("%w: %v", ErrClockUnavailable, err)
	}

	rec, err := s.records.Load(ctx, req.Record)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("%w: load record: %v", ErrPriceUnavailable, err)
	}
	if !s.receiver.IsZero() && rec.Owner != s.receiver {
		return domain.PriceQuote{}, fmt.Errorf("%w: record owned by %s", ErrPriceUnavailable, rec.Owner)
	}
	update, err := pyth.Decode(rec.Data)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	q, err := update.GetPriceNoOlderThan(now.Unix(), req.MaximumAge, feed)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	return q, nil
}
