package oracleserver

import (
	"context"
	"errors"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/infrastructure/grpc/oraclepb"
	"pricerelay-service/internal/infrastructure/logx"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PriceReader is the oracle operation served over gRPC.
type PriceReader interface {
	GetPrice(ctx context.Context, req application.GetPriceRequest) (domain.PriceQuote, error)
}

type Server struct {
	Oracle PriceReader
	Log    *zap.Logger
	oraclepb.UnimplementedOracleServiceServer
}

func NewServer(oracle PriceReader, log *zap.Logger) *Server {
	return &Server{Oracle: oracle, Log: log}
}

func (s *Server) GetPrice(ctx context.Context, req *oraclepb.GetPriceRequest) (*oraclepb.GetPriceResponse, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	traceID := req.GetTraceId()
	if traceID != "" {
		ctx = logx.ContextWithTraceID(ctx, traceID)
	}
	log = log.With(zap.String("feed_id", req.GetFeedIdHex()), zap.String("trace_id", traceID))

	account, err := domain.ParseIdentity(req.GetPriceAccount())
	if err != nil {
		log.Warn("grpc_get_price.invalid_account", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, "invalid price_account")
	}
	var payer domain.Identity
	if p := req.GetPayer(); p != "" {
		if payer, err = domain.ParseIdentity(p); err != nil {
			log.Warn("grpc_get_price.invalid_payer", zap.Error(err))
			return nil, status.Error(codes.InvalidArgument, "invalid payer")
		}
	}

	q, err := s.Oracle.GetPrice(ctx, application.GetPriceRequest{
		MaximumAge: req.GetMaximumAge(),
		FeedIDHex:  req.GetFeedIdHex(),
		Record:     account,
		Payer:      payer,
	})
	if err != nil {
		log.Warn("grpc_get_price.oracle_error", zap.Error(err))
		return nil, toStatus(err)
	}
	log.Info("grpc_get_price.success", zap.Stringer("quote", q))
	return &oraclepb.GetPriceResponse{
		Price:       q.Price,
		Conf:        q.Conf,
		Exponent:    q.Exponent,
		PublishTime: q.PublishTime,
	}, nil
}

func toStatus(err error) error {
	ce, ok := domain.AsCoded(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, err.Error())
		}
		return status.Error(codes.Internal, err.Error())
	}
	code := codes.Internal
	switch {
	case errors.Is(err, application.ErrOracleInvalidFeedIDFormat):
		code = codes.InvalidArgument
	case errors.Is(err, application.ErrPriceUnavailable):
		code = codes.NotFound
	case errors.Is(err, application.ErrClockUnavailable):
		code = codes.Unavailable
	}
	return status.Error(code, ce.String()+": "+ce.Message)
}
