package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/infrastructure/logx"
	"pricerelay-service/internal/pyth"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

// PriceReader is the oracle lookup served on GET /v1/prices/{feed_id}.
type PriceReader interface {
	GetPrice(ctx context.Context, req application.GetPriceRequest) (domain.PriceQuote, error)
}

type Server struct {
	relay      *application.RelayService
	oracle     PriceReader
	shard      uint16
	pushOracle domain.Identity
	ping       func(ctx context.Context) error
}

type Option func(*Server)

func WithRelay(r *application.RelayService) Option { return func(s *Server) { s.relay = r } }
func WithOracle(o PriceReader) Option              { return func(s *Server) { s.oracle = o } }

// WithFeedAccounts enables deriving the feed account when a request omits price_account.
func WithFeedAccounts(shard uint16, pushOracle domain.Identity) Option {
	return func(s *Server) { s.shard, s.pushOracle = shard, pushOracle }
}

func NewServer(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetReadyCheck installs the dependency check used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type fetchPriceRequest struct {
	FeedID       string `json:"feed_id"`
	MaximumAge   uint64 `json:"maximum_age"`
	PriceAccount string `json:"price_account,omitempty"`
}

type priceResponse struct {
	FeedID      string `json:"feed_id"`
	Price       int64  `json:"price"`
	Conf        uint64 `json:"conf"`
	Exponent    int32  `json:"exponent"`
	PublishTime int64  `json:"publish_time"`
	Display     string `json:"display"`
}

type fetchPriceResponse struct {
	priceResponse
	PriceAccount string `json:"price_account"`
	State        string `json:"state"`
}

func toPriceResponse(feed string, q domain.PriceQuote) priceResponse {
	return priceResponse{
		FeedID:      feed,
		Price:       q.Price,
		Conf:        q.Conf,
		Exponent:    q.Exponent,
		PublishTime: q.PublishTime,
		Display:     q.String(),
	}
}

// FetchPrice handles POST /v1/prices/fetch through the relay guard.
func (s *Server) FetchPrice(w http.ResponseWriter, r *http.Request) {
	var body fetchPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	account, ok := s.resolveAccount(w, body.PriceAccount, body.FeedID)
	if !ok {
		return
	}
	res, err := s.relay.FetchPrice(r.Context(), application.FetchRequest{
		MaximumAge: body.MaximumAge,
		FeedIDHex:  body.FeedID,
		Record:     account,
		Caller:     CallerFromContext(r.Context()),
	})
	if err != nil {
		writeCoded(w, err, application.IsRetryable(err))
		return
	}
	writeJSON(w, http.StatusOK, fetchPriceResponse{
		priceResponse: toPriceResponse(body.FeedID, res.Quote),
		PriceAccount:  account.String(),
		State:         string(res.State),
	})
}

// GetPrice handles GET /v1/prices/{feed_id} directly against the oracle.
func (s *Server) GetPrice(w http.ResponseWriter, r *http.Request) {
	var feedID string
	err := runtime.BindStyledParameterWithLocation("simple", false, "feed_id", runtime.ParamLocationPath, chi.URLParam(r, "feed_id"), &feedID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feed_id")
		return
	}
	var maxAge uint64
	if err := runtime.BindQueryParameter("form", true, true, "maximum_age", r.URL.Query(), &maxAge); err != nil {
		writeError(w, http.StatusBadRequest, "invalid maximum_age")
		return
	}
	var rawAccount string
	if err := runtime.BindQueryParameter("form", true, false, "price_account", r.URL.Query(), &rawAccount); err != nil {
		writeError(w, http.StatusBadRequest, "invalid price_account")
		return
	}
	account, ok := s.resolveAccount(w, rawAccount, feedID)
	if !ok {
		return
	}
	q, err := s.oracle.GetPrice(r.Context(), application.GetPriceRequest{
		MaximumAge: maxAge,
		FeedIDHex:  feedID,
		Record:     account,
		Payer:      CallerFromContext(r.Context()),
	})
	if err != nil {
		writeCoded(w, err, true)
		return
	}
	writeJSON(w, http.StatusOK, toPriceResponse(feedID, q))
}

// resolveAccount parses an explicit account or derives the push-oracle feed
// account. An underivable account is left zero for the service gates to reject.
func (s *Server) resolveAccount(w http.ResponseWriter, raw, feedHex string) (domain.Identity, bool) {
	if raw != "" {
		id, err := domain.ParseIdentity(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid price_account")
			return domain.Identity{}, false
		}
		return id, true
	}
	if s.pushOracle.IsZero() {
		writeError(w, http.StatusBadRequest, "price_account is required")
		return domain.Identity{}, false
	}
	feed, err := pyth.FeedIDFromHex(feedHex)
	if err != nil {
		return domain.Identity{}, true
	}
	id, err := domain.PriceFeedAccount(s.shard, feed, s.pushOracle)
	if err != nil {
		logx.L().Warn("http.derive_account_failed", zap.Error(err))
		return domain.Identity{}, true
	}
	return id, true
}

type errorEnvelope struct {
	Code      int    `json:"code"`
	Name      string `json:"name,omitempty"`
	Message   string `json:"message"`
	Retryable *bool  `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: msg})
}

func writeCoded(w http.ResponseWriter, err error, retryable bool) {
	ce, ok := domain.AsCoded(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, statusFor(err), errorEnvelope{
		Code:      int(ce.Code),
		Name:      ce.Name,
		Message:   ce.Message,
		Retryable: &retryable,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidFeedIDFormat),
		errors.Is(err, application.ErrOracleInvalidFeedIDFormat),
		errors.Is(err, application.ErrInvalidMaximumAge):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrEmptyPriceAccount),
		errors.Is(err, application.ErrInvalidPriceAccountOwner):
		return http.StatusUnprocessableEntity
	case errors.Is(err, application.ErrOracleProgram):
		return http.StatusBadGateway
	case errors.Is(err, application.ErrAccountStateModified):
		return http.StatusConflict
	case errors.Is(err, application.ErrPriceUnavailable):
		return http.StatusNotFound
	case errors.Is(err, application.ErrClockUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
