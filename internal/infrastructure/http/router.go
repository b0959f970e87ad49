package httpserver

import (
	"net/http"
	"time"

	"pricerelay-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unmatchedRoute is the route label for requests that matched no route.
const unmatchedRoute = "unmatched"

// HTTPObserver records per-route request metrics.
type HTTPObserver interface {
	ObserveHTTP(route string, status int, d time.Duration)
	Handler() http.Handler
}

type RouterConfig struct {
	Metrics        HTTPObserver
	JWTSecret      string
	RateLimitRPS   int
	RateLimitBurst int
}

func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID())
	r.Use(traceID())
	r.Use(recoverer())
	r.Use(accessLog(cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ping != nil {
			if err := s.ping(r.Context()); err != nil {
				logx.WithFields(r.Context()).Warn("http.not_ready", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "record store not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/v1/prices", func(r chi.Router) {
		r.Use(callerIdentity(cfg.JWTSecret))
		if cfg.RateLimitRPS > 0 {
			r.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler)
		}
		if s.relay != nil {
			r.Post("/fetch", s.FetchPrice)
		}
		if s.oracle != nil {
			r.Get("/{feed_id}", s.GetPrice)
		}
	})
	return r
}

func requestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(logx.ContextWithRequestID(r.Context(), rid)))
		})
	}
}

func traceID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get("X-Trace-Id")
			if tid == "" {
				tid = uuid.NewString()
			}
			w.Header().Set("X-Trace-Id", tid)
			next.ServeHTTP(w, r.WithContext(logx.ContextWithTraceID(r.Context(), tid)))
		})
	}
}

func recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logx.WithFields(r.Context()).Error("panic recovered", zap.Any("error", rec))
					writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func accessLog(m HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)
			elapsed := time.Since(start)
			route := unmatchedRoute
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			if m != nil {
				m.ObserveHTTP(route, sr.status, elapsed)
			}
			logx.WithFields(r.Context()).Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", sr.status),
				zap.Int("bytes", sr.bytes),
				zap.Duration("duration", elapsed),
			)
		})
	}
}
