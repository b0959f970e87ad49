package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pricerelay-service/internal/application"
	infraconfig "pricerelay-service/internal/infrastructure/config"
	httpserver "pricerelay-service/internal/infrastructure/http"

	"go.uber.org/zap"
)

// App is one runnable process: an HTTP listener plus optional background runners.
type App struct {
	HTTP    *http.Server
	Runners []func(ctx context.Context) error
	Log     *zap.Logger
}

// Run serves until ctx is cancelled or a component fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(a.Runners)+1)
	for _, run := range a.Runners {
		go func(run func(context.Context) error) { errCh <- run(ctx) }(run)
	}
	go func() {
		a.Log.Info("server started", zap.String("addr", a.HTTP.Addr))
		if err := a.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn("server shutdown", zap.Error(err))
	}
	a.Log.Info("server stopped")
	return runErr
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
}

// InitRelayApp wires the relay process: record store, oracle invoker, relay guard and HTTP API.
func InitRelayApp(ctx context.Context) (*App, func(), error) {
	cfg := ProvideConfig()
	log := ProvideLogger()
	cleanups := cleanupStack{}

	store, closeStore, err := ProvideRecordStore(ctx, log, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("record store: %w", err)
	}
	cleanups.push(closeStore)
	m := ProvideMetrics(cfg)

	var local *application.OracleService
	if cfg.OracleMode == "local" {
		clock, err := ProvideClock(cfg)
		if err != nil {
			cleanups.run()
			return nil, nil, err
		}
		if local, err = ProvideOracleService(cfg, store, clock, log, m); err != nil {
			cleanups.run()
			return nil, nil, err
		}
	}
	invoker, closeInvoker, err := ProvideOracleInvoker(cfg, local)
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	cleanups.push(closeInvoker)

	relay, err := ProvideRelayService(cfg, store, invoker, log, m)
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	pushOracle, err := cfg.PushOracleID()
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	srv := httpserver.NewServer(
		httpserver.WithRelay(relay),
		httpserver.WithFeedAccounts(cfg.FeedShard, pushOracle),
	)
	srv.SetReadyCheck(store.Ping)
	handler := httpserver.NewRouter(srv, httpserver.RouterConfig{
		Metrics:        m,
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	log.Info("relay.initialized",
		zap.Stringer("identity", relay.Identity()),
		zap.String("record_backend", cfg.RecordBackend),
		zap.String("oracle_mode", cfg.OracleMode),
	)
	return &App{HTTP: newHTTPServer(cfg.HTTPAddr, handler), Log: log}, cleanups.run, nil
}

// InitOracleApp wires the oracle process: gRPC service for relays plus a read-only HTTP API.
func InitOracleApp(ctx context.Context) (*App, func(), error) {
	cfg := ProvideConfig()
	log := ProvideLogger()
	cleanups := cleanupStack{}

	store, closeStore, err := ProvideRecordStore(ctx, log, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("record store: %w", err)
	}
	cleanups.push(closeStore)
	clock, err := ProvideClock(cfg)
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	m := ProvideMetrics(cfg)
	oracle, err := ProvideOracleService(cfg, store, clock, log, m)
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	pushOracle, err := cfg.PushOracleID()
	if err != nil {
		cleanups.run()
		return nil, nil, err
	}
	srv := httpserver.NewServer(
		httpserver.WithOracle(oracle),
		httpserver.WithFeedAccounts(cfg.FeedShard, pushOracle),
	)
	srv.SetReadyCheck(store.Ping)
	handler := httpserver.NewRouter(srv, httpserver.RouterConfig{Metrics: m})
	log.Info("oracle.initialized",
		zap.String("receiver_program", cfg.ReceiverProgram),
		zap.String("record_backend", cfg.RecordBackend),
		zap.String("clock_source", cfg.ClockSource),
	)
	return &App{
		HTTP:    newHTTPServer(cfg.OracleHTTPAddr, handler),
		Runners: []func(context.Context) error{ProvideGRPCOracleRunner(cfg, oracle, log)},
		Log:     log,
	}, cleanups.run, nil
}

// cleanupStack runs cleanups in reverse order of registration.
type cleanupStack struct{ fns []func() }

func (c *cleanupStack) push(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanupStack) run() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
	c.fns = nil
}
