package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/config"
	"pricerelay-service/internal/infrastructure/grpc/oracleclient"
	"pricerelay-service/internal/infrastructure/grpc/oracleserver"
	"pricerelay-service/internal/infrastructure/logx"
	"pricerelay-service/internal/infrastructure/memory"
	"pricerelay-service/internal/infrastructure/metrics"
	"pricerelay-service/internal/infrastructure/pg"
	redisstore "pricerelay-service/internal/infrastructure/redis"
	"pricerelay-service/internal/infrastructure/solana"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for RECORD_BACKEND=pg")

// RecordBackend is a record store that can report readiness.
type RecordBackend interface {
	application.RecordStore
	Ping(ctx context.Context) error
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideMetrics(cfg config.Config) *metrics.Metrics { return metrics.New(cfg.MetricsNamespace) }

func ProvideRecordStore(ctx context.Context, log *zap.Logger, cfg config.Config) (RecordBackend, func(), error) {
	switch cfg.RecordBackend {
	case "", "memory":
		return memory.NewRecordStore(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.RedisKeyPrefix), func() { _ = client.Close() }, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewRecordStore(db), cleanup, nil
	case "solana":
		return solana.NewRecordStore(solana.NewRPCClient(cfg.SolanaRPCURL, cfg.RequestTimeout)), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported RECORD_BACKEND=%q", cfg.RecordBackend)
	}
}

func ProvideClock(cfg config.Config) (application.Clock, error) {
	switch cfg.ClockSource {
	case "", "system":
		return application.SystemClock(), nil
	case "cluster":
		return solana.NewClusterClock(solana.NewRPCClient(cfg.SolanaRPCURL, cfg.RequestTimeout)), nil
	default:
		return nil, fmt.Errorf("unsupported CLOCK_SOURCE=%q", cfg.ClockSource)
	}
}

func ProvideOracleService(cfg config.Config, records application.RecordStore, clock application.Clock, log *zap.Logger, m *metrics.Metrics) (*application.OracleService, error) {
	receiver, err := cfg.ReceiverID()
	if err != nil {
		return nil, err
	}
	opts := []application.OracleOption{
		application.WithClock(clock),
		application.WithReceiverProgram(receiver),
		application.WithOracleLogger(log.Named("oracle")),
	}
	if m != nil {
		opts = append(opts, application.WithOracleObserver(m))
	}
	return application.NewOracleService(records, opts...), nil
}

// ProvideOracleInvoker returns how the relay reaches the oracle: over gRPC, or
// in-process when ORACLE_MODE=local.
func ProvideOracleInvoker(cfg config.Config, local *application.OracleService) (application.OracleInvoker, func(), error) {
	switch cfg.OracleMode {
	case "local":
		if local == nil {
			return nil, func() {}, errors.New("ORACLE_MODE=local needs an in-process oracle")
		}
		return local, func() {}, nil
	case "", "grpc":
		c, cleanup, err := oracleclient.New(cfg.OracleTarget, cfg.RequestTimeout)
		if err != nil {
			return nil, func() {}, fmt.Errorf("dial oracle: %w", err)
		}
		return c, cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported ORACLE_MODE=%q", cfg.OracleMode)
	}
}

func ProvideRelayService(cfg config.Config, records application.RecordStore, oracle application.OracleInvoker, log *zap.Logger, m *metrics.Metrics) (*application.RelayService, error) {
	self, err := cfg.RelayID()
	if err != nil {
		return nil, err
	}
	opts := []application.RelayOption{application.WithRelayLogger(log.Named("relay"))}
	if m != nil {
		opts = append(opts, application.WithRelayObserver(m))
	}
	return application.NewRelayService(self, records, oracle, opts...), nil
}

// ProvideGRPCOracleRunner returns a runner serving the oracle over gRPC on GRPC_ADDR.
func ProvideGRPCOracleRunner(cfg config.Config, oracle *application.OracleService, log *zap.Logger) func(ctx context.Context) error {
	addr := cfg.GRPCAddr
	return func(ctx context.Context) error {
		return oracleserver.RunServer(ctx, addr, oracleserver.NewServer(oracle, log.Named("grpc")), log)
	}
}
