package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"pricerelay-service/internal/domain"
	infraconfig "pricerelay-service/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// HTTP
	HTTPAddr       string
	OracleHTTPAddr string
	// Oracle gRPC
	GRPCAddr       string
	OracleTarget   string
	OracleMode     string
	RequestTimeout time.Duration
	// Identities
	RelayIdentity     string
	ReceiverProgram   string
	PushOracleProgram string
	FeedShard         uint16
	// Records
	RecordBackend  string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	SolanaRPCURL   string
	ClockSource    string
	// HTTP guards
	JWTSecret      string
	RateLimitRPS   int
	RateLimitBurst int
	// Metrics
	MetricsNamespace string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:               getEnv("ENV", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPAddr:          getEnv("HTTP_ADDR", infraconfig.DefaultRelayHTTPAddr),
		OracleHTTPAddr:    getEnv("ORACLE_HTTP_ADDR", infraconfig.DefaultOracleHTTPAddr),
		GRPCAddr:          getEnv("GRPC_ADDR", infraconfig.DefaultGRPCAddr),
		OracleTarget:      getEnv("ORACLE_TARGET", "localhost:9090"),
		OracleMode:        getEnv("ORACLE_MODE", "grpc"),
		RequestTimeout:    time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		RelayIdentity:     getEnv("RELAY_IDENTITY", ""),
		ReceiverProgram:   getEnv("RECEIVER_PROGRAM", infraconfig.DefaultReceiverProgram),
		PushOracleProgram: getEnv("PUSH_ORACLE_PROGRAM", infraconfig.DefaultPushOracleProgram),
		FeedShard:         uint16(atoiDef(getEnv("FEED_SHARD", "0"), 0)),
		RecordBackend:     getEnv("RECORD_BACKEND", "memory"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisKeyPrefix:    getEnv("REDIS_KEY_PREFIX", "pricerelay:"),
		SolanaRPCURL:      getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		ClockSource:       getEnv("CLOCK_SOURCE", "system"),
		JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
		RateLimitRPS:      atoiDef(getEnv("RATE_LIMIT_RPS", "20"), 20),
		RateLimitBurst:    atoiDef(getEnv("RATE_LIMIT_BURST", "40"), 40),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "pricerelay"),
	}
}

var ErrMissingRelayIdentity = errors.New("RELAY_IDENTITY is required")

// RelayID parses the relay's own identity; it must be set and non-zero.
func (c Config) RelayID() (domain.Identity, error) {
	if c.RelayIdentity == "" {
		return domain.Identity{}, ErrMissingRelayIdentity
	}
	id, err := domain.ParseIdentity(c.RelayIdentity)
	if err != nil {
		return id, fmt.Errorf("RELAY_IDENTITY: %w", err)
	}
	if id.IsZero() {
		return id, fmt.Errorf("RELAY_IDENTITY: %w: zero key", domain.ErrInvalidIdentity)
	}
	return id, nil
}

// ReceiverID returns the program expected to own price records. Empty means unchecked.
func (c Config) ReceiverID() (domain.Identity, error) {
	if c.ReceiverProgram == "" {
		return domain.Identity{}, nil
	}
	id, err := domain.ParseIdentity(c.ReceiverProgram)
	if err != nil {
		return id, fmt.Errorf("RECEIVER_PROGRAM: %w", err)
	}
	return id, nil
}

// PushOracleID returns the program whose PDAs hold per-feed price accounts.
// Empty disables address derivation.
func (c Config) PushOracleID() (domain.Identity, error) {
	if c.PushOracleProgram == "" {
		return domain.Identity{}, nil
	}
	id, err := domain.ParseIdentity(c.PushOracleProgram)
	if err != nil {
		return id, fmt.Errorf("PUSH_ORACLE_PROGRAM: %w", err)
	}
	return id, nil
}
