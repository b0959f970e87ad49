package config

import (
	"errors"
	"testing"
	"time"

	"pricerelay-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "")
	t.Setenv("RECORD_BACKEND", "")
	cfg := Load()
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, "memory", cfg.RecordBackend)
	require.Equal(t, "grpc", cfg.OracleMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "250")
	t.Setenv("FEED_SHARD", "3")
	t.Setenv("RATE_LIMIT_RPS", "junk")
	cfg := Load()
	require.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	require.Equal(t, uint16(3), cfg.FeedShard)
	require.Equal(t, 20, cfg.RateLimitRPS)
}

func TestRelayID(t *testing.T) {
	_, err := Config{}.RelayID()
	require.ErrorIs(t, err, ErrMissingRelayIdentity)

	_, err = Config{RelayIdentity: "11111111111111111111111111111111"}.RelayID()
	require.True(t, errors.Is(err, domain.ErrInvalidIdentity))

	_, err = Config{RelayIdentity: "not-base58!"}.RelayID()
	require.Error(t, err)

	id, err := Config{RelayIdentity: "pythWSnswVUd12oZpeFP8e9CVaEqJg25g1Vtc2biRsT"}.RelayID()
	require.NoError(t, err)
	require.False(t, id.IsZero())
}

func TestProgramIDs(t *testing.T) {
	recv, err := Config{}.ReceiverID()
	require.NoError(t, err)
	require.True(t, recv.IsZero())

	_, err = Config{PushOracleProgram: "bad"}.PushOracleID()
	require.Error(t, err)
}
