package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricerelay-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode answers JSON-RPC calls from a method -> result table.
func fakeNode(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		w.Header().Set("Content-Type", "application/json")
		res, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": res})
	}))
}

func TestRecordStore_Load(t *testing.T) {
	owner := domain.Identity{9}
	data := []byte{1, 2, 3, 4}
	srv := fakeNode(t, map[string]any{
		"getAccountInfo": map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"lamports": 10,
				"owner":    owner.String(),
				"data":     []string{base64.StdEncoding.EncodeToString(data), "base64"},
			},
		},
	})
	defer srv.Close()

	store := NewRecordStore(NewRPCClient(srv.URL, time.Second))
	addr := domain.Identity{1}
	rec, err := store.Load(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, addr, rec.Address)
	assert.Equal(t, owner, rec.Owner)
	assert.Equal(t, data, rec.Data)
}

func TestRecordStore_MissingAccount(t *testing.T) {
	srv := fakeNode(t, map[string]any{
		"getAccountInfo": map[string]any{"context": map[string]any{"slot": 1}, "value": nil},
	})
	defer srv.Close()

	rec, err := NewRecordStore(NewRPCClient(srv.URL, time.Second)).Load(context.Background(), domain.Identity{1})
	require.NoError(t, err)
	assert.True(t, rec.IsEmpty())
	assert.True(t, rec.Owner.IsZero())
}

func TestRecordStore_RPCError(t *testing.T) {
	srv := fakeNode(t, map[string]any{})
	defer srv.Close()

	_, err := NewRecordStore(NewRPCClient(srv.URL, time.Second)).Load(context.Background(), domain.Identity{1})
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestClusterClock(t *testing.T) {
	srv := fakeNode(t, map[string]any{
		"getSlot":      int64(250),
		"getBlockTime": int64(1_700_000_000),
	})
	defer srv.Close()

	now, err := NewClusterClock(NewRPCClient(srv.URL, time.Second)).Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), now.Unix())
}

func TestClusterClock_NoBlockTime(t *testing.T) {
	srv := fakeNode(t, map[string]any{
		"getSlot":      int64(250),
		"getBlockTime": nil,
	})
	defer srv.Close()

	_, err := NewClusterClock(NewRPCClient(srv.URL, time.Second)).Now(context.Background())
	require.ErrorIs(t, err, ErrNoBlockTime)
}

func TestClusterClock_Unavailable(t *testing.T) {
	srv := fakeNode(t, map[string]any{})
	defer srv.Close()

	_, err := NewClusterClock(NewRPCClient(srv.URL, time.Second)).Now(context.Background())
	require.Error(t, err)
}
