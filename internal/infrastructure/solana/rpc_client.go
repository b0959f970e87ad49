package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"pricerelay-service/internal/infrastructure/httpx"
)

// RPCClient speaks JSON-RPC 2.0 to a cluster node. Transport retries are
// delegated to httpx; RPC-level errors are returned as-is.
type RPCClient struct {
	endpoint  string
	http      *httpx.Client
	requestID atomic.Uint64
}

func NewRPCClient(endpoint string, timeout time.Duration) *RPCClient {
	return &RPCClient{
		endpoint: endpoint,
		http:     &httpx.Client{HTTP: &http.Client{Timeout: timeout}},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	req := rpcRequest{JSONRPC: "2.0", ID: c.requestID.Add(1), Method: method, Params: params}
	var resp rpcResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint, req, &resp); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%s: unmarshal result: %w", method, err)
		}
	}
	return nil
}

type AccountInfo struct {
	Lamports uint64
	Owner    string
	Data     string // base64
}

type getAccountInfoResult struct {
	Value *struct {
		Lamports uint64   `json:"lamports"`
		Owner    string   `json:"owner"`
		Data     []string `json:"data"`
	} `json:"value"`
}

// GetAccountInfo returns nil when the account does not exist.
func (c *RPCClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	params := []any{pubkey, map[string]any{"encoding": "base64"}}
	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	info := &AccountInfo{Lamports: result.Value.Lamports, Owner: result.Value.Owner}
	if len(result.Value.Data) >= 1 {
		info.Data = result.Value.Data[0]
	}
	return info, nil
}

func (c *RPCClient) GetSlot(ctx context.Context) (int64, error) {
	var slot int64
	if err := c.call(ctx, "getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

// GetBlockTime returns nil when the node has no timestamp for slot.
func (c *RPCClient) GetBlockTime(ctx context.Context, slot int64) (*int64, error) {
	var ts *int64
	if err := c.call(ctx, "getBlockTime", []any{slot}, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (c *RPCClient) GetHealth(ctx context.Context) error {
	var status string
	return c.call(ctx, "getHealth", nil, &status)
}
