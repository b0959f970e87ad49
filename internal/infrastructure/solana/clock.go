package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricerelay-service/internal/application"
)

var _ application.Clock = (*ClusterClock)(nil)

var ErrNoBlockTime = errors.New("cluster has no block time for current slot")

// ClusterClock reports the block time of the node's current slot.
type ClusterClock struct {
	rpc *RPCClient
}

func NewClusterClock(rpc *RPCClient) *ClusterClock { return &ClusterClock{rpc: rpc} }

func (c *ClusterClock) Now(ctx context.Context) (time.Time, error) {
	slot, err := c.rpc.GetSlot(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("get slot: %w", err)
	}
	ts, err := c.rpc.GetBlockTime(ctx, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("get block time: %w", err)
	}
	if ts == nil {
		return time.Time{}, ErrNoBlockTime
	}
	return time.Unix(*ts, 0).UTC(), nil
}
