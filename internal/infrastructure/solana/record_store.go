package solana

import (
	"context"
	"encoding/base64"
	"fmt"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
)

var _ application.RecordStore = (*RecordStore)(nil)

// RecordStore reads ledger records straight from a cluster node.
type RecordStore struct {
	rpc *RPCClient
}

func NewRecordStore(rpc *RPCClient) *RecordStore { return &RecordStore{rpc: rpc} }

func (s *RecordStore) Load(ctx context.Context, addr domain.Identity) (domain.Record, error) {
	info, err := s.rpc.GetAccountInfo(ctx, addr.String())
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{Address: addr}
	if info == nil {
		return rec, nil
	}
	rec.Owner, err = domain.ParseIdentity(info.Owner)
	if err != nil {
		return domain.Record{}, fmt.Errorf("account owner: %w", err)
	}
	if info.Data != "" {
		rec.Data, err = base64.StdEncoding.DecodeString(info.Data)
		if err != nil {
			return domain.Record{}, fmt.Errorf("account data: %w", err)
		}
	}
	return rec, nil
}

func (s *RecordStore) Ping(ctx context.Context) error { return s.rpc.GetHealth(ctx) }
