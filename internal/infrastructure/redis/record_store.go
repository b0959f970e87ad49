package redisstore

import (
	"context"
	"fmt"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

var _ application.RecordStore = (*RecordStore)(nil)

const (
	fieldOwner = "owner"
	fieldData  = "data"
)

// RecordStore keeps each ledger record in a hash: owner (base58) and data (raw bytes).
type RecordStore struct {
	Client *redis.Client
	Prefix string
}

func New(client *redis.Client, prefix string) *RecordStore {
	return &RecordStore{Client: client, Prefix: prefix}
}

func (s *RecordStore) key(addr domain.Identity) string {
	return s.Prefix + "account:" + addr.String()
}

func (s *RecordStore) Load(ctx context.Context, addr domain.Identity) (domain.Record, error) {
	vals, err := s.Client.HGetAll(ctx, s.key(addr)).Result()
	if err != nil {
		return domain.Record{}, fmt.Errorf("redis load record: %w", err)
	}
	rec := domain.Record{Address: addr}
	if len(vals) == 0 {
		return rec, nil
	}
	if owner := vals[fieldOwner]; owner != "" {
		rec.Owner, err = domain.ParseIdentity(owner)
		if err != nil {
			return domain.Record{}, fmt.Errorf("redis record owner: %w", err)
		}
	}
	if data := vals[fieldData]; data != "" {
		rec.Data = []byte(data)
	}
	return rec, nil
}

func (s *RecordStore) Put(ctx context.Context, r domain.Record) error {
	err := s.Client.HSet(ctx, s.key(r.Address), fieldOwner, r.Owner.String(), fieldData, r.Data).Err()
	if err != nil {
		return fmt.Errorf("redis put record: %w", err)
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, addr domain.Identity) error {
	return s.Client.Del(ctx, s.key(addr)).Err()
}

func (s *RecordStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
