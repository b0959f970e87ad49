package memory

import (
	"context"
	"sync"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
)

var _ application.RecordStore = (*RecordStore)(nil)

// RecordStore keeps ledger records in process. Loads return copies so callers
// never alias stored bytes.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.Identity]domain.Record
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: map[domain.Identity]domain.Record{}}
}

func (s *RecordStore) Load(_ context.Context, addr domain.Identity) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[addr]
	if !ok {
		return domain.Record{Address: addr}, nil
	}
	return clone(r), nil
}

func (s *RecordStore) Put(_ context.Context, r domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.Address] = clone(r)
	return nil
}

func (s *RecordStore) Delete(_ context.Context, addr domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, addr)
	return nil
}

func (s *RecordStore) Ping(context.Context) error { return nil }

func clone(r domain.Record) domain.Record {
	if r.Data != nil {
		r.Data = append([]byte(nil), r.Data...)
	}
	return r
}
