package memory

import (
	"context"
	"testing"

	"pricerelay-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRecordStore_LoadPutDelete(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()
	addr := domain.Identity{1}

	r, err := s.Load(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, addr, r.Address)
	require.True(t, r.IsEmpty())
	require.True(t, r.Owner.IsZero())

	data := []byte{1, 2, 3}
	require.NoError(t, s.Put(ctx, domain.Record{Address: addr, Owner: domain.Identity{2}, Data: data}))
	data[0] = 9

	r, err = s.Load(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, r.Data, "stored bytes must not alias caller memory")
	r.Data[1] = 9

	again, err := s.Load(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, again.Data)

	require.NoError(t, s.Delete(ctx, addr))
	r, err = s.Load(ctx, addr)
	require.NoError(t, err)
	require.True(t, r.IsEmpty())
}
