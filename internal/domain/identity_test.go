package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	id, err := ParseIdentity("11111111111111111111111111111111")
	require.NoError(t, err)
	require.True(t, id.IsZero())

	id, err = ParseIdentity("rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ")
	require.NoError(t, err)
	require.False(t, id.IsZero())
	require.Equal(t, "rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ", id.String())

	for _, bad := range []string{"", "0OIl", "1111"} {
		_, err := ParseIdentity(bad)
		require.Error(t, err, bad)
		require.True(t, errors.Is(err, ErrInvalidIdentity))
	}
}

func TestIdentityText(t *testing.T) {
	var id Identity
	id[0] = 7
	b, err := id.MarshalText()
	require.NoError(t, err)

	var back Identity
	require.NoError(t, back.UnmarshalText(b))
	require.Equal(t, id, back)
}

func TestRecordSnapshot(t *testing.T) {
	owner := Identity{1}
	r := Record{Owner: owner, Data: []byte{1, 2, 3}}
	require.Equal(t, Snapshot{Owner: owner, DataLen: 3, IsEmpty: false}, r.Snapshot())

	empty := Record{}
	require.True(t, empty.Snapshot().IsEmpty)
	require.NotEqual(t, r.Snapshot(), empty.Snapshot())
}

func TestAsCoded(t *testing.T) {
	ce := &CodedError{Service: "oracle", Code: 6000, Name: "PriceUnavailable", Message: "no price"}
	wrapped := errors.Join(errors.New("context"), ce)
	got, ok := AsCoded(wrapped)
	require.True(t, ok)
	require.Same(t, ce, got)
	require.Equal(t, "oracle.PriceUnavailable (6000)", got.String())

	_, ok = AsCoded(errors.New("plain"))
	require.False(t, ok)
}
