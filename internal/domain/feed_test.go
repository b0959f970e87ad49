package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFeedIDHex(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ab", NormalizeFeedIDHex("0xab"))
	require.Equal(t, "ab", NormalizeFeedIDHex("ab"))
	require.Equal(t, "0xab", NormalizeFeedIDHex("0x0xab"))
	require.Equal(t, "", NormalizeFeedIDHex(""))
}

func TestIsHexFeedID(t *testing.T) {
	t.Parallel()
	valid := strings.Repeat("ab", 32)
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"lowercase", valid, true},
		{"uppercase", strings.ToUpper(valid), true},
		{"mixed", "Ab" + valid[2:], true},
		{"63 chars", valid[:63], false},
		{"65 chars", valid + "a", false},
		{"one non-hex", "g" + valid[1:], false},
		{"prefix not stripped", "0x" + valid[2:], false},
		{"empty", "", false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, IsHexFeedID(c.in))
		})
	}
}

func TestFeedIDString(t *testing.T) {
	var f FeedID
	f[0], f[31] = 0xab, 0x01
	s := f.String()
	require.True(t, strings.HasPrefix(s, "0xab"))
	require.True(t, strings.HasSuffix(s, "01"))
	require.Len(t, s, 66)
}
