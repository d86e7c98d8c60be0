package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		last   string
		want   string
	}{
		{"first number", "JE", "", "JE-0001"},
		{"increments", "JE", "JE-0001", "JE-0002"},
		{"grows past four digits", "JE", "JE-9999", "JE-10000"},
		{"keeps counting past padding", "JE", "JE-10000", "JE-10001"},
		{"malformed last resets", "JE", "garbage", "JE-0001"},
		{"prefix mismatch resets", "JE", "INV-0005", "JE-0001"},
		{"invoice prefix", "INV", "INV-0041", "INV-0042"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Next(tc.prefix, tc.last))
		})
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "INV-0001", Format(PrefixInvoice, 1))
	require.Equal(t, "JE-0573", Format(PrefixJournal, 573))
	require.Equal(t, "JE-12345", Format(PrefixJournal, 12345))
}
