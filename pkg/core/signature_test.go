package core

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseEthSignature(t *testing.T) {
	raw := `{"tuple": {"elements": [
		{"number": {"number": "255"}},
		{"tuple": {"elements": [
			{"number": {"number": "4660"}},
			{"number": {"number": "22136"}},
			{"number": {"number": "27"}}
		]}}
	]}}`
	var entry StackEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))

	sig, err := ParseEthSignature(entry)
	require.NoError(t, err)
	require.Equal(t, EthSignature{
		PublicKey: "0x00000000000000000000000000000000000000ff",
		R:         "0x1234",
		S:         "0x5678",
		V:         27,
	}, sig)
}

func TestParseEthSignatureMalformed(t *testing.T) {
	num := func(s string) StackEntry { return StackEntry{Number: &StackNumber{Number: s}} }
	tuple := func(e ...StackEntry) StackEntry { return StackEntry{Tuple: &StackTuple{Elements: e}} }

	tests := []struct {
		name  string
		entry StackEntry
	}{
		{"number", num("1")},
		{"short tuple", tuple(num("1"))},
		{"rsv not tuple", tuple(num("1"), num("2"))},
		{"rsv short", tuple(num("1"), tuple(num("1"), num("2")))},
		{"bad number", tuple(num("x"), tuple(num("1"), num("2"), num("3")))},
		{"nested tuple in rsv", tuple(num("1"), tuple(num("1"), num("2"), tuple()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEthSignature(tt.entry)
			require.ErrorIs(t, err, ErrMalformedTuple)
		})
	}
}

func TestGetNumber(t *testing.T) {
	tests := []struct {
		pair []string
		want int64
	}{
		{[]string{"num", "0x0"}, 0},
		{[]string{"num", "0x1"}, 1},
		{[]string{"num", "0xff"}, 255},
		{[]string{"num", "-0x1"}, -1},
		{[]string{"num", "10"}, 16},
	}
	for _, tt := range tests {
		v, err := GetNumber(tt.pair)
		require.NoError(t, err)
		require.Equal(t, tt.want, v)
	}
	_, err := GetNumber([]string{"num"})
	require.ErrorIs(t, err, ErrMalformedTuple)
	_, err = GetNumber([]string{"num", "0xzz"})
	require.ErrorIs(t, err, ErrMalformedTuple)

	ok, err := GetBool([]string{"num", "0x1"})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = GetBool([]string{"num", "-0x1"})
	require.NoError(t, err)
	require.False(t, ok)
}
