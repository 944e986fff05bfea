package core

import (
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/cell"
	"math/big"
	"strings"
	"testing"
)

func TestDecodeAddressFromCell(t *testing.T) {
	for _, raw := range []string{
		"0:" + strings.Repeat("0", 63) + "1",
		"-1:" + strings.Repeat("ef", 32),
		"0:" + strings.Repeat("01", 32),
	} {
		acc := ton.MustParseAccountID(raw)
		c := cell.NewCell()
		require.NoError(t, c.Bits().WriteAddress(&acc))
		got, err := DecodeAddressFromCell(c)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, acc, *got)
		require.Equal(t, raw, got.ToRaw())
	}
}

func TestDecodeAddressFromCellNone(t *testing.T) {
	c := cell.NewCell()
	require.NoError(t, c.Bits().WriteUint64(0b100, 3))
	require.NoError(t, c.Bits().WriteInt64(0, 8))
	require.NoError(t, c.Bits().WriteUint(big.NewInt(0), 256))
	got, err := DecodeAddressFromCell(c)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDecodeAddressFromCellShort(t *testing.T) {
	c := cell.NewCell()
	require.NoError(t, c.Bits().WriteAddress(nil))
	_, err := DecodeAddressFromCell(c)
	require.ErrorIs(t, err, cell.ErrOutOfBounds)
}

func TestParseHexPrefixed(t *testing.T) {
	got, err := ParseHexPrefixed("0x1")
	require.NoError(t, err)
	require.Equal(t, "0x0000000000000000000000000000000000000001", got)

	got, err = ParseHexPrefixed("0xAbCdEf0123456789aBcDeF0123456789abcdef01")
	require.NoError(t, err)
	require.Equal(t, "0xAbCdEf0123456789aBcDeF0123456789abcdef01", got)

	for _, bad := range []string{"1", "", "0X1", "0xzz", "0x" + strings.Repeat("1", 41)} {
		_, err := ParseHexPrefixed(bad)
		require.ErrorIs(t, err, ErrInvalidAddress, "input %q", bad)
	}
}

func TestParseAddressFromDec(t *testing.T) {
	n, ok := new(big.Int).SetString("1096126227998177188652763624537212264741949407466", 10)
	require.True(t, ok)
	require.Equal(t, "0xc0000000000000000000000000000000000000ea", ParseAddressFromDec(n))
	require.Equal(t, "0x0", DecToHex(big.NewInt(0)))
	require.Equal(t, "0xff", DecToHex(big.NewInt(255)))
}

func TestParseEthAddress(t *testing.T) {
	v, err := ParseEthAddress("0xff")
	require.NoError(t, err)
	require.Equal(t, int64(255), v.Int64())
	_, err = ParseEthAddress("ff")
	require.ErrorIs(t, err, ErrInvalidAddress)
}
