package core

import (
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/cell"
	"math/big"
	"strings"
)

// DecodeAddressFromCell reads a standard address stored at the beginning of the cell.
// The three tag bits are skipped. A nil result without error means addr_none (0:0).
func DecodeAddressFromCell(c *cell.Cell) (*ton.AccountID, error) {
	workchain, err := c.Bits().ReadInt(3, 8)
	if err != nil {
		return nil, fmt.Errorf("read workchain: %w", err)
	}
	hash, err := c.Bits().ReadUint(3+8, 256)
	if err != nil {
		return nil, fmt.Errorf("read address hash: %w", err)
	}
	if workchain.Sign() == 0 && hash.Sign() == 0 {
		return nil, nil
	}
	res := ton.AccountID{Workchain: int32(workchain.Int64())}
	hash.FillBytes(res.Address[:])
	return &res, nil
}

func DecToHex(n *big.Int) string {
	return "0x" + n.Text(16)
}

// ParseAddressFromDec converts a number returned by a get-method into a 0x-prefixed hex string.
// Such numbers are 160-bit external chain addresses and carry no workchain.
func ParseAddressFromDec(n *big.Int) string {
	return DecToHex(n)
}

// ParseHexPrefixed normalizes an external chain address to 0x and 40 hex digits.
func ParseHexPrefixed(address string) (string, error) {
	digits, ok := strings.CutPrefix(address, "0x")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	if len(digits) > EthAddressBits/4 || !isHex(digits) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return "0x" + strings.Repeat("0", EthAddressBits/4-len(digits)) + digits, nil
}

// ParseEthAddress returns the numeric value of a 0x-prefixed external chain address.
func ParseEthAddress(address string) (*big.Int, error) {
	normalized, err := ParseHexPrefixed(address)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(normalized[2:], 16)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return v, nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
