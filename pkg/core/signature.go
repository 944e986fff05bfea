package core

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// StackEntry is a get-method result value as returned by JSON chain APIs:
// {"number": {"number": "123"}} or {"tuple": {"elements": [...]}}.
type StackEntry struct {
	Number *StackNumber `json:"number,omitempty"`
	Tuple  *StackTuple  `json:"tuple,omitempty"`
}

type StackNumber struct {
	Number string `json:"number"`
}

type StackTuple struct {
	Elements []StackEntry `json:"elements"`
}

func (e StackEntry) bigInt() (*big.Int, error) {
	if e.Number == nil {
		return nil, fmt.Errorf("%w: number expected", ErrMalformedTuple)
	}
	n, ok := new(big.Int).SetString(e.Number.Number, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid number %q", ErrMalformedTuple, e.Number.Number)
	}
	return n, nil
}

func (e StackEntry) elements(n int) ([]StackEntry, error) {
	if e.Tuple == nil || len(e.Tuple.Elements) != n {
		return nil, fmt.Errorf("%w: tuple of %d elements expected", ErrMalformedTuple, n)
	}
	return e.Tuple.Elements, nil
}

type EthSignature struct {
	PublicKey string `json:"public_key"`
	R         string `json:"r"`
	S         string `json:"s"`
	V         int    `json:"v"`
}

// ParseEthSignature reads a (public key, (r, s, v)) tuple.
func ParseEthSignature(data StackEntry) (EthSignature, error) {
	tuple, err := data.elements(2)
	if err != nil {
		return EthSignature{}, err
	}
	key, err := tuple[0].bigInt()
	if err != nil {
		return EthSignature{}, err
	}
	publicKey, err := ParseHexPrefixed(ParseAddressFromDec(key))
	if err != nil {
		return EthSignature{}, err
	}
	rsv, err := tuple[1].elements(3)
	if err != nil {
		return EthSignature{}, err
	}
	var values [3]*big.Int
	for i := range values {
		values[i], err = rsv[i].bigInt()
		if err != nil {
			return EthSignature{}, err
		}
	}
	if !values[2].IsInt64() {
		return EthSignature{}, fmt.Errorf("%w: v out of range", ErrMalformedTuple)
	}
	return EthSignature{
		PublicKey: publicKey,
		R:         DecToHex(values[0]),
		S:         DecToHex(values[1]),
		V:         int(values[2].Int64()),
	}, nil
}

// GetNumber reads a ["num", "0x.."] stack pair.
func GetNumber(pair []string) (int64, error) {
	if len(pair) != 2 {
		return 0, fmt.Errorf("%w: pair expected", ErrMalformedTuple)
	}
	s, neg := strings.CutPrefix(pair[1], "-")
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedTuple, err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func GetBool(pair []string) (bool, error) {
	v, err := GetNumber(pair)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}
