package core

import (
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"math/big"
	"strconv"
	"strings"
)

// EthToTon is a bridge event observed on the external chain that validators vote for.
type EthToTon struct {
	TransactionHash string // 0x-prefixed, 32 bytes
	LogIndex        int16
	To              ton.AccountID
	Value           uint64
	BlockHash       string // 0x-prefixed, 32 bytes
	BlockTime       uint64
}

func (e EthToTon) Validate() error {
	if _, err := parseHash(e.TransactionHash); err != nil {
		return fmt.Errorf("transaction hash: %w", err)
	}
	if _, err := parseHash(e.BlockHash); err != nil {
		return fmt.Errorf("block hash: %w", err)
	}
	return nil
}

// queryString is hashed for the query id nonce: blockHash_transactionHash_logIndex.
func (e EthToTon) queryString() string {
	return e.BlockHash + "_" + e.TransactionHash + "_" + strconv.Itoa(int(e.LogIndex))
}

func parseHash(h string) (*big.Int, error) {
	digits, ok := strings.CutPrefix(h, "0x")
	if !ok || len(digits) != 64 || !isHex(digits) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, h)
	}
	v, _ := new(big.Int).SetString(digits, 16)
	return v, nil
}
