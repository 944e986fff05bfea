package core

import (
	"encoding/binary"
	"fmt"
	"github.com/txsociety/tonbridge/pkg/legacyhash"
	"math/big"
)

// DeriveQueryID returns (timeout << 32) + nonce where timeout is the block time plus the
// multisig query timeout and the protocol version, and nonce is the first 32 bits of the
// legacy keccak of blockHash_transactionHash_logIndex.
func DeriveQueryID(e EthToTon) (*big.Int, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	h, err := legacyhash.Keccak256(e.queryString())
	if err != nil {
		return nil, fmt.Errorf("query id nonce: %w", err)
	}
	timeout := new(big.Int).SetUint64(e.BlockTime)
	timeout.Add(timeout, big.NewInt(MultisigQueryTimeout+ProtocolVersion))
	nonce := new(big.Int).SetUint64(uint64(binary.BigEndian.Uint32(h[:4])))
	return timeout.Lsh(timeout, 32).Add(timeout, nonce), nil
}

// SplitQueryID is the inverse of the packing done by DeriveQueryID.
func SplitQueryID(queryID *big.Int) (timeout *big.Int, nonce uint32) {
	timeout = new(big.Int).Rsh(queryID, 32)
	low := new(big.Int).And(queryID, big.NewInt(0xffffffff))
	return timeout, uint32(low.Uint64())
}
