package core

import (
	"errors"
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/cell"
	"math/big"
)

type BurnParams struct {
	Destination *big.Int // external chain address, 160 bits
	User        ton.AccountID
	Amount      *big.Int // jetton amount with decimals
	QueryID     uint64
}

// BuildBurnPayload builds the jetton burn body with the destination address in the custom payload ref.
func BuildBurnPayload(p BurnParams) (*cell.Cell, error) {
	if p.Destination == nil || p.Amount == nil {
		return nil, errors.New("burn destination and amount are required")
	}
	custom := cell.NewCell()
	if err := custom.Bits().WriteUint(p.Destination, EthAddressBits); err != nil {
		return nil, fmt.Errorf("destination address: %w", err)
	}
	body := cell.NewCell()
	err := body.AddChild(custom)
	if err != nil {
		return nil, err
	}
	err = body.Bits().WriteUint64(uint64(BurnOpCode), 32)
	if err != nil {
		return nil, err
	}
	err = body.Bits().WriteUint64(p.QueryID, 64)
	if err != nil {
		return nil, err
	}
	err = body.Bits().WriteCoins(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("burn amount: %w", err)
	}
	err = body.Bits().WriteAddress(&p.User)
	if err != nil {
		return nil, fmt.Errorf("user address: %w", err)
	}
	return body, nil
}
