package api

import (
	"context"
	"github.com/txsociety/tonbridge/pkg/bridge"
	"github.com/txsociety/tonbridge/pkg/core"
	"math/big"
)

type service interface {
	Burn(ctx context.Context, req bridge.BurnRequest) (bridge.BurnResult, error)
	SubmitVote(ctx context.Context, e core.EthToTon) (core.Vote, error)
	GetVote(ctx context.Context, queryID *big.Int) (core.Vote, error)
}
