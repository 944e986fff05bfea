package bridge

import (
	"context"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/core"
	"math/big"
	"time"
)

type sender interface {
	SendTransaction(ctx context.Context, tx core.TransactionRequest) error
}

type storage interface {
	SaveVote(ctx context.Context, vote core.Vote) (core.Vote, error)
	GetVote(ctx context.Context, queryID *big.Int) (core.Vote, error)
	GetPendingVotes(ctx context.Context, limit int) ([]core.Vote, error)
	MarkVoteSent(ctx context.Context, id core.VoteID, sentAt time.Time) error
	MarkVoteAttempt(ctx context.Context, id core.VoteID, attemptErr error, at time.Time) error
}

type blockchain interface {
	GetJettonWallet(ctx context.Context, jettonMaster, owner ton.AccountID) (*ton.AccountID, error)
}
