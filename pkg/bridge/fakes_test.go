package bridge

import (
	"context"
	"errors"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/core"
	"math/big"
	"sort"
	"sync"
	"time"
)

type fakeSender struct {
	mu   sync.Mutex
	txs  []core.TransactionRequest
	err  error
	fail func(tx core.TransactionRequest) bool
}

func (f *fakeSender) SendTransaction(ctx context.Context, tx core.TransactionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.fail != nil && f.fail(tx) {
		return errUnavailable
	}
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeSender) sent() []core.TransactionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.TransactionRequest(nil), f.txs...)
}

type fakeStorage struct {
	mu    sync.Mutex
	votes map[string]core.Vote
	order []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{votes: make(map[string]core.Vote)}
}

func (f *fakeStorage) SaveVote(ctx context.Context, vote core.Vote) (core.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := vote.QueryID.String()
	if v, ok := f.votes[key]; ok {
		return v, nil
	}
	f.votes[key] = vote
	f.order = append(f.order, key)
	return vote, nil
}

func (f *fakeStorage) GetVote(ctx context.Context, queryID *big.Int) (core.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.votes[queryID.String()]
	if !ok {
		return core.Vote{}, core.ErrNotFound
	}
	return v, nil
}

func (f *fakeStorage) GetPendingVotes(ctx context.Context, limit int) ([]core.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []core.Vote
	for _, key := range f.order {
		if v := f.votes[key]; v.Status == core.PendingVoteStatus {
			res = append(res, v)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Attempts != res[j].Attempts {
			return res[i].Attempts < res[j].Attempts
		}
		return res[i].UpdatedAt.Before(res[j].UpdatedAt)
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeStorage) update(id core.VoteID, fn func(v *core.Vote)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, v := range f.votes {
		if v.ID == id {
			fn(&v)
			f.votes[key] = v
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStorage) MarkVoteSent(ctx context.Context, id core.VoteID, sentAt time.Time) error {
	return f.update(id, func(v *core.Vote) {
		v.Status = core.SentVoteStatus
		v.Attempts++
		v.SentAt = &sentAt
	})
}

func (f *fakeStorage) MarkVoteAttempt(ctx context.Context, id core.VoteID, attemptErr error, at time.Time) error {
	return f.update(id, func(v *core.Vote) {
		v.Attempts++
		v.LastError = attemptErr.Error()
		v.UpdatedAt = at
		if v.Attempts >= core.MaxVoteAttempts {
			v.Status = core.FailedVoteStatus
		}
	})
}

type fakeChain struct {
	wallet *ton.AccountID
	err    error
}

func (f fakeChain) GetJettonWallet(ctx context.Context, jettonMaster, owner ton.AccountID) (*ton.AccountID, error) {
	return f.wallet, f.err
}

var errUnavailable = errors.New("wallet unavailable")
