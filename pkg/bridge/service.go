package bridge

import (
	"context"
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/core"
	"log/slog"
	"math/big"
	"sync"
	"time"
)

type Settings struct {
	JettonMaster ton.AccountID
	Bridge       ton.AccountID
	BurnValue    uint64
	VoteValue    uint64
	Testnet      bool
}

type Service struct {
	sender     sender
	storage    storage
	blockchain blockchain
	settings   Settings
	now        func() time.Time
}

func New(sender sender, storage storage, blockchain blockchain, settings Settings) *Service {
	return &Service{
		sender:     sender,
		storage:    storage,
		blockchain: blockchain,
		settings:   settings,
		now:        time.Now,
	}
}

type BurnRequest struct {
	Owner       ton.AccountID
	Destination string // 0x-prefixed external chain address
	Amount      *big.Int
	QueryID     uint64
}

type BurnResult struct {
	JettonWallet *ton.AccountID
	Sent         bool
}

// Burn resolves the owner's jetton wallet and burns the amount to the external chain destination.
func (s *Service) Burn(ctx context.Context, req BurnRequest) (BurnResult, error) {
	destination, err := core.ParseEthAddress(req.Destination)
	if err != nil {
		return BurnResult{}, err
	}
	wallet, err := s.blockchain.GetJettonWallet(ctx, s.settings.JettonMaster, req.Owner)
	if err != nil {
		return BurnResult{}, fmt.Errorf("resolve jetton wallet: %w", err)
	}
	sent, err := BurnJetton(ctx, s.sender, wallet, core.BurnParams{
		Destination: destination,
		User:        req.Owner,
		Amount:      req.Amount,
		QueryID:     req.QueryID,
	}, s.settings.BurnValue, s.settings.Testnet)
	if err != nil {
		return BurnResult{}, err
	}
	if !sent {
		slog.Info("burn skipped, no jetton wallet", "owner", req.Owner.ToRaw())
	}
	return BurnResult{JettonWallet: wallet, Sent: sent}, nil
}

// SubmitVote derives the query id and vote payload for the event and queues them for sending.
// Submitting the same event twice returns the already stored vote.
func (s *Service) SubmitVote(ctx context.Context, e core.EthToTon) (core.Vote, error) {
	vote, err := core.NewVote(e, s.now())
	if err != nil {
		return core.Vote{}, err
	}
	stored, err := s.storage.SaveVote(ctx, vote)
	if err != nil {
		return core.Vote{}, fmt.Errorf("save vote: %w", err)
	}
	if stored.ID != vote.ID {
		slog.Info("vote already submitted", "query_id", stored.QueryID.String(), "status", stored.Status)
	}
	return stored, nil
}

func (s *Service) GetVote(ctx context.Context, queryID *big.Int) (core.Vote, error) {
	return s.storage.GetVote(ctx, queryID)
}

func (s *Service) Run(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go s.runDispatcher(ctx, wg)
}

func (s *Service) runDispatcher(ctx context.Context, wg *sync.WaitGroup) {
	slog.Info("vote dispatcher started")
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			slog.Info("vote dispatcher stopped")
			return
		default:
			limit := 10
			votes, err := s.storage.GetPendingVotes(ctx, limit)
			if err != nil {
				slog.Error("get pending votes", "error", err.Error())
				sleep(ctx, 3*time.Second)
				continue
			}
			failed := s.dispatch(ctx, votes)
			if failed > 0 || len(votes) < limit {
				sleep(ctx, 2*time.Second)
			}
		}
	}
}

// dispatch sends the votes and returns the number of failed ones.
// Storage returns the least attempted votes first, so failing votes do not block new ones.
func (s *Service) dispatch(ctx context.Context, votes []core.Vote) int {
	failed := 0
	for _, vote := range votes {
		tx := core.NewVoteTransaction(s.settings.Bridge, s.settings.VoteValue, vote.Payload, s.settings.Testnet)
		err := s.sender.SendTransaction(ctx, tx)
		if err != nil {
			failed++
			slog.Error("send vote", "query_id", vote.QueryID.String(), "error", err.Error())
			err = s.storage.MarkVoteAttempt(ctx, vote.ID, err, s.now())
			if err != nil {
				slog.Error("mark vote attempt", "query_id", vote.QueryID.String(), "error", err.Error())
			}
			continue
		}
		err = s.storage.MarkVoteSent(ctx, vote.ID, s.now())
		if err != nil {
			failed++
			slog.Error("mark vote sent", "query_id", vote.QueryID.String(), "error", err.Error())
			continue
		}
		slog.Info("vote sent", "query_id", vote.QueryID.String())
	}
	return failed
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
