package core

import (
	"github.com/google/uuid"
	"github.com/txsociety/tonbridge/pkg/cell"
	"math/big"
	"time"
)

const VoteMessageBits = 8 + 256 + 16 + 8 + 256 + 64

// BuildVoteMessage serializes the event as the flat payload of a multisig vote:
// op, transaction hash, log index, destination workchain and hash, value.
func BuildVoteMessage(e EthToTon) ([]byte, error) {
	txHash, err := parseHash(e.TransactionHash)
	if err != nil {
		return nil, err
	}
	b := cell.NewBitBuffer(VoteMessageBits)
	err = b.WriteUint64(uint64(VoteOpCode), 8)
	if err != nil {
		return nil, err
	}
	err = b.WriteUint(txHash, 256)
	if err != nil {
		return nil, err
	}
	err = b.WriteInt64(int64(e.LogIndex), 16)
	if err != nil {
		return nil, err
	}
	err = b.WriteInt64(int64(e.To.Workchain), 8)
	if err != nil {
		return nil, err
	}
	err = b.WriteBytes(e.To.Address[:])
	if err != nil {
		return nil, err
	}
	err = b.WriteUint64(e.Value, 64)
	if err != nil {
		return nil, err
	}
	b.Freeze()
	return b.Bytes(), nil
}

type VoteStatus string

const (
	PendingVoteStatus VoteStatus = "pending"
	SentVoteStatus    VoteStatus = "sent"
	// FailedVoteStatus is final, the vote is not sent again after MaxVoteAttempts failures.
	FailedVoteStatus VoteStatus = "failed"
)

const MaxVoteAttempts = 5

type VoteID = uuid.UUID

func NewVoteID() VoteID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// Vote is a vote payload queued for the wallet transport.
type Vote struct {
	ID        VoteID
	QueryID   *big.Int
	Event     EthToTon
	Payload   []byte
	Status    VoteStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
	SentAt    *time.Time
}

func NewVote(e EthToTon, now time.Time) (Vote, error) {
	queryID, err := DeriveQueryID(e)
	if err != nil {
		return Vote{}, err
	}
	payload, err := BuildVoteMessage(e)
	if err != nil {
		return Vote{}, err
	}
	return Vote{
		ID:        NewVoteID(),
		QueryID:   queryID,
		Event:     e,
		Payload:   payload,
		Status:    PendingVoteStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
