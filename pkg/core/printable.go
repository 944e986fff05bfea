package core

import (
	"encoding/hex"
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"math"
	"strconv"
)

type EthToTonPrintable struct {
	TransactionHash string `json:"transaction_hash"`
	LogIndex        int    `json:"log_index"`
	To              string `json:"to"`
	Value           string `json:"value"`
	BlockHash       string `json:"block_hash"`
	BlockTime       uint64 `json:"block_time"`
}

type VotePrintable struct {
	ID        string            `json:"id"`
	QueryID   string            `json:"query_id"`
	Status    string            `json:"status"`
	Payload   string            `json:"payload"`
	Event     EthToTonPrintable `json:"event"`
	Attempts  int               `json:"attempts"`
	LastError string            `json:"last_error,omitempty"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
	SentAt    *int64            `json:"sent_at,omitempty"`
}

func ParseEthToTon(p EthToTonPrintable) (EthToTon, error) {
	if p.LogIndex < math.MinInt16 || p.LogIndex > math.MaxInt16 {
		return EthToTon{}, fmt.Errorf("log index out of range: %d", p.LogIndex)
	}
	to, err := ton.ParseAccountID(p.To)
	if err != nil {
		return EthToTon{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	value, err := strconv.ParseUint(p.Value, 10, 64)
	if err != nil {
		return EthToTon{}, fmt.Errorf("invalid value: %w", err)
	}
	res := EthToTon{
		TransactionHash: p.TransactionHash,
		LogIndex:        int16(p.LogIndex),
		To:              to,
		Value:           value,
		BlockHash:       p.BlockHash,
		BlockTime:       p.BlockTime,
	}
	if err := res.Validate(); err != nil {
		return EthToTon{}, err
	}
	return res, nil
}

func ConvertEthToTonToPrintable(e EthToTon) EthToTonPrintable {
	return EthToTonPrintable{
		TransactionHash: e.TransactionHash,
		LogIndex:        int(e.LogIndex),
		To:              e.To.ToRaw(),
		Value:           strconv.FormatUint(e.Value, 10),
		BlockHash:       e.BlockHash,
		BlockTime:       e.BlockTime,
	}
}

func ConvertVoteToPrintable(v Vote) VotePrintable {
	res := VotePrintable{
		ID:        v.ID.String(),
		QueryID:   v.QueryID.String(),
		Status:    string(v.Status),
		Payload:   hex.EncodeToString(v.Payload),
		Event:     ConvertEthToTonToPrintable(v.Event),
		Attempts:  v.Attempts,
		LastError: v.LastError,
		CreatedAt: v.CreatedAt.Unix(),
		UpdatedAt: v.UpdatedAt.Unix(),
	}
	if v.SentAt != nil {
		sentAt := v.SentAt.Unix()
		res.SentAt = &sentAt
	}
	return res
}
