package core

import (
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/cell"
	"strconv"
)

type DataType string

const (
	BocDataType DataType = "boc"
	RawDataType DataType = "raw"
)

// TransactionRequest is handed to the wallet transport as a ton_sendTransaction parameter.
// Data is base64 encoded when marshaled to JSON.
type TransactionRequest struct {
	To       string   `json:"to"`
	Value    string   `json:"value"`
	Data     []byte   `json:"data"`
	DataType DataType `json:"dataType"`
}

func NewBurnTransaction(jettonWallet ton.AccountID, value uint64, payload *cell.Cell, testnet bool) (TransactionRequest, error) {
	data, err := payload.Serialize()
	if err != nil {
		return TransactionRequest{}, fmt.Errorf("serialize burn payload: %w", err)
	}
	return TransactionRequest{
		To:       jettonWallet.ToHuman(true, testnet),
		Value:    strconv.FormatUint(value, 10),
		Data:     data,
		DataType: BocDataType,
	}, nil
}

func NewVoteTransaction(bridge ton.AccountID, value uint64, payload []byte, testnet bool) TransactionRequest {
	return TransactionRequest{
		To:       bridge.ToHuman(true, testnet),
		Value:    strconv.FormatUint(value, 10),
		Data:     payload,
		DataType: RawDataType,
	}
}
