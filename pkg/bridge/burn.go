package bridge

import (
	"context"
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/core"
)

// BurnJetton sends a burn message to the jetton wallet.
// A nil wallet means there is nothing to burn: no transaction is sent and sent is false.
func BurnJetton(ctx context.Context, sender sender, jettonWallet *ton.AccountID, params core.BurnParams, value uint64, testnet bool) (bool, error) {
	if jettonWallet == nil {
		return false, nil
	}
	payload, err := core.BuildBurnPayload(params)
	if err != nil {
		return false, fmt.Errorf("build burn payload: %w", err)
	}
	tx, err := core.NewBurnTransaction(*jettonWallet, value, payload, testnet)
	if err != nil {
		return false, err
	}
	err = sender.SendTransaction(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("send burn: %w", err)
	}
	return true, nil
}
