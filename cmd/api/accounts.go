package main

import (
	"context"
	"fmt"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/blockchain"
	"log/slog"
)

// checkBridgeAccounts fails if the jetton master is not deployed and warns about an inactive bridge.
func checkBridgeAccounts(ctx context.Context, bcClient *blockchain.Client, jettonMaster, bridge ton.AccountID) error {
	active, err := bcClient.IsActive(ctx, jettonMaster)
	if err != nil {
		return fmt.Errorf("jetton master state: %w", err)
	}
	if !active {
		return fmt.Errorf("jetton master %s is not active", jettonMaster.ToRaw())
	}
	active, err = bcClient.IsActive(ctx, bridge)
	if err != nil {
		return fmt.Errorf("bridge state: %w", err)
	}
	if !active {
		slog.Warn("bridge account is not active, votes will bounce", "account", bridge.ToRaw())
	}
	return nil
}
