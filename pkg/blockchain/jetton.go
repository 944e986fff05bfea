package blockchain

import (
	"context"
	"errors"
	"fmt"
	"github.com/tonkeeper/tongo/abi"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
	"log/slog"
)

var ErrWrongJettonWallet = errors.New("jetton wallet does not belong to owner and jetton master")

type jettonWalletData struct {
	master ton.AccountID
	owner  ton.AccountID
}

// GetJettonWallet calculates the owner's wallet for the jetton master and validates it.
// A nil wallet without error means the wallet is not deployed yet and holds nothing to burn.
func (c *Client) GetJettonWallet(ctx context.Context, jettonMaster, owner ton.AccountID) (*ton.AccountID, error) {
	wallet, err := c.jettonWalletAddress(ctx, jettonMaster, owner)
	if err != nil {
		return nil, err
	}
	active, err := c.IsActive(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("can not get account state: %w", err)
	}
	if !active {
		slog.Info("jetton wallet is not deployed", "account", wallet.ToRaw(), "owner", owner.ToRaw())
		return nil, nil
	}
	data, err := c.jettonWalletData(ctx, wallet)
	if err != nil {
		return nil, err
	}
	err = data.check(jettonMaster, owner)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", wallet.ToRaw(), err)
	}
	return &wallet, nil
}

func (c *Client) jettonWalletAddress(ctx context.Context, jettonMaster, owner ton.AccountID) (ton.AccountID, error) {
	_, resp, err := abi.GetWalletAddress(ctx, c, jettonMaster, owner.ToMsgAddress())
	if err != nil {
		return ton.AccountID{}, fmt.Errorf("can not get jetton wallet address: %w", err)
	}
	body, ok := resp.(abi.GetWalletAddressResult)
	if !ok {
		return ton.AccountID{}, errors.New("invalid response for get_wallet_address")
	}
	return requiredAccount("jetton wallet", body.JettonWalletAddress)
}

func (c *Client) jettonWalletData(ctx context.Context, wallet ton.AccountID) (jettonWalletData, error) {
	_, resp, err := abi.GetWalletData(ctx, c, wallet)
	if err != nil {
		return jettonWalletData{}, fmt.Errorf("can not get jetton wallet data: %w", err)
	}
	body, ok := resp.(abi.GetWalletDataResult)
	if !ok {
		return jettonWalletData{}, errors.New("invalid response for get_wallet_data")
	}
	return parseWalletData(body)
}

func parseWalletData(body abi.GetWalletDataResult) (jettonWalletData, error) {
	master, err := requiredAccount("jetton master", body.Jetton)
	if err != nil {
		return jettonWalletData{}, err
	}
	owner, err := requiredAccount("owner", body.Owner)
	if err != nil {
		return jettonWalletData{}, err
	}
	return jettonWalletData{master: master, owner: owner}, nil
}

func (d jettonWalletData) check(jettonMaster, owner ton.AccountID) error {
	if d.master != jettonMaster {
		return fmt.Errorf("%w: master is %s", ErrWrongJettonWallet, d.master.ToRaw())
	}
	if d.owner != owner {
		return fmt.Errorf("%w: owner is %s", ErrWrongJettonWallet, d.owner.ToRaw())
	}
	return nil
}

func requiredAccount(name string, a tlb.MsgAddress) (ton.AccountID, error) {
	account, err := ton.AccountIDFromTlb(a)
	if err != nil {
		return ton.AccountID{}, fmt.Errorf("invalid %s account id: %w", name, err)
	}
	if account == nil {
		return ton.AccountID{}, fmt.Errorf("%s account is none", name)
	}
	return *account, nil
}
