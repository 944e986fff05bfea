package blockchain

import (
	"context"
	"errors"
	"github.com/tonkeeper/tongo/boc"
	tongoCode "github.com/tonkeeper/tongo/code"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
	"github.com/tonkeeper/tongo/tvm"
	"github.com/tonkeeper/tongo/txemulator"
)

const getMethodGasLimit = 10_000_000

var (
	ErrAccountNotActive = errors.New("account is not active")
	ErrEmptyCode        = errors.New("account code is empty")
	ErrEmptyData        = errors.New("account data is empty")
)

type contract struct {
	code *boc.Cell
	data *boc.Cell
	libs map[ton.Bits256]*boc.Cell
}

// contractFromState extracts code, data and own libraries of an active account.
func contractFromState(state tlb.ShardAccount) (contract, error) {
	if state.Account.Status() != tlb.AccountActive {
		return contract{}, ErrAccountNotActive
	}
	stateInit := state.Account.Account.Storage.State.AccountActive.StateInit
	if !stateInit.Code.Exists {
		return contract{}, ErrEmptyCode
	}
	if !stateInit.Data.Exists {
		return contract{}, ErrEmptyData
	}
	c := contract{
		code: &stateInit.Code.Value.Value,
		data: &stateInit.Data.Value.Value,
		libs: map[ton.Bits256]*boc.Cell{},
	}
	for _, item := range stateInit.Library.Items() {
		c.libs[ton.Bits256(item.Key)] = &item.Value.Root
	}
	return c, nil
}

// RunSmcMethodByID runs a get-method locally on the account state at the trusted block.
// It implements abi.Executor.
func (c *Client) RunSmcMethodByID(ctx context.Context, accountID ton.AccountID, methodID int, params tlb.VmStack) (uint32, tlb.VmStack, error) {
	state, _, err := c.GetAccountState(ctx, accountID)
	if err != nil {
		return 0, nil, err
	}
	smc, err := contractFromState(state)
	if err != nil {
		return 0, nil, err
	}
	emulator, err := c.newEmulator(ctx, smc)
	if err != nil {
		return 0, nil, err
	}
	return emulator.RunSmcMethodByID(ctx, accountID, methodID, params)
}

func (c *Client) newEmulator(ctx context.Context, smc contract) (*tvm.Emulator, error) {
	cfg := boc.NewCell()
	configParams, err := c.connection.GetConfigAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	err = tlb.Marshal(cfg, configParams.Config)
	if err != nil {
		return nil, err
	}
	err = c.loadPublicLibraries(ctx, smc)
	if err != nil {
		return nil, err
	}
	base64libs, err := tongoCode.LibrariesToBase64(smc.libs)
	if err != nil {
		return nil, err
	}
	emulator, err := tvm.NewEmulator(smc.code, smc.data, cfg,
		tvm.WithVerbosityLevel(txemulator.LogTruncated),
		tvm.WithLibrariesBase64(base64libs))
	if err != nil {
		return nil, err
	}
	err = emulator.SetGasLimit(getMethodGasLimit)
	if err != nil {
		return nil, err
	}
	return emulator, nil
}

// loadPublicLibraries adds the libraries referenced by the contract code to smc.libs.
func (c *Client) loadPublicLibraries(ctx context.Context, smc contract) error {
	hashes, err := tongoCode.FindLibraries(smc.code)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return nil
	}
	public, err := c.connection.GetLibraries(ctx, hashes)
	if err != nil {
		return err
	}
	for hash, lib := range public {
		smc.libs[hash] = lib
	}
	return nil
}
