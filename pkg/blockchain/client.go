package blockchain

import (
	"context"
	"errors"
	"fmt"
	"github.com/tonkeeper/tongo/config"
	"github.com/tonkeeper/tongo/liteapi"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
	"log/slog"
	"sync"
	"time"
)

const (
	updateInterval = 5 * time.Second
	updateTimeout  = 10 * time.Minute
)

var ErrNotInitialized = errors.New("blockchain client not initialized")

// ErrStaleBlock is returned when a liteserver reports a masterchain block older than the trusted one.
var ErrStaleBlock = errors.New("masterchain block is older than trusted block")

// Client reads the bridge contracts at the last trusted masterchain block.
type Client struct {
	connection *liteapi.Client

	trustedLock sync.RWMutex
	trusted     *ton.BlockIDExt
}

type storage interface {
	SetLastTrustedBlock(ctx context.Context, block ton.BlockIDExt) error
	GetLastTrustedBlock(ctx context.Context) (*ton.BlockIDExt, error)
}

func New(ls []config.LiteServer, testnet bool) (*Client, error) {
	options := make([]liteapi.Option, 0)
	switch {
	case len(ls) > 0:
		options = append(options, liteapi.WithLiteServers(ls))
		options = append(options, liteapi.WithMaxConnectionsNumber(len(ls)))
	case testnet:
		options = append(options, liteapi.Testnet())
		slog.Warn("liteservers are not set, retrieving liteservers from testnet global config")
	default:
		options = append(options, liteapi.Mainnet())
		slog.Warn("liteservers are not set, retrieving liteservers from global config")
	}
	api, err := liteapi.NewClient(options...)
	if err != nil {
		return nil, err
	}
	return &Client{connection: api}, nil
}

// RunBlockWatcher blocks until the first masterchain block is trusted and keeps following new blocks in background.
// A block stored by a previous run is the lower bound for every following block.
func (c *Client) RunBlockWatcher(ctx context.Context, storage storage, wg *sync.WaitGroup) {
	slog.Info("initializing blockchain client")
	prev, err := storage.GetLastTrustedBlock(ctx)
	if err != nil {
		slog.Warn("can not read last trusted block", "error", err.Error())
	} else if prev != nil {
		slog.Info("resuming from trusted block", "seqno", prev.Seqno)
	}
	for {
		trusted, err := c.updateTrustedBlock(ctx, storage, prev)
		if err == nil {
			slog.Info("blockchain client initialized", "seqno", trusted.Seqno)
			wg.Add(1)
			go c.runBlockWatcher(ctx, storage, wg, trusted)
			return
		}
		slog.Error("can not get trusted block", "error", err.Error())
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Client) runBlockWatcher(ctx context.Context, storage storage, wg *sync.WaitGroup, trusted *ton.BlockIDExt) {
	slog.Info("block watcher started")
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			slog.Info("block watcher stopped")
			return
		case <-time.After(updateInterval):
			next, err := c.updateTrustedBlock(ctx, storage, trusted)
			if err != nil {
				slog.Error("can not update trusted block", "error", err.Error())
				continue
			}
			trusted = next
		}
	}
}

func (c *Client) updateTrustedBlock(ctx context.Context, storage storage, trusted *ton.BlockIDExt) (*ton.BlockIDExt, error) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()
	info, err := c.connection.GetMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("can not get masterchain info: %w", err)
	}
	block := info.Last.ToBlockIdExt()
	err = checkNextBlock(trusted, block)
	if err != nil {
		return nil, err
	}
	c.trustedLock.Lock()
	c.trusted = &block
	c.trustedLock.Unlock()
	err = storage.SetLastTrustedBlock(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("can not save trusted block: %w", err)
	}
	return &block, nil
}

// checkNextBlock rejects a masterchain block that would move the trusted block back.
func checkNextBlock(trusted *ton.BlockIDExt, next ton.BlockIDExt) error {
	if trusted == nil {
		return nil
	}
	if next.Seqno < trusted.Seqno {
		return fmt.Errorf("%w: %d < %d", ErrStaleBlock, next.Seqno, trusted.Seqno)
	}
	if next.Seqno == trusted.Seqno && next.RootHash != trusted.RootHash {
		return fmt.Errorf("masterchain block %d differs from trusted block", next.Seqno)
	}
	return nil
}

func (c *Client) trustedBlock() (ton.BlockIDExt, error) {
	c.trustedLock.RLock()
	defer c.trustedLock.RUnlock()
	if c.trusted == nil {
		return ton.BlockIDExt{}, ErrNotInitialized
	}
	return *c.trusted, nil
}

// GetAccountState returns the account state at the trusted block and the block seqno.
func (c *Client) GetAccountState(ctx context.Context, accountID ton.AccountID) (tlb.ShardAccount, uint32, error) {
	block, err := c.trustedBlock()
	if err != nil {
		return tlb.ShardAccount{}, 0, err
	}
	shardAcc, err := c.connection.WithBlock(block).GetAccountState(ctx, accountID)
	if err != nil {
		return tlb.ShardAccount{}, 0, err
	}
	return shardAcc, block.Seqno, nil
}

// IsActive reports whether the account has a deployed contract at the trusted block.
func (c *Client) IsActive(ctx context.Context, accountID ton.AccountID) (bool, error) {
	state, _, err := c.GetAccountState(ctx, accountID)
	if err != nil {
		return false, err
	}
	return state.Account.Status() == tlb.AccountActive, nil
}
