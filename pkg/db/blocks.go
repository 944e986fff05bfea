package db

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/tonkeeper/tongo/ton"
)

const (
	masterchainShard = 0x8000000000000000
	trustedBlockRow  = 1
)

var ErrNotMasterchainBlock = errors.New("only masterchain block can be trusted")

// GetLastTrustedBlock returns the block the blockchain client trusted last, or nil on the first run.
func (c *Connection) GetLastTrustedBlock(ctx context.Context) (*ton.BlockIDExt, error) {
	block := ton.BlockIDExt{
		BlockID: ton.BlockID{Workchain: -1, Shard: masterchainShard},
	}
	var rootHash, fileHash []byte
	err := c.postgres.QueryRow(ctx, `
		SELECT seqno, root_hash, file_hash
		FROM blockchain.trusted_mc_block
		WHERE id = $1`, trustedBlockRow).Scan(&block.Seqno, &rootHash, &fileHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trusted block: %w", err)
	}
	if len(rootHash) != len(block.RootHash) || len(fileHash) != len(block.FileHash) {
		return nil, fmt.Errorf("invalid trusted block %d hashes in db", block.Seqno)
	}
	copy(block.RootHash[:], rootHash)
	copy(block.FileHash[:], fileHash)
	return &block, nil
}

// SetLastTrustedBlock stores the block unless a newer one is already stored,
// so a restart never resumes from an older block.
func (c *Connection) SetLastTrustedBlock(ctx context.Context, block ton.BlockIDExt) error {
	if block.Workchain != -1 || block.Shard != masterchainShard {
		return ErrNotMasterchainBlock
	}
	_, err := c.postgres.Exec(ctx, `
		INSERT INTO blockchain.trusted_mc_block (id, seqno, root_hash, file_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET seqno = EXCLUDED.seqno, root_hash = EXCLUDED.root_hash, file_hash = EXCLUDED.file_hash
		WHERE blockchain.trusted_mc_block.seqno <= EXCLUDED.seqno`,
		trustedBlockRow, block.Seqno, block.RootHash[:], block.FileHash[:])
	if err != nil {
		return fmt.Errorf("save trusted block %d: %w", block.Seqno, err)
	}
	return nil
}
