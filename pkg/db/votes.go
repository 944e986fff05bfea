package db

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/core"
	"math/big"
	"strconv"
	"time"
)

const voteColumns = `id, query_id::text, status, payload, tx_hash, log_index, destination, value::text,
	block_hash, block_time, attempts, last_error, created_at, updated_at, sent_at`

// SaveVote stores the vote unless a vote with the same query id already exists.
// The stored vote is returned in both cases.
func (c *Connection) SaveVote(ctx context.Context, vote core.Vote) (core.Vote, error) {
	_, err := c.postgres.Exec(ctx, `
		INSERT INTO bridge.votes
		(id, query_id, status, payload, tx_hash, log_index, destination, value, block_hash, block_time,
		 attempts, last_error, created_at, updated_at)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (query_id) DO NOTHING`,
		vote.ID,
		vote.QueryID.String(),
		vote.Status,
		vote.Payload,
		vote.Event.TransactionHash,
		vote.Event.LogIndex,
		vote.Event.To.ToRaw(),
		strconv.FormatUint(vote.Event.Value, 10),
		vote.Event.BlockHash,
		int64(vote.Event.BlockTime),
		vote.Attempts,
		vote.LastError,
		vote.CreatedAt,
		vote.UpdatedAt,
	)
	if err != nil {
		return core.Vote{}, err
	}
	return c.GetVote(ctx, vote.QueryID)
}

func (c *Connection) GetVote(ctx context.Context, queryID *big.Int) (core.Vote, error) {
	row := c.postgres.QueryRow(ctx, `SELECT `+voteColumns+` FROM bridge.votes WHERE query_id = $1::numeric`, queryID.String())
	v, err := scanVote(row)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return core.Vote{}, core.ErrNotFound
	} else if err != nil {
		return core.Vote{}, err
	}
	return v, nil
}

func (c *Connection) GetPendingVotes(ctx context.Context, limit int) ([]core.Vote, error) {
	rows, err := c.postgres.Query(ctx, `
		SELECT `+voteColumns+`
		FROM bridge.votes
		WHERE status = $1
		ORDER BY attempts, updated_at
		LIMIT $2`, core.PendingVoteStatus, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []core.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (c *Connection) MarkVoteSent(ctx context.Context, id core.VoteID, sentAt time.Time) error {
	tag, err := c.postgres.Exec(ctx, `
		UPDATE bridge.votes
		SET status = $2, attempts = attempts + 1, last_error = '', sent_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, core.SentVoteStatus, sentAt, core.PendingVoteStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// MarkVoteAttempt records a failed sending. The vote becomes failed after core.MaxVoteAttempts attempts.
func (c *Connection) MarkVoteAttempt(ctx context.Context, id core.VoteID, attemptErr error, at time.Time) error {
	tag, err := c.postgres.Exec(ctx, `
		UPDATE bridge.votes
		SET attempts   = attempts + 1,
		    last_error = $2,
		    updated_at = $3,
		    status     = CASE WHEN attempts + 1 >= $4 THEN $5 ELSE status END
		WHERE id = $1 AND status = $6`,
		id, attemptErr.Error(), at, core.MaxVoteAttempts, core.FailedVoteStatus, core.PendingVoteStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanVote(row pgx.Row) (core.Vote, error) {
	var (
		v                  core.Vote
		queryID, to, value string
		blockTime          int64
	)
	err := row.Scan(
		&v.ID,
		&queryID,
		&v.Status,
		&v.Payload,
		&v.Event.TransactionHash,
		&v.Event.LogIndex,
		&to,
		&value,
		&v.Event.BlockHash,
		&blockTime,
		&v.Attempts,
		&v.LastError,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.SentAt,
	)
	if err != nil {
		return core.Vote{}, err
	}
	q, ok := new(big.Int).SetString(queryID, 10)
	if !ok {
		return core.Vote{}, fmt.Errorf("invalid query id in db: %s", queryID)
	}
	v.QueryID = q
	v.Event.To, err = ton.ParseAccountID(to)
	if err != nil {
		return core.Vote{}, fmt.Errorf("invalid destination in db: %w", err)
	}
	v.Event.Value, err = strconv.ParseUint(value, 10, 64)
	if err != nil {
		return core.Vote{}, fmt.Errorf("invalid value in db: %w", err)
	}
	v.Event.BlockTime = uint64(blockTime)
	return v, nil
}
