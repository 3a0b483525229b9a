package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fhescope/internal/model"
)

// Store provides Postgres persistence for the operation audit trail.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertOperations inserts or updates decoded operations. A log is
// identified by (chain_id, tx_hash, log_index), so replays are idempotent.
func (s *Store) UpsertOperations(ctx context.Context, ops []model.StoredOperation) error {
	if len(ops) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, op := range ops {
		batch.Queue(`
			INSERT INTO fhe_operations (
				chain_id, block_number, block_hash, tx_hash, log_index, emitter,
				op_name, caller, result_handle, block_ts, payload, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
			ON CONFLICT (chain_id, tx_hash, log_index)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				block_hash = EXCLUDED.block_hash,
				emitter = EXCLUDED.emitter,
				op_name = EXCLUDED.op_name,
				caller = EXCLUDED.caller,
				result_handle = EXCLUDED.result_handle,
				block_ts = EXCLUDED.block_ts,
				payload = EXCLUDED.payload,
				updated_at = now()
		`,
			int64(op.ChainID),
			int64(op.BlockNumber),
			op.BlockHash,
			op.TxHash,
			int64(op.LogIndex),
			op.Address,
			op.OpName,
			op.Caller,
			op.ResultHandle,
			int64(op.Timestamp),
			[]byte(op.Decoded),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ops {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertOperationCounts inserts or updates per-kind operation counters.
func (s *Store) UpsertOperationCounts(ctx context.Context, counts []model.OperationCount) error {
	if len(counts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range counts {
		batch.Queue(`
			INSERT INTO fhe_operation_counts (
				chain_id, op_name, op_count, first_block, last_block, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (chain_id, op_name)
			DO UPDATE SET
				op_count = fhe_operation_counts.op_count + EXCLUDED.op_count,
				first_block = LEAST(fhe_operation_counts.first_block, EXCLUDED.first_block),
				last_block = GREATEST(fhe_operation_counts.last_block, EXCLUDED.last_block),
				updated_at = now()
		`,
			int64(c.ChainID),
			c.OpName,
			int64(c.Count),
			int64(c.FirstBlock),
			int64(c.LastBlock),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range counts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_block for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var block uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM audit_state WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return block, true, nil
}

// SaveState upserts last_processed_block for a name.
func (s *Store) SaveState(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, block)
	return err
}
