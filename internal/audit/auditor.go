package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fhescope/internal/model"
	"fhescope/internal/storage/postgres"
)

// Config controls audit behavior.
type Config struct {
	BatchSize  int
	StateStore StateStore
}

// Auditor persists decoded operations and per-kind counters to Postgres.
type Auditor struct {
	cfg    Config
	store  *postgres.Store
	logger *zap.Logger
}

func NewAuditor(cfg Config, store *postgres.Store, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{cfg: cfg, store: store, logger: logger}
}

// Run audits an operations JSONL file. Records at or below the persisted
// last processed block are skipped so reruns over a growing file stay
// idempotent.
func (a *Auditor) Run(ctx context.Context, inputPath string) error {
	if a.store == nil {
		return fmt.Errorf("store is nil")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	var startBlock uint64
	if a.cfg.StateStore != nil {
		block, ok, err := a.cfg.StateStore.Load(ctx)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if ok {
			startBlock = block
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	accumulator := NewAccumulator()
	batch := make([]model.StoredOperation, 0, a.cfg.BatchSize)
	maxBlock := startBlock
	var total, stored, skipped, failed int

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var op model.StoredOperation
		if err := json.Unmarshal(line, &op); err != nil {
			failed++
			a.logger.Warn("parse operation record", zap.Error(err))
			continue
		}

		if startBlock > 0 && op.BlockNumber <= startBlock {
			skipped++
			continue
		}

		accumulator.Add(op)
		batch = append(batch, op)
		if op.BlockNumber > maxBlock {
			maxBlock = op.BlockNumber
		}

		if len(batch) >= a.cfg.BatchSize {
			if err := a.store.UpsertOperations(ctx, batch); err != nil {
				return fmt.Errorf("store operations: %w", err)
			}
			stored += len(batch)
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if len(batch) > 0 {
		if err := a.store.UpsertOperations(ctx, batch); err != nil {
			return fmt.Errorf("store operations: %w", err)
		}
		stored += len(batch)
	}

	counts := accumulator.Counts()
	if err := a.store.UpsertOperationCounts(ctx, counts); err != nil {
		return fmt.Errorf("store operation counts: %w", err)
	}

	if a.cfg.StateStore != nil && maxBlock > startBlock {
		if err := a.cfg.StateStore.Save(ctx, maxBlock); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	a.logger.Info("audit complete",
		zap.Int("total", total),
		zap.Int("stored", stored),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("op_kinds", len(counts)),
		zap.Uint64("last_block", maxBlock),
	)

	return nil
}
