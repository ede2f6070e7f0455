package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pairscope/internal/model"
)

// EventSource yields decoded events in strict (block number, log index)
// order. Next returns false once the stream is exhausted; Err reports any
// underlying failure afterwards.
type EventSource interface {
	Next() (model.EventRecord, bool)
	Err() error
}

// RunConfig holds runtime settings for a derivation run.
type RunConfig struct {
	CheckpointPath    string
	CheckpointEnabled bool
}

// Runner drains an event source through the engine, checkpointing the last
// fully applied block so a restart resumes after it.
type Runner struct {
	cfg        RunConfig
	engine     *Engine
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

func NewRunner(cfg RunConfig, engine *Engine, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		engine:     engine,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run applies every event from the source in order and returns the last
// fully applied block number.
func (r *Runner) Run(ctx context.Context, source EventSource) (uint64, error) {
	if r.engine == nil {
		return 0, fmt.Errorf("engine is nil")
	}
	if source == nil {
		return 0, fmt.Errorf("event source is nil")
	}

	r.engine.EnsureGenesis()

	var resumeAfter uint64
	cp, ok, err := r.checkpoint.Load()
	if err != nil {
		return 0, err
	}
	if ok {
		resumeAfter = cp.LastProcessedBlock
		r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", resumeAfter))
	}

	var total, applied, skipped, failed int
	var currentBlock, lastComplete uint64

	for {
		select {
		case <-ctx.Done():
			return lastComplete, ctx.Err()
		default:
		}

		rec, ok := source.Next()
		if !ok {
			break
		}
		total++

		if resumeAfter > 0 && rec.BlockNumber <= resumeAfter {
			skipped++
			continue
		}

		// checkpoint only on block boundaries: a block is complete once a
		// later block's first event arrives
		if rec.BlockNumber != currentBlock {
			if currentBlock > 0 {
				lastComplete = currentBlock
				if err := r.checkpoint.Save(lastComplete); err != nil {
					return lastComplete, err
				}
			}
			currentBlock = rec.BlockNumber
		}

		if err := r.engine.Apply(ctx, rec); err != nil {
			failed++
			r.logger.Warn("apply event failed",
				zap.Error(err),
				zap.String("tx", rec.TxHash),
				zap.Uint64("block", rec.BlockNumber),
				zap.Uint64("log_index", rec.LogIndex),
				zap.String("kind", string(rec.Kind)),
			)
			continue
		}
		applied++
	}

	if err := source.Err(); err != nil {
		return lastComplete, fmt.Errorf("event source: %w", err)
	}

	if currentBlock > 0 {
		lastComplete = currentBlock
		if err := r.checkpoint.Save(lastComplete); err != nil {
			return lastComplete, err
		}
	}

	r.logger.Info("derivation complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return lastComplete, nil
}
