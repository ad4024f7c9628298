// Copyright 2025 The ASI-Chain Indexer Authors
// This file is part of the ASI-Chain Indexer.
//
// The ASI-Chain Indexer is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The ASI-Chain Indexer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ASI-Chain Indexer. If not, see <http://www.gnu.org/licenses/>.

package sync

import (
	"context"
	"time"

	"github.com/asi-chain/indexer/blockproc"
	"github.com/asi-chain/indexer/gateway"
	"github.com/asi-chain/indexer/resilience"
	"github.com/asi-chain/indexer/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReorgChecker is the hook the main-chain-verification auxiliary loop
// delegates to on mismatch (4.H owns detection cadence and handling; this
// package only decides when to ask).
type ReorgChecker interface {
	Check(ctx context.Context) error
}

// Engine is the Sync Engine (4.F). It owns no state beyond what's needed to
// gate the auxiliary loops between ticks; the checkpoint itself lives in
// the Store Gateway.
type Engine struct {
	cfg  Config
	gw   *gateway.Gateway
	db   *store.Gateway
	proc *blockproc.Processor
	log  *zap.Logger

	nodeExec *resilience.Executor
	dbExec   *resilience.Executor
	reorg    ReorgChecker
}

// New constructs a Sync Engine. reorg may be nil to skip the main-chain
// verification delegation (e.g. in tests exercising the fetch/process path
// alone).
func New(cfg Config, gw *gateway.Gateway, db *store.Gateway, proc *blockproc.Processor, nodeExec, dbExec *resilience.Executor, reorg ReorgChecker, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, gw: gw, db: db, proc: proc, log: log, nodeExec: nodeExec, dbExec: dbExec, reorg: reorg}
}

// Run polls at cfg.SyncInterval until ctx is cancelled. A failed tick is
// logged, never fatal — the next tick simply retries from the checkpoint.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.SyncInterval)
	defer ticker.Stop()
	for {
		if err := e.Tick(ctx); err != nil {
			e.log.Warn("sync tick failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick runs one iteration of §4.F steps 1-7.
func (e *Engine) Tick(ctx context.Context) error {
	last, err := e.getLastIndexedBlock(ctx)
	if err != nil {
		return errors.Wrap(err, "read checkpoint")
	}

	head, err := e.head(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch head")
	}

	current := last
	if last < head.BlockNumber {
		current, err = e.runBatch(ctx, last, head.BlockNumber)
		if err != nil {
			return err
		}
	}

	if current >= 0 {
		e.runAuxiliaryLoops(ctx, current)
	}
	return nil
}

// runBatch fetches and processes one bounded window of blocks starting
// after last, returning the new checkpoint value (unchanged if nothing
// committed successfully).
func (e *Engine) runBatch(ctx context.Context, last, head int64) (int64, error) {
	start := last + 1
	if last < 0 {
		start = e.cfg.StartFromBlock
	}
	end := start + e.cfg.BatchSize - 1
	if end > head {
		end = head
	}
	if start > end {
		return last, nil
	}

	summaries, err := e.blocksByHeight(ctx, start, end)
	if err != nil {
		return last, errors.Wrap(err, "fetch block summaries")
	}

	var processed int64
	for _, summary := range summaries {
		detail, err := e.blockDetails(ctx, summary.BlockHash)
		if err != nil {
			e.log.Warn("block fetch failed, stopping batch", zap.Int64("block_number", summary.BlockNumber), zap.Error(err))
			break
		}
		if err := e.process(ctx, toBlockPayload(detail)); err != nil {
			e.log.Warn("block process failed, stopping batch", zap.Int64("block_number", summary.BlockNumber), zap.Error(err))
			break
		}
		processed++

		select {
		case <-ctx.Done():
			return e.advanceCheckpoint(ctx, start, processed, last)
		case <-time.After(e.cfg.InterBlockDelay):
		}
	}

	return e.advanceCheckpoint(ctx, start, processed, last)
}

func (e *Engine) advanceCheckpoint(ctx context.Context, start, processed, last int64) (int64, error) {
	if processed == 0 {
		return last, nil
	}
	newCheckpoint := start + processed - 1
	if err := e.setLastIndexedBlock(ctx, newCheckpoint); err != nil {
		return last, errors.Wrap(err, "advance checkpoint")
	}
	return newCheckpoint, nil
}

func (e *Engine) runAuxiliaryLoops(ctx context.Context, current int64) {
	if err := e.refreshValidatorState(ctx, current); err != nil {
		e.log.Warn("validator refresh failed", zap.Error(err))
	}
	if current > 0 && current%e.cfg.EpochLoopEvery == 0 {
		if err := e.refreshEpochTransition(ctx, current); err != nil {
			e.log.Warn("epoch transition refresh failed", zap.Error(err))
		}
	}
	if current > 0 && current%e.cfg.StatsLoopEvery == 0 {
		if err := e.snapshotNetworkStats(ctx, current); err != nil {
			e.log.Warn("network stats snapshot failed", zap.Error(err))
		}
	}
	if current > 0 && current%e.cfg.MainChainLoopEvery == 0 && e.reorg != nil {
		if err := e.reorg.Check(ctx); err != nil {
			e.log.Warn("main-chain verification delegated check failed", zap.Error(err))
		}
	}
}
