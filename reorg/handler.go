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

package reorg

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/gateway"
	"github.com/asi-chain/indexer/resilience"
	"github.com/asi-chain/indexer/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Handler is the Reorg Handler (4.H).
type Handler struct {
	cfg Config
	gw  *gateway.Gateway
	db  *store.Gateway
	log *zap.Logger

	nodeExec *resilience.Executor
	dbExec   *resilience.Executor

	mu           sync.Mutex
	lastVerified int64 // highest height confirmed divergence-free; the next window starts here (inclusive)
}

// New constructs a Reorg Handler.
func New(cfg Config, gw *gateway.Gateway, db *store.Gateway, nodeExec, dbExec *resilience.Executor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{cfg: cfg, gw: gw, db: db, nodeExec: nodeExec, dbExec: dbExec, log: log, lastVerified: -1}
}

// Run polls at cfg.DetectionInterval until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.DetectionInterval)
	defer ticker.Stop()
	for {
		if err := h.Check(ctx); err != nil {
			h.log.Warn("reorg detection failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check runs one detection-and-handle pass. It also satisfies the Sync
// Engine's ReorgChecker interface, letting the main-chain-verification
// auxiliary loop (4.G) delegate an out-of-cadence check.
func (h *Handler) Check(ctx context.Context) error {
	headLocal, err := h.maxBlockNumber(ctx)
	if err != nil {
		return errors.Wrap(err, "read local head")
	}
	if headLocal < 0 {
		return nil
	}

	h.mu.Lock()
	lastVerified := h.lastVerified
	h.mu.Unlock()

	windowStart := headLocal - h.cfg.MaxReorgDepth
	if lastVerified > windowStart {
		windowStart = lastVerified
	}
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := headLocal - h.cfg.ConfirmationDepth
	if windowStart > windowEnd {
		return nil
	}

	stored, err := h.blockHashesInRange(ctx, windowStart, windowEnd)
	if err != nil {
		return errors.Wrap(err, "read stored window")
	}

	depth := int(windowEnd-windowStart) + 1
	canonicalFrames, err := h.mainChain(ctx, depth)
	if err != nil {
		return errors.Wrap(err, "fetch canonical window")
	}
	canonical := make(map[int64]string, len(canonicalFrames))
	for _, f := range canonicalFrames {
		canonical[f.BlockNumber] = f.BlockHash
	}

	forkPoint := int64(-1)
	for n := windowStart; n <= windowEnd; n++ {
		canonicalHash, ok := canonical[n]
		if !ok {
			continue // canonical window didn't reach this height, nothing to compare
		}
		if stored[n] != canonicalHash {
			forkPoint = n
			break
		}
	}

	if forkPoint < 0 {
		h.mu.Lock()
		h.lastVerified = windowEnd
		h.mu.Unlock()
		return nil
	}

	h.log.Warn("fork point detected", zap.Int64("fork_point", forkPoint), zap.Int64("head_local", headLocal))
	if err := h.handle(ctx, forkPoint); err != nil {
		return errors.Wrap(err, "handle reorg")
	}

	h.mu.Lock()
	h.lastVerified = forkPoint - 1
	h.mu.Unlock()
	return nil
}

// handle is the one atomic path (§4.H): capture the orphaned hashes, delete
// dependency-ordered rows at/above the fork point, rewind the checkpoint,
// and record the audit row, all in one transaction.
func (h *Handler) handle(ctx context.Context, forkPoint int64) error {
	now := time.Now()
	_, err := h.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, h.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
			rows, err := sess.RawQuery(ctx, `SELECT block_hash FROM blocks WHERE block_number >= ? ORDER BY block_number ASC`, forkPoint)
			if err != nil {
				return err
			}
			var orphaned []string
			for rows.Next() {
				var hash string
				if err := rows.Scan(&hash); err != nil {
					rows.Close()
					return err
				}
				orphaned = append(orphaned, hash)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()
			sort.Strings(orphaned) // deterministic audit-row contents (P5)

			affectedDeployments, affectedTransfers, err := sess.RollbackBlocks(ctx, forkPoint)
			if err != nil {
				return err
			}

			if _, err := sess.RawExec(ctx, `
				INSERT INTO indexer_state (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, chain.IndexerStateKeyLastIndexedBlock, checkpointValue(forkPoint-1)); err != nil {
				return err
			}

			return sess.InsertReorgRecord(ctx, chain.ReorgRecord{
				ForkPoint:           forkPoint,
				Depth:               int64(len(orphaned)),
				OrphanedHashes:      orphaned,
				AffectedDeployments: affectedDeployments,
				AffectedTransfers:   affectedTransfers,
				DetectedAt:          now,
				HandledAt:           time.Now(),
			})
		})
	})
	return err
}
