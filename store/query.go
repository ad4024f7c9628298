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

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// BlockHashAt returns the stored hash for a block number, or ("", false)
// if no such block is stored.
func (g *Gateway) BlockHashAt(ctx context.Context, blockNumber int64) (string, bool, error) {
	var hash string
	row := g.db.QueryRowContext(ctx, `SELECT block_hash FROM blocks WHERE block_number = ?`, blockNumber)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "read block hash")
	}
	return hash, true, nil
}

// BlockHashesInRange returns stored (block_number -> block_hash) pairs for
// [start, end], used by the reorg detector to diff against canonical frames.
func (g *Gateway) BlockHashesInRange(ctx context.Context, start, end int64) (map[int64]string, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT block_number, block_hash FROM blocks WHERE block_number BETWEEN ? AND ?`, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "query block hashes in range")
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var n int64
		var h string
		if err := rows.Scan(&n, &h); err != nil {
			return nil, errors.Wrap(err, "scan block hash row")
		}
		out[n] = h
	}
	return out, rows.Err()
}

// MaxBlockNumber returns the highest stored block number, or -1 if empty.
func (g *Gateway) MaxBlockNumber(ctx context.Context) (int64, error) {
	var n sql.NullInt64
	row := g.db.QueryRowContext(ctx, `SELECT MAX(block_number) FROM blocks`)
	if err := row.Scan(&n); err != nil {
		return 0, errors.Wrap(err, "read max block number")
	}
	if !n.Valid {
		return -1, nil
	}
	return n.Int64, nil
}

// IsEmpty reports whether the blocks table has no rows yet.
func (g *Gateway) IsEmpty(ctx context.Context) (bool, error) {
	n, err := g.MaxBlockNumber(ctx)
	return n < 0, err
}

// Count runs an arbitrary COUNT(*)-shaped query and scans its single
// integer result, a small convenience for diagnostics and tests.
func (g *Gateway) Count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}

// TotalValidatorStake sums total_stake across every known validator, used
// by the network-stats auxiliary loop's participation calculation.
func (g *Gateway) TotalValidatorStake(ctx context.Context) (int64, error) {
	var n sql.NullInt64
	if err := g.db.QueryRowContext(ctx, `SELECT SUM(total_stake) FROM validators`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "sum validator stake")
	}
	return n.Int64, nil
}
