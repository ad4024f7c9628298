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

	"github.com/pkg/errors"
)

// MissingBlockNumbers reports every height in [0, MaxBlockNumber] with no
// stored row, the first half of the chain-integrity audit (§4.H).
func (g *Gateway) MissingBlockNumbers(ctx context.Context) ([]int64, error) {
	max, err := g.MaxBlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	if max < 0 {
		return nil, nil
	}

	rows, err := g.db.QueryContext(ctx, `SELECT block_number FROM blocks ORDER BY block_number ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query stored block numbers")
	}
	defer rows.Close()

	present := make(map[int64]bool)
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, errors.Wrap(err, "scan block number")
		}
		present[n] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for n := int64(0); n <= max; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return missing, nil
}

// OrphanedParentHashes reports the block_hash of every non-genesis block
// whose parent_hash does not resolve to a stored block, the second half of
// the chain-integrity audit (§4.H).
func (g *Gateway) OrphanedParentHashes(ctx context.Context) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT b.block_hash FROM blocks b
		WHERE b.block_number > 0
		AND NOT EXISTS (SELECT 1 FROM blocks p WHERE p.block_hash = b.parent_hash)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query orphaned parent hashes")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, errors.Wrap(err, "scan orphaned block hash")
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
