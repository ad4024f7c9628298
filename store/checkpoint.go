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
	"strconv"

	"github.com/asi-chain/indexer/chain"
	"github.com/pkg/errors"
)

// GetLastIndexedBlock reads IndexerState's required key, returning -1 if
// the store is empty (no block indexed yet).
func (g *Gateway) GetLastIndexedBlock(ctx context.Context) (int64, error) {
	var value string
	row := g.db.QueryRowContext(ctx, `SELECT value FROM indexer_state WHERE key = ?`, chain.IndexerStateKeyLastIndexedBlock)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return -1, nil
		}
		return 0, errors.Wrap(err, "read last_indexed_block")
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse last_indexed_block")
	}
	return n, nil
}

// SetLastIndexedBlock advances the checkpoint in its own transaction,
// separate from the block write it follows (§5 ordering).
func (g *Gateway) SetLastIndexedBlock(ctx context.Context, n int64) error {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO indexer_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, chain.IndexerStateKeyLastIndexedBlock, strconv.FormatInt(n, 10))
	if err != nil {
		return errors.Wrap(err, "advance last_indexed_block")
	}
	return nil
}
