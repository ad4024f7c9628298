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

// RollbackBlocks deletes every row owned by the blocks in [fromNumber, ...]
// (all blocks at or above the fork point), leaves-first, then the Blocks
// themselves — the exact order the legacy reorg handler used: BalanceState,
// Transfer, Deployment, ValidatorBond, BlockValidator, Block. Validators
// are never deleted; they are independent per §3's ownership rules.
//
// Returns the count of affected deployments and transfers for the
// ReorgRecord audit row.
func (s *Session) RollbackBlocks(ctx context.Context, fromNumber int64) (affectedDeployments, affectedTransfers int, err error) {
	hashes, err := s.blockHashesFrom(ctx, fromNumber)
	if err != nil {
		return 0, 0, err
	}
	if len(hashes) == 0 {
		return 0, 0, nil
	}

	placeholders, args := inClause(hashes)

	if _, err := s.RawExec(ctx, `DELETE FROM balance_states WHERE block_number >= ?`, fromNumber); err != nil {
		return 0, 0, errors.Wrap(err, "rollback balance_states")
	}

	transferCount, err := s.countWhere(ctx, `SELECT COUNT(*) FROM transfers WHERE block_hash IN (`+placeholders+`)`, args)
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.RawExec(ctx, `DELETE FROM transfers WHERE block_hash IN (`+placeholders+`)`, args...); err != nil {
		return 0, 0, errors.Wrap(err, "rollback transfers")
	}

	deployCount, err := s.countWhere(ctx, `SELECT COUNT(*) FROM deployments WHERE block_hash IN (`+placeholders+`)`, args)
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.RawExec(ctx, `DELETE FROM deployments WHERE block_hash IN (`+placeholders+`)`, args...); err != nil {
		return 0, 0, errors.Wrap(err, "rollback deployments")
	}

	if _, err := s.RawExec(ctx, `DELETE FROM validator_bonds WHERE block_hash IN (`+placeholders+`)`, args...); err != nil {
		return 0, 0, errors.Wrap(err, "rollback validator_bonds")
	}

	if _, err := s.RawExec(ctx, `DELETE FROM block_validators WHERE block_hash IN (`+placeholders+`)`, args...); err != nil {
		return 0, 0, errors.Wrap(err, "rollback block_validators")
	}

	if _, err := s.RawExec(ctx, `DELETE FROM blocks WHERE block_number >= ?`, fromNumber); err != nil {
		return 0, 0, errors.Wrap(err, "rollback blocks")
	}

	return deployCount, transferCount, nil
}

func (s *Session) blockHashesFrom(ctx context.Context, fromNumber int64) ([]string, error) {
	rows, err := s.RawQuery(ctx, `SELECT block_hash FROM blocks WHERE block_number >= ?`, fromNumber)
	if err != nil {
		return nil, errors.Wrap(err, "list blocks at/above fork point")
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, errors.Wrap(err, "scan block hash")
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

func (s *Session) countWhere(ctx context.Context, query string, args []any) (int, error) {
	var n int
	if err := s.RawQueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count rows")
	}
	return n, nil
}

func inClause(values []string) (string, []any) {
	placeholders := ""
	args := make([]any, len(values))
	for i, v := range values {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args[i] = v
	}
	return placeholders, args
}
