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
	"testing"

	"github.com/asi-chain/indexer/chain"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	require.NoError(t, g.EnsureSchema(context.Background()))
	return g
}

func testBlock(hash string, number int64) chain.Block {
	return chain.Block{
		BlockHash:           hash,
		BlockNumber:         number,
		ParentHash:          "parent",
		TimestampMs:         1000,
		ProposerPublicKey:   "vA",
		PreStateHash:        "pre",
		PostStateHash:       "post",
		FinalizationStatus:  "finalized",
		BondsMap:            map[string]int64{"vA": 100},
		Justifications:      []string{"vA"},
		FaultTolerance:      0.5,
		Signature:           "sig",
		SignatureAlgorithm:  "ed25519",
		ShardID:             "root",
		Version:             "1",
		DeployCount:         0,
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	g := newTestGateway(t)
	require.NoError(t, g.EnsureSchema(context.Background()))
}

func TestInsertBlock_And_BlockExists(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	err := g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		exists, err := sess.BlockExists(ctx, "h0")
		require.NoError(t, err)
		require.False(t, exists)
		return sess.InsertBlock(ctx, testBlock("h0", 0))
	})
	require.NoError(t, err)

	err = g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		exists, err := sess.BlockExists(ctx, "h0")
		require.NoError(t, err)
		require.True(t, exists)
		return nil
	})
	require.NoError(t, err)
}

func TestCheckpoint_DefaultsToMinusOne(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	n, err := g.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, -1, n)

	require.NoError(t, g.SetLastIndexedBlock(ctx, 5))
	n, err = g.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)

	require.NoError(t, g.SetLastIndexedBlock(ctx, 9))
	n, err = g.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 9, n)
}

func TestUpsertValidator_StakeNeverDecreases(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	err := g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		require.NoError(t, sess.InsertBlock(ctx, testBlock("h0", 0)))
		return sess.UpsertValidator(ctx, "vA", 100, 0, chain.ValidatorActive)
	})
	require.NoError(t, err)

	err = g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		require.NoError(t, sess.InsertBlock(ctx, testBlock("h1", 1)))
		return sess.UpsertValidator(ctx, "vA", 50, 1, chain.ValidatorActive)
	})
	require.NoError(t, err)

	var stake int64
	var lastSeen int64
	row := g.db.QueryRowContext(ctx, `SELECT total_stake, last_seen_block FROM validators WHERE public_key = ?`, "vA")
	require.NoError(t, row.Scan(&stake, &lastSeen))
	require.EqualValues(t, 100, stake) // high-water mark, 50 < 100 so unchanged
	require.EqualValues(t, 1, lastSeen)
}

func TestRollbackBlocks_DeletesOwnedRowsAndLeavesValidators(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	err := g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		for i, h := range []string{"h0", "h1", "h2"} {
			b := testBlock(h, int64(i))
			if err := sess.InsertBlock(ctx, b); err != nil {
				return err
			}
			if err := sess.UpsertValidator(ctx, "vA", 100, int64(i), chain.ValidatorActive); err != nil {
				return err
			}
			if err := sess.InsertValidatorBond(ctx, h, "vA", 100); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = g.WithSession(ctx, func(ctx context.Context, sess *Session) error {
		deploys, transfers, err := sess.RollbackBlocks(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, 0, deploys)
		require.Equal(t, 0, transfers)
		return nil
	})
	require.NoError(t, err)

	maxN, err := g.MaxBlockNumber(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, maxN)

	var validatorCount int
	require.NoError(t, g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM validators`).Scan(&validatorCount))
	require.Equal(t, 1, validatorCount) // validators are independent, never rolled back
}
