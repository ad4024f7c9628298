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
	"os"
	"path/filepath"
	"testing"

	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/gateway"
	"github.com/asi-chain/indexer/resilience"
	"github.com/asi-chain/indexer/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-cli.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const divergeAtBlock2Script = `
case "$1" in
  show-main-chain)
    echo "Block #0:"
    echo "Hash: 0b00"
    echo "Block #1:"
    echo "Hash: 0b01"
    echo "Block #2:"
    echo "Hash: 0c02"
    echo "Block #3:"
    echo "Hash: 0c03"
    echo "Block #4:"
    echo "Hash: 0c04"
    ;;
esac
`

func seedBlocks(t *testing.T, db *store.Gateway, hashes []string) {
	t.Helper()
	ctx := context.Background()
	for n, hash := range hashes {
		require.NoError(t, db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
			return sess.InsertBlock(ctx, chain.Block{BlockHash: hash, BlockNumber: int64(n), ParentHash: ""})
		}))
	}
	require.NoError(t, db.SetLastIndexedBlock(ctx, int64(len(hashes)-1)))
}

func newTestHandler(t *testing.T, script string) (*Handler, *store.Gateway) {
	t.Helper()
	db, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	gw := gateway.New(gateway.DefaultConfig(fakeCLI(t, script), "localhost", 40401, 40403), nil)
	nodeExec := resilience.NewExecutor(resilience.NodeOperationsConfig(), prometheus.NewRegistry())
	dbExec := resilience.NewExecutor(resilience.DatabaseOperationsConfig(), prometheus.NewRegistry())

	cfg := DefaultConfig()
	cfg.ConfirmationDepth = 0
	cfg.MaxReorgDepth = 10

	return New(cfg, gw, db, nodeExec, dbExec, nil), db
}

func TestCheck_DivergenceFound_RollsBackAndRewindsCheckpoint(t *testing.T) {
	handler, db := newTestHandler(t, divergeAtBlock2Script)
	seedBlocks(t, db, []string{"0b00", "0b01", "0b02", "0b03", "0b04"})
	ctx := context.Background()

	require.NoError(t, handler.Check(ctx))

	last, err := db.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), last)

	count, err := db.Count(ctx, `SELECT COUNT(*) FROM blocks`)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	reorgCount, err := db.Count(ctx, `SELECT COUNT(*) FROM reorgs WHERE fork_point = 2`)
	require.NoError(t, err)
	require.Equal(t, 1, reorgCount)
}

func TestCheck_NoDivergence_LeavesStoreUntouched(t *testing.T) {
	handler, db := newTestHandler(t, `
case "$1" in
  show-main-chain)
    echo "Block #0:"
    echo "Hash: 0b00"
    echo "Block #1:"
    echo "Hash: 0b01"
    ;;
esac
`)
	seedBlocks(t, db, []string{"0b00", "0b01"})
	ctx := context.Background()

	require.NoError(t, handler.Check(ctx))

	last, err := db.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), last)

	count, err := db.Count(ctx, `SELECT COUNT(*) FROM blocks`)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestAudit_ReportsMissingAndOrphanedRows(t *testing.T) {
	handler, db := newTestHandler(t, divergeAtBlock2Script)
	ctx := context.Background()

	require.NoError(t, db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
		if err := sess.InsertBlock(ctx, chain.Block{BlockHash: "0b00", BlockNumber: 0, ParentHash: ""}); err != nil {
			return err
		}
		return sess.InsertBlock(ctx, chain.Block{BlockHash: "0b02", BlockNumber: 2, ParentHash: "does-not-exist"})
	}))

	result, err := handler.Audit(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, result.MissingBlockNumbers)
	require.Equal(t, []string{"0b02"}, result.OrphanedParentHashes)
}
