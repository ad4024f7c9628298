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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asi-chain/indexer/blockproc"
	"github.com/asi-chain/indexer/gateway"
	"github.com/asi-chain/indexer/resilience"
	"github.com/asi-chain/indexer/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeCLI writes an executable shell script standing in for the observer
// node's CLI binary, dispatching on its first argument the way the real
// binary's subcommands do.
func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-cli.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const genesisOnlyScript = `
case "$1" in
  last-finalized-block)
    echo "Block Number: 0"
    echo "Block Hash: 0a11"
    echo "Timestamp: 1000"
    echo "Deploy Count: 0"
    ;;
  get-blocks-by-height)
    echo "Block #0:"
    echo "Hash: 0a11"
    echo "Timestamp: 1000"
    echo "Deploy Count: 0"
    ;;
  blocks)
    echo "{\"blockInfo\":{\"blockHash\":\"0a11\",\"blockNumber\":0,\"parentHash\":\"\",\"timestamp\":1000,\"sender\":\"\",\"status\":\"Finalized\",\"bonds\":{\"validatorA\":10},\"justifications\":[]},\"deploys\":[]}"
    ;;
  bonds)
    echo ""
    ;;
  active-validators)
    echo ""
    ;;
esac
`

func newTestEngine(t *testing.T, cliScript string) (*Engine, *store.Gateway) {
	t.Helper()
	db, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	gw := gateway.New(gateway.DefaultConfig(fakeCLI(t, cliScript), "localhost", 40401, 40403), nil)
	proc := blockproc.New(db, nil, nil, nil, true)
	nodeExec := resilience.NewExecutor(resilience.NodeOperationsConfig(), prometheus.NewRegistry())
	dbExec := resilience.NewExecutor(resilience.DatabaseOperationsConfig(), prometheus.NewRegistry())

	cfg := DefaultConfig()
	cfg.InterBlockDelay = time.Millisecond
	cfg.BatchSize = 10

	return New(cfg, gw, db, proc, nodeExec, dbExec, nil, nil), db
}

func TestTick_GenesisOnly_ProcessesAndAdvancesCheckpoint(t *testing.T) {
	engine, db := newTestEngine(t, genesisOnlyScript)
	ctx := context.Background()

	require.NoError(t, engine.Tick(ctx))

	last, err := db.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), last)

	exists, err := db.Count(ctx, `SELECT COUNT(*) FROM blocks WHERE block_hash = '0a11'`)
	require.NoError(t, err)
	require.Equal(t, 1, exists)
}

func TestTick_NothingNew_IsANoop(t *testing.T) {
	engine, db := newTestEngine(t, genesisOnlyScript)
	ctx := context.Background()

	require.NoError(t, engine.Tick(ctx))
	require.NoError(t, engine.Tick(ctx))

	last, err := db.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), last)

	count, err := db.Count(ctx, `SELECT COUNT(*) FROM blocks`)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
