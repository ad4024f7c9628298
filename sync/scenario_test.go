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
	"strings"
	"testing"

	"github.com/asi-chain/indexer/store"
	"github.com/stretchr/testify/require"
)

// One full validator public key ("full" per reBondFull's 130-hex-char
// requirement) standing in for "vA" in the literal scenario.
var scenarioValidatorKey = strings.Repeat("a", 130)

// threeBlockScript answers last-finalized-block with head=2 and serves
// get-blocks-by-height/blocks for exactly three blocks (0, 1, 2), each
// bonding scenarioValidatorKey for a stake of 100.
const threeBlockScript = `
case "$1" in
  last-finalized-block)
    echo "Block Number: 2"
    echo "Block Hash: 0a02"
    echo "Timestamp: 1002"
    echo "Deploy Count: 0"
    ;;
  get-blocks-by-height)
    case "$3" in
      0) echo "Block #0:"; echo "Hash: 0a00"; echo "Timestamp: 1000"; echo "Deploy Count: 0" ;;
      1) echo "Block #1:"; echo "Hash: 0a01"; echo "Timestamp: 1001"; echo "Deploy Count: 0" ;;
      2) echo "Block #2:"; echo "Hash: 0a02"; echo "Timestamp: 1002"; echo "Deploy Count: 0" ;;
    esac
    ;;
  blocks)
    case "$3" in
      0a00) echo "{\"blockInfo\":{\"blockHash\":\"0a00\",\"blockNumber\":0,\"parentHash\":\"\",\"timestamp\":1000,\"sender\":\"\",\"status\":\"Finalized\",\"bonds\":{\"` + scenarioValidatorKey + `\":100},\"justifications\":[]},\"deploys\":[]}" ;;
      0a01) echo "{\"blockInfo\":{\"blockHash\":\"0a01\",\"blockNumber\":1,\"parentHash\":\"0a00\",\"timestamp\":1001,\"sender\":\"\",\"status\":\"Finalized\",\"bonds\":{\"` + scenarioValidatorKey + `\":100},\"justifications\":[]},\"deploys\":[]}" ;;
      0a02) echo "{\"blockInfo\":{\"blockHash\":\"0a02\",\"blockNumber\":2,\"parentHash\":\"0a01\",\"timestamp\":1002,\"sender\":\"\",\"status\":\"Finalized\",\"bonds\":{\"` + scenarioValidatorKey + `\":100},\"justifications\":[]},\"deploys\":[]}" ;;
    esac
    ;;
  bonds)
    echo "` + scenarioValidatorKey + ` (stake: 100)"
    ;;
  active-validators)
    echo ""
    ;;
esac
`

// Scenario 1 ("Empty start"): store empty, head at block 2, every block
// bonds one validator for a stake of 100. Expect 3 Block rows, one
// Validator row with total_stake=100/first_seen_block=0/last_seen_block=2,
// 3 ValidatorBond rows, and last_indexed_block=2.
func TestScenario_EmptyStart(t *testing.T) {
	engine, db := newTestEngine(t, threeBlockScript)
	engine.cfg.BatchSize = 1 // one block per tick, so the validator snapshot advances alongside each block
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Tick(ctx))
	}

	last, err := db.GetLastIndexedBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, last)

	blockCount, err := db.Count(ctx, `SELECT COUNT(*) FROM blocks`)
	require.NoError(t, err)
	require.Equal(t, 3, blockCount)

	var totalStake, firstSeen, lastSeen int64
	require.NoError(t, db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
		row := sess.RawQueryRow(ctx, `SELECT total_stake, first_seen_block, last_seen_block FROM validators WHERE public_key = ?`, scenarioValidatorKey)
		return row.Scan(&totalStake, &firstSeen, &lastSeen)
	}))
	require.EqualValues(t, 100, totalStake)
	require.EqualValues(t, 0, firstSeen)
	require.EqualValues(t, 2, lastSeen)

	bondCount, err := db.Count(ctx, `SELECT COUNT(*) FROM validator_bonds WHERE validator_pubkey = ?`, scenarioValidatorKey)
	require.NoError(t, err)
	require.Equal(t, 3, bondCount)
}
