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

package blockproc

import (
	"context"
	"testing"

	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Gateway {
	t.Helper()
	g, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	require.NoError(t, g.EnsureSchema(context.Background()))
	return g
}

func TestProcess_GenesisBlock_BootstrapsAllocationsAndBonds(t *testing.T) {
	db := newTestStore(t)
	proc := New(db, nil, []GenesisAllocation{{Address: "1111holderaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", AmountDust: 1_000_000_000}}, nil, true)

	payload := BlockPayload{
		Block: chain.Block{
			BlockHash:   "h0",
			BlockNumber: 0,
			BondsMap:    map[string]int64{"vA": 100},
		},
	}
	require.NoError(t, proc.Process(context.Background(), payload))

	deployCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM deployments`)
	require.NoError(t, err)
	require.Equal(t, 2, deployCount) // 1 allocation + 1 bond

	transferCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM transfers`)
	require.NoError(t, err)
	require.Equal(t, 2, transferCount)

	balanceCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM balance_states`)
	require.NoError(t, err)
	require.Equal(t, 3, balanceCount) // allocation + validator + PoS vault
}

func TestProcess_Idempotent_OnRepeatedBlockHash(t *testing.T) {
	db := newTestStore(t)
	proc := New(db, nil, nil, nil, true)

	payload := BlockPayload{Block: chain.Block{BlockHash: "h1", BlockNumber: 1, BondsMap: map[string]int64{"vA": 50}}}
	require.NoError(t, proc.Process(context.Background(), payload))
	require.NoError(t, proc.Process(context.Background(), payload))

	blockCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM blocks`)
	require.NoError(t, err)
	require.Equal(t, 1, blockCount)
}

func TestProcess_DeploysClassifiedAndTransfersExtracted(t *testing.T) {
	db := newTestStore(t)
	proc := New(db, nil, nil, nil, true)

	from := "1111" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaafrom"
	to := "1111" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaato2"
	payload := BlockPayload{
		Block: chain.Block{BlockHash: "h2", BlockNumber: 2},
		Deploys: []DeployPayload{
			{
				DeployID:          "d1",
				DeployerPublicKey: "deployer1",
				Term:              `match ("` + from + `", "` + to + `", 100000000)`,
			},
		},
	}
	require.NoError(t, proc.Process(context.Background(), payload))

	transferCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM transfers WHERE deploy_id = 'd1'`)
	require.NoError(t, err)
	require.Equal(t, 1, transferCount)
}

func TestProcess_RevTransferExtractionDisabled_SkipsExtractor(t *testing.T) {
	db := newTestStore(t)
	proc := New(db, nil, nil, nil, false)

	from := "1111" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaafrom"
	to := "1111" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaato2"
	payload := BlockPayload{
		Block: chain.Block{BlockHash: "h3", BlockNumber: 3},
		Deploys: []DeployPayload{
			{
				DeployID:          "d2",
				DeployerPublicKey: "deployer1",
				Term:              `match ("` + from + `", "` + to + `", 100000000)`,
			},
		},
	}
	require.NoError(t, proc.Process(context.Background(), payload))

	deployCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM deployments WHERE deploy_id = 'd2'`)
	require.NoError(t, err)
	require.Equal(t, 1, deployCount)

	transferCount, err := db.Count(context.Background(), `SELECT COUNT(*) FROM transfers WHERE deploy_id = 'd2'`)
	require.NoError(t, err)
	require.Equal(t, 0, transferCount)
}
