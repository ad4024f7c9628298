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
	"fmt"
	"sort"

	"github.com/asi-chain/indexer/chain"
	"github.com/shopspring/decimal"
)

// GenesisAllocation is one initial ASI grant recorded at chain genesis.
// The legacy indexer could never reliably discover these from on-chain
// state alone (see DESIGN.md, blockproc) — they are supplied by configuration.
type GenesisAllocation struct {
	Address    string
	AmountDust int64
}

// genesisBootstrap is everything block 0 adds beyond the ordinary per-block
// writes: a mint deployment+transfer per allocation, a bond deployment+
// transfer per validator in the genesis bonds map, and the corresponding
// BalanceState rows (allocations fully unbonded, validators fully bonded,
// the PoS vault holding the sum of all bonded stake).
type genesisBootstrap struct {
	Deployments    []chain.Deployment
	Transfers      []chain.Transfer
	BalanceStates  []chain.BalanceState
}

func buildGenesisBootstrap(blockHash string, timestampMs int64, allocations []GenesisAllocation, bondsMap map[string]int64) genesisBootstrap {
	var boot genesisBootstrap

	for i, alloc := range allocations {
		if alloc.AmountDust <= 0 {
			continue
		}
		deployID := fmt.Sprintf("genesis_allocation_%d", i+1)
		boot.Deployments = append(boot.Deployments, chain.Deployment{
			DeployID:          deployID,
			BlockHash:         blockHash,
			DeployerPublicKey: chain.GenesisMintAddress,
			Term:              fmt.Sprintf("Genesis ASI allocation to %s: %d dust", alloc.Address, alloc.AmountDust),
			TimestampMs:       timestampMs,
			Signature:         deployID,
			DeploymentType:    chain.DeploymentGenesisMint,
			Status:            chain.DeploymentIncluded,
		})
		boot.Transfers = append(boot.Transfers, chain.NewTransfer(
			deployID, blockHash, chain.GenesisMintAddress, alloc.Address, alloc.AmountDust, chain.TransferGenesisMint,
		))
		boot.BalanceStates = append(boot.BalanceStates, chain.BalanceState{
			Address:       alloc.Address,
			BlockNumber:   0,
			UnbondedDust:  alloc.AmountDust,
			UnbondedToken: decimal.NewFromInt(alloc.AmountDust).Shift(-8),
			BondedDust:    0,
			BondedToken:   decimal.Zero,
		})
	}

	validatorKeys := make([]string, 0, len(bondsMap))
	for key := range bondsMap {
		validatorKeys = append(validatorKeys, key)
	}
	sort.Strings(validatorKeys) // deterministic ordering (P5) — map iteration order is not

	var totalBondedDust int64
	for i, key := range validatorKeys {
		stake := bondsMap[key]
		if stake <= 0 {
			continue
		}
		deployID := fmt.Sprintf("genesis_bond_%d", i+1)
		boot.Deployments = append(boot.Deployments, chain.Deployment{
			DeployID:          deployID,
			BlockHash:         blockHash,
			DeployerPublicKey: key,
			Term:              fmt.Sprintf("Genesis validator bond: %d dust staked", stake),
			TimestampMs:       timestampMs,
			Signature:         deployID,
			DeploymentType:    chain.DeploymentGenesisBond,
			Status:            chain.DeploymentIncluded,
		})
		boot.Transfers = append(boot.Transfers, chain.NewTransfer(
			deployID, blockHash, key, chain.PoSVaultAddress, stake, chain.TransferGenesisBond,
		))
		boot.BalanceStates = append(boot.BalanceStates, chain.BalanceState{
			Address:       key,
			BlockNumber:   0,
			UnbondedDust:  0,
			UnbondedToken: decimal.Zero,
			BondedDust:    stake,
			BondedToken:   decimal.NewFromInt(stake).Shift(-8),
		})
		totalBondedDust += stake
	}

	if totalBondedDust > 0 {
		boot.BalanceStates = append(boot.BalanceStates, chain.BalanceState{
			Address:       chain.PoSVaultAddress,
			BlockNumber:   0,
			UnbondedDust:  0,
			UnbondedToken: decimal.Zero,
			BondedDust:    totalBondedDust,
			BondedToken:   decimal.NewFromInt(totalBondedDust).Shift(-8),
		})
	}

	return boot
}
