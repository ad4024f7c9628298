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
	"strconv"

	"github.com/asi-chain/indexer/blockproc"
	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/gateway"
)

// toBlockPayload translates a decoded CLI BlockDetail into the processor's
// domain-level payload. The gateway package has no knowledge of chain or
// blockproc; this is the one place the two vocabularies meet.
func toBlockPayload(d gateway.BlockDetail) blockproc.BlockPayload {
	info := d.Info

	bonds := make(map[string]int64, len(info.Bonds))
	for _, b := range info.Bonds {
		bonds[b.ValidatorKey] = b.Stake
	}

	deploys := make([]blockproc.DeployPayload, 0, len(d.Deploys))
	for _, dep := range d.Deploys {
		deploys = append(deploys, blockproc.DeployPayload{
			DeployID:          dep.DeployID,
			DeployerPublicKey: dep.Deployer,
			Term:              dep.Term,
			TimestampMs:       dep.Timestamp,
			PhloCost:          dep.Cost,
			Errored:           dep.ErrorMsg != "",
			ErrorMessage:      dep.ErrorMsg,
		})
	}

	return blockproc.BlockPayload{
		Block: chain.Block{
			BlockHash:          info.BlockHash,
			BlockNumber:        info.BlockNumber,
			ParentHash:         info.ParentHash,
			TimestampMs:        info.Timestamp,
			ProposerPublicKey:  info.Sender,
			PreStateHash:       info.PreStateHash,
			PostStateHash:      info.PostStateHash,
			FinalizationStatus: info.Status,
			BondsMap:           bonds,
			Justifications:     info.Justifications,
			FaultTolerance:     info.FaultTolerance,
			Signature:          info.Sig,
			SignatureAlgorithm: info.SigAlgorithm,
			ShardID:            info.ShardId,
			Version:            versionString(info.Version),
			DeployCount:        len(d.Deploys),
		},
		Deploys: deploys,
	}
}

func versionString(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
