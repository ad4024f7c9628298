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

// Package blockproc is the Block Processor (4.E): given one full block
// payload, it writes the block, its validator bonds, its deployments and
// derived transfers, and (for block 0) the genesis bootstrap rows, as one
// atomic unit.
package blockproc

import (
	"strings"

	"github.com/asi-chain/indexer/chain"
)

// ClassifyDeployment applies the fixed substring rules, in order, to a
// deployment's Rholang term.
func ClassifyDeployment(term string) chain.DeploymentType {
	switch {
	case strings.Contains(term, "ASIVault") && strings.Contains(term, "transfer"):
		return chain.DeploymentASITransfer
	case strings.Contains(term, "validator") || strings.Contains(term, "bond"):
		return chain.DeploymentValidatorOperation
	case strings.Contains(term, "finalizer"):
		return chain.DeploymentFinalizerContract
	case strings.Contains(term, "registry") && strings.Contains(term, "lookup"):
		return chain.DeploymentRegistryLookup
	case strings.Contains(term, "auction"):
		return chain.DeploymentAuctionContract
	default:
		return chain.DeploymentSmartContract
	}
}
