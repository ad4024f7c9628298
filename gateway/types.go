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

package gateway

// HeadInfo is the decoded response of last-finalized-block.
type HeadInfo struct {
	BlockNumber int64
	BlockHash   string
	Timestamp   int64
	DeployCount int
}

// BlockSummary is one frame from get-blocks-by-height.
type BlockSummary struct {
	BlockNumber int64
	BlockHash   string
	Timestamp   int64
	Sender      string
	DeployCount int
}

// BondEntry is one validator/stake pair as observed in a bonds_map or a
// bonds() response, after abbreviated-key reassembly.
type BondEntry struct {
	ValidatorKey string
	Stake        int64
	resolved     bool
}

// BlockInfo is the JSON-embedded `blockInfo` object from `blocks`.
type BlockInfo struct {
	BlockHash          string
	BlockNumber        int64
	ParentHash         string
	Timestamp          int64
	Sender             string
	PreStateHash       string
	PostStateHash      string
	Status             string
	Bonds              []BondEntry
	Justifications     []string
	FaultTolerance     float64
	Sig                string
	SigAlgorithm       string
	ShardId            string
	Version            int
}

// DeployInfo is one deploy frame embedded in `blocks`/`get-deploy` output.
type DeployInfo struct {
	DeployID  string
	Term      string
	Deployer  string
	Timestamp int64
	Cost      int64
	ErrorMsg  string
}

// BlockDetail is the combined `blocks` response: blockInfo + deploys.
type BlockDetail struct {
	Info    BlockInfo
	Deploys []DeployInfo
}

// EpochInfo is the decoded key/value response of epoch-info.
type EpochInfo struct {
	CurrentEpoch     int64
	BlocksUntilNext  int64
	EpochLength      int64
	ActiveValidators int
	QuarantineLength int
}

// ConsensusSnapshot is the decoded key/value response of network-consensus.
type ConsensusSnapshot struct {
	Status           string
	ActiveValidators int
	FaultTolerance   float64
	BondedRatio      float64
}

// ValidatorEntry is one line from active-validators.
type ValidatorEntry struct {
	ValidatorKey string
	Stake        int64
	Status       string
}
