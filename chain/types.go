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

// Package chain defines the on-chain entities the indexer materializes:
// blocks, deployments, derived transfers, validators and their bonds, and
// the network-health snapshots derived from them. These are plain records,
// not ORM models — the store package owns all persistence concerns.
package chain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DustPerToken is the smallest-unit scale factor: 1 token = 1e8 dust.
const DustPerToken = 100_000_000

// DeploymentType classifies a deployment's Rholang term by substring rules.
type DeploymentType string

const (
	DeploymentASITransfer        DeploymentType = "asi_transfer"
	DeploymentValidatorOperation DeploymentType = "validator_operation"
	DeploymentFinalizerContract  DeploymentType = "finalizer_contract"
	DeploymentRegistryLookup     DeploymentType = "registry_lookup"
	DeploymentAuctionContract    DeploymentType = "auction_contract"
	DeploymentSmartContract      DeploymentType = "smart_contract"
	DeploymentGenesisMint        DeploymentType = "genesis_mint"
	DeploymentGenesisBond        DeploymentType = "genesis_bond"
)

// DeploymentStatus is intentionally a distinct type from TransferStatus:
// the two vocabularies ("included" vs "success"/"failed"/genesis statuses)
// share no values, and keeping them separate types makes a misassigned
// value a compile error instead of a silent data-quality bug.
type DeploymentStatus string

const (
	DeploymentIncluded DeploymentStatus = "included"
)

// TransferStatus mirrors the deployment's outcome plus the two genesis-only
// synthetic statuses produced during block-0 bootstrap.
type TransferStatus string

const (
	TransferSuccess      TransferStatus = "success"
	TransferFailed       TransferStatus = "failed"
	TransferGenesisMint  TransferStatus = "genesis_mint"
	TransferGenesisBond  TransferStatus = "genesis_bond"
)

// ValidatorStatus reflects the most recent bonds/active-set observation.
type ValidatorStatus string

const (
	ValidatorActive     ValidatorStatus = "active"
	ValidatorBonded     ValidatorStatus = "bonded"
	ValidatorQuarantine ValidatorStatus = "quarantine"
	ValidatorInactive   ValidatorStatus = "inactive"
)

// NetworkHealth is a coarse label derived from participation percentage.
type NetworkHealth string

const (
	HealthHealthy  NetworkHealth = "healthy"
	HealthDegraded NetworkHealth = "degraded"
	HealthCritical NetworkHealth = "critical"
	HealthUnknown  NetworkHealth = "unknown"
)

// Block is a finalized unit of the chain, identified by hash and monotonic
// height. (block_hash, block_number) are 1:1 and a block is written exactly
// once — see store.Session.BlockExists, checked before every block write.
type Block struct {
	BlockHash          string
	BlockNumber        int64
	ParentHash         string
	TimestampMs        int64
	ProposerPublicKey  string
	PreStateHash       string
	PostStateHash      string
	FinalizationStatus string
	BondsMap           map[string]int64 // validator public key -> stake, snapshot at this height
	Justifications     []string         // validator public keys that signed this block
	FaultTolerance      float64          // in [-1, 1]
	Signature          string
	SignatureAlgorithm string
	ShardID            string
	Version            string
	DeployCount        int
}

// Deployment is a single contract invocation included in exactly one block.
type Deployment struct {
	DeployID              string
	BlockHash             string
	DeployerPublicKey     string
	Term                  string
	TimestampMs           int64
	Signature             string
	SignatureAlgorithm    string
	PhloPrice             int64
	PhloLimit             int64
	PhloCost              int64
	ValidAfterBlockNumber int64
	Errored               bool
	ErrorMessage          string
	DeploymentType        DeploymentType
	Status                DeploymentStatus
}

// Transfer is a derived token-movement event extracted from a deployment's
// term (or synthesized during genesis bootstrap). AmountDust must be > 0;
// AmountToken is always AmountDust / DustPerToken computed exactly.
type Transfer struct {
	ID          int64
	DeployID    string
	BlockHash   string
	FromAddress string
	ToAddress   string
	AmountDust  int64
	AmountToken decimal.Decimal
	Status      TransferStatus
}

// NewTransfer builds a Transfer with AmountToken derived exactly from dust.
func NewTransfer(deployID, blockHash, from, to string, amountDust int64, status TransferStatus) Transfer {
	return Transfer{
		DeployID:    deployID,
		BlockHash:   blockHash,
		FromAddress: from,
		ToAddress:   to,
		AmountDust:  amountDust,
		AmountToken: decimal.NewFromInt(amountDust).Shift(-8),
		Status:      status,
	}
}

// Validator is a staking participant, referenced by key rather than owned
// by any block. TotalStake is a monotonic high-water mark: repeated bonds
// observations never decrease it (P9).
type Validator struct {
	PublicKey      string
	DisplayName    string
	TotalStake     int64
	FirstSeenBlock int64
	LastSeenBlock  int64
	Status         ValidatorStatus
}

// ValidatorBond is the stake snapshot for one validator at one block height.
type ValidatorBond struct {
	ID              int64
	BlockHash       string
	ValidatorPubKey string
	Stake           int64
}

// BlockValidator is the justification junction: validator public keys that
// attested to a block. Written post-commit in its own transaction (§4.E
// step 6) so the main block commit never blocks on it.
type BlockValidator struct {
	BlockHash       string
	ValidatorPubKey string
}

// BalanceState is a per-address, per-height snapshot of unbonded/bonded
// holdings. Populated at block 0 from genesis; later extension is out of
// scope for this indexer.
type BalanceState struct {
	ID            int64
	Address       string
	BlockNumber   int64
	UnbondedDust  int64
	UnbondedToken decimal.Decimal
	BondedDust    int64
	BondedToken   decimal.Decimal
}

// TotalDust is the sum of unbonded and bonded holdings.
func (b BalanceState) TotalDust() int64 { return b.UnbondedDust + b.BondedDust }

// EpochTransition records a validator-set-stable window boundary.
type EpochTransition struct {
	EpochNumber       int64
	StartBlock        int64
	EndBlock          int64
	ActiveValidators  int
	QuarantineLength  int
	ObservedAt        time.Time
}

// NetworkStats is a point-in-time snapshot of network participation.
type NetworkStats struct {
	ID               int64
	BlockNumber      int64
	TotalValidators  int
	ActiveValidators int
	TotalStakeDust   int64
	ParticipationPct float64
	Health           NetworkHealth
	ObservedAt       time.Time
}

// IndexerStateKeyLastIndexedBlock is the single required IndexerState key.
const IndexerStateKeyLastIndexedBlock = "last_indexed_block"

// ReorgRecord is the audit row written for every handled reorg.
type ReorgRecord struct {
	ID                   int64
	ForkPoint            int64
	Depth                int64
	OrphanedHashes        []string
	AffectedDeployments   int
	AffectedTransfers     int
	DetectedAt            time.Time
	HandledAt             time.Time
}
