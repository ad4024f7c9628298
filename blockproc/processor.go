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
	"sort"

	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/extractor"
	"github.com/asi-chain/indexer/store"
	"go.uber.org/zap"
)

// BlockPayload is the caller-supplied view of one full block, already
// translated from the CLI Gateway's wire shapes into domain records. The
// processor has no knowledge of subprocess or JSON details.
type BlockPayload struct {
	Block   chain.Block
	Deploys []DeployPayload
}

// DeployPayload is one deployment within a block, before classification
// and transfer extraction.
type DeployPayload struct {
	DeployID          string
	DeployerPublicKey string
	Term              string
	TimestampMs       int64
	Signature         string
	SignatureAlgorithm string
	PhloPrice         int64
	PhloLimit         int64
	PhloCost          int64
	ValidAfterBlock   int64
	Errored           bool
	ErrorMessage      string
}

// Enricher optionally fetches a fuller deploy term via a secondary CLI
// call. A failed enrichment degrades to the base fields rather than
// aborting the block (§4.E: "Enrichment failures ... degrade to the base
// fields without aborting").
type Enricher func(ctx context.Context, deployID string) (term string, ok bool)

// Processor is the Block Processor (4.E).
type Processor struct {
	db                *store.Gateway
	log               *zap.Logger
	allocations       []GenesisAllocation
	enrich            Enricher
	enableRevTransfer bool
}

// New constructs a Processor. allocations seeds the genesis bootstrap
// (empty is valid — the legacy system often could not discover initial
// allocations from chain state alone, see DESIGN.md, blockproc). enrich may be
// nil to skip secondary enrichment entirely. enableRevTransfer gates the
// Transfer Extractor (§6 enable_rev_transfer_extraction); when false, no
// Transfer rows are derived from deploy terms.
func New(db *store.Gateway, log *zap.Logger, allocations []GenesisAllocation, enrich Enricher, enableRevTransfer bool) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{db: db, log: log, allocations: allocations, enrich: enrich, enableRevTransfer: enableRevTransfer}
}

// Process writes one block, idempotently. A block whose hash already
// exists is a no-op (I4); writes for steps 1-5 are one transaction, the
// BlockValidator junction insert (step 6) is a separate, best-effort one.
func (p *Processor) Process(ctx context.Context, payload BlockPayload) error {
	b := payload.Block

	var alreadyIndexed bool
	err := p.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
		exists, err := sess.BlockExists(ctx, b.BlockHash)
		if err != nil {
			return err
		}
		if exists {
			alreadyIndexed = true
			return nil
		}

		if err := sess.InsertBlock(ctx, b); err != nil {
			return err
		}

		for key, stake := range b.BondsMap {
			if err := sess.UpsertValidator(ctx, key, stake, b.BlockNumber, chain.ValidatorActive); err != nil {
				return err
			}
			if err := sess.InsertValidatorBond(ctx, b.BlockHash, key, stake); err != nil {
				return err
			}
		}

		for _, dp := range payload.Deploys {
			if err := p.processDeploy(ctx, sess, b, dp); err != nil {
				return err
			}
		}

		if b.BlockNumber == 0 {
			boot := buildGenesisBootstrap(b.BlockHash, b.TimestampMs, p.allocations, b.BondsMap)
			for _, d := range boot.Deployments {
				if err := sess.InsertDeployment(ctx, d); err != nil {
					return err
				}
			}
			for _, t := range boot.Transfers {
				if _, err := sess.InsertTransfer(ctx, t); err != nil {
					return err
				}
			}
			for _, bs := range boot.BalanceStates {
				if err := sess.InsertBalanceState(ctx, bs); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if alreadyIndexed {
		return nil
	}

	// Step 6: post-commit justification junction, best-effort.
	justifications := append([]string(nil), b.Justifications...)
	sort.Strings(justifications) // deterministic insert order (P5)
	err = p.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
		for _, validatorKey := range justifications {
			if err := sess.InsertBlockValidator(ctx, b.BlockHash, validatorKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.log.Warn("block_validator junction insert failed, will retry next tick",
			zap.String("block_hash", b.BlockHash), zap.Error(err))
	}
	return nil
}

func (p *Processor) processDeploy(ctx context.Context, sess *store.Session, b chain.Block, dp DeployPayload) error {
	term := dp.Term
	if p.enrich != nil {
		if enriched, ok := p.enrich(ctx, dp.DeployID); ok && enriched != "" {
			term = enriched
		}
	}

	d := chain.Deployment{
		DeployID:              dp.DeployID,
		BlockHash:             b.BlockHash,
		DeployerPublicKey:     dp.DeployerPublicKey,
		Term:                  term,
		TimestampMs:           dp.TimestampMs,
		Signature:             dp.Signature,
		SignatureAlgorithm:    dp.SignatureAlgorithm,
		PhloPrice:             dp.PhloPrice,
		PhloLimit:             dp.PhloLimit,
		PhloCost:              dp.PhloCost,
		ValidAfterBlockNumber: dp.ValidAfterBlock,
		Errored:               dp.Errored,
		ErrorMessage:          dp.ErrorMessage,
		DeploymentType:        ClassifyDeployment(term),
		Status:                chain.DeploymentIncluded,
	}
	if err := sess.InsertDeployment(ctx, d); err != nil {
		return err
	}

	if p.enableRevTransfer {
		for _, t := range extractor.Extract(d.DeployID, b.BlockHash, d.DeployerPublicKey, term, dp.Errored) {
			if _, err := sess.InsertTransfer(ctx, t); err != nil {
				return err
			}
		}
	}
	return nil
}
