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

package store

import (
	"context"
	"database/sql"

	"github.com/asi-chain/indexer/chain"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BlockExists checks idempotence before a block write (I4).
func (s *Session) BlockExists(ctx context.Context, blockHash string) (bool, error) {
	var n int
	row := s.RawQueryRow(ctx, `SELECT 1 FROM blocks WHERE block_hash = ?`, blockHash)
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "check block existence")
	}
	return true, nil
}

// InsertBlock writes a block row exactly once.
func (s *Session) InsertBlock(ctx context.Context, b chain.Block) error {
	bondsJSON, err := json.Marshal(b.BondsMap)
	if err != nil {
		return errors.Wrap(err, "marshal bonds_map")
	}
	justJSON, err := json.Marshal(b.Justifications)
	if err != nil {
		return errors.Wrap(err, "marshal justifications")
	}
	_, err = s.RawExec(ctx, `
		INSERT INTO blocks (
			block_hash, block_number, parent_hash, timestamp_ms, proposer_public_key,
			pre_state_hash, post_state_hash, finalization_status, bonds_map, justifications,
			fault_tolerance, signature, signature_algorithm, shard_id, version, deploy_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.BlockHash, b.BlockNumber, b.ParentHash, b.TimestampMs, b.ProposerPublicKey,
		b.PreStateHash, b.PostStateHash, b.FinalizationStatus, string(bondsJSON), string(justJSON),
		b.FaultTolerance, b.Signature, b.SignatureAlgorithm, b.ShardID, b.Version, b.DeployCount)
	if err != nil {
		return errors.Wrap(err, "insert block")
	}
	return nil
}

// UpsertValidator inserts the validator on first sight or raises its
// total_stake high-water mark and last_seen_block on subsequent sight
// (P9: total_stake never decreases).
func (s *Session) UpsertValidator(ctx context.Context, publicKey string, stake, blockNumber int64, status chain.ValidatorStatus) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO validators (public_key, display_name, total_stake, first_seen_block, last_seen_block, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_key) DO UPDATE SET
			total_stake = MAX(total_stake, excluded.total_stake),
			last_seen_block = excluded.last_seen_block,
			status = excluded.status
	`, publicKey, publicKey, stake, blockNumber, blockNumber, string(status))
	if err != nil {
		return errors.Wrap(err, "upsert validator")
	}
	return nil
}

// InsertValidatorBond records the stake snapshot for one validator at one
// block height. Unique on (block_hash, validator_pubkey).
func (s *Session) InsertValidatorBond(ctx context.Context, blockHash, validatorPubKey string, stake int64) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO validator_bonds (block_hash, validator_pubkey, stake) VALUES (?, ?, ?)
	`, blockHash, validatorPubKey, stake)
	if err != nil {
		return errors.Wrap(err, "insert validator bond")
	}
	return nil
}

// InsertDeployment writes one deployment row, belonging to exactly one block.
func (s *Session) InsertDeployment(ctx context.Context, d chain.Deployment) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO deployments (
			deploy_id, block_hash, deployer_public_key, term, timestamp_ms, signature,
			signature_algorithm, phlo_price, phlo_limit, phlo_cost, valid_after_block_number,
			errored, error_message, deployment_type, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.DeployID, d.BlockHash, d.DeployerPublicKey, d.Term, d.TimestampMs, d.Signature,
		d.SignatureAlgorithm, d.PhloPrice, d.PhloLimit, d.PhloCost, d.ValidAfterBlockNumber,
		d.Errored, d.ErrorMessage, string(d.DeploymentType), string(d.Status))
	if err != nil {
		return errors.Wrap(err, "insert deployment")
	}
	return nil
}

// InsertTransfer writes one derived (or genesis-synthesized) transfer.
func (s *Session) InsertTransfer(ctx context.Context, t chain.Transfer) (int64, error) {
	res, err := s.RawExec(ctx, `
		INSERT INTO transfers (deploy_id, block_hash, from_address, to_address, amount_dust, amount_token, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.DeployID, t.BlockHash, t.FromAddress, t.ToAddress, t.AmountDust, t.AmountToken.String(), string(t.Status))
	if err != nil {
		return 0, errors.Wrap(err, "insert transfer")
	}
	return res.LastInsertId()
}

// InsertBlockValidator writes the justification junction row. Conflict-free
// by design (ON CONFLICT DO NOTHING) so concurrent post-commit writers for
// adjacent blocks never contend (§5).
func (s *Session) InsertBlockValidator(ctx context.Context, blockHash, validatorPubKey string) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO block_validators (block_hash, validator_pubkey) VALUES (?, ?)
		ON CONFLICT(block_hash, validator_pubkey) DO NOTHING
	`, blockHash, validatorPubKey)
	if err != nil {
		return errors.Wrap(err, "insert block_validator")
	}
	return nil
}

// InsertBalanceState writes one per-address, per-height snapshot. Used only
// during genesis bootstrap (block 0) in the current scope.
func (s *Session) InsertBalanceState(ctx context.Context, bs chain.BalanceState) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO balance_states (address, block_number, unbonded_dust, unbonded_token, bonded_dust, bonded_token)
		VALUES (?, ?, ?, ?, ?, ?)
	`, bs.Address, bs.BlockNumber, bs.UnbondedDust, bs.UnbondedToken.String(), bs.BondedDust, bs.BondedToken.String())
	if err != nil {
		return errors.Wrap(err, "insert balance state")
	}
	return nil
}

// UpsertEpochTransition inserts the transition row exactly once per epoch.
func (s *Session) UpsertEpochTransition(ctx context.Context, e chain.EpochTransition) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO epoch_transitions (epoch_number, start_block, end_block, active_validators, quarantine_length, observed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(epoch_number) DO NOTHING
	`, e.EpochNumber, e.StartBlock, e.EndBlock, e.ActiveValidators, e.QuarantineLength, e.ObservedAt.UnixMilli())
	if err != nil {
		return errors.Wrap(err, "upsert epoch transition")
	}
	return nil
}

// InsertNetworkStats writes one network-health snapshot row.
func (s *Session) InsertNetworkStats(ctx context.Context, n chain.NetworkStats) error {
	_, err := s.RawExec(ctx, `
		INSERT INTO network_stats (block_number, total_validators, active_validators, total_stake_dust, participation_pct, health, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.BlockNumber, n.TotalValidators, n.ActiveValidators, n.TotalStakeDust, n.ParticipationPct, string(n.Health), n.ObservedAt.UnixMilli())
	if err != nil {
		return errors.Wrap(err, "insert network stats")
	}
	return nil
}

// HasEpoch reports whether epoch_number is already recorded.
func (s *Session) HasEpoch(ctx context.Context, epochNumber int64) (bool, error) {
	var n int
	row := s.RawQueryRow(ctx, `SELECT 1 FROM epoch_transitions WHERE epoch_number = ?`, epochNumber)
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "check epoch existence")
	}
	return true, nil
}

// InsertReorgRecord writes the audit row for one handled reorg.
func (s *Session) InsertReorgRecord(ctx context.Context, r chain.ReorgRecord) error {
	hashesJSON, err := json.Marshal(r.OrphanedHashes)
	if err != nil {
		return errors.Wrap(err, "marshal orphaned hashes")
	}
	_, err = s.RawExec(ctx, `
		INSERT INTO reorgs (fork_point, depth, orphaned_hashes, affected_deployments, affected_transfers, detected_at, handled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ForkPoint, r.Depth, string(hashesJSON), r.AffectedDeployments, r.AffectedTransfers,
		r.DetectedAt.UnixMilli(), r.HandledAt.UnixMilli())
	if err != nil {
		return errors.Wrap(err, "insert reorg record")
	}
	return nil
}
