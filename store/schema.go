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

// Package store is the Store Gateway (4.C): transactional sessions and
// parameterized raw SQL over the relational projection in §3. It never
// interprets chain semantics — block/deploy/transfer shapes are the
// caller's concern; this package only persists and retrieves them.
package store

// schemaVersion tags the DDL below. Bump and add a migration entry in
// EnsureSchema if a column or table shape ever changes.
const schemaVersion = 1

// ddlStatements are applied in order; all use IF NOT EXISTS so EnsureSchema
// is idempotent on an already-initialized database (no separate migration
// runner — this is the entire schema story per SPEC_FULL §3.1).
var ddlStatements = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		block_hash           TEXT PRIMARY KEY,
		block_number         INTEGER NOT NULL UNIQUE,
		parent_hash          TEXT NOT NULL,
		timestamp_ms         INTEGER NOT NULL,
		proposer_public_key  TEXT NOT NULL,
		pre_state_hash       TEXT NOT NULL,
		post_state_hash      TEXT NOT NULL,
		finalization_status  TEXT NOT NULL,
		bonds_map            TEXT NOT NULL CHECK (json_valid(bonds_map)),
		justifications       TEXT NOT NULL CHECK (json_valid(justifications)),
		fault_tolerance      REAL NOT NULL,
		signature            TEXT NOT NULL,
		signature_algorithm  TEXT NOT NULL,
		shard_id             TEXT NOT NULL,
		version              TEXT NOT NULL,
		deploy_count         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS deployments (
		deploy_id                TEXT PRIMARY KEY,
		block_hash                TEXT NOT NULL REFERENCES blocks(block_hash),
		deployer_public_key       TEXT NOT NULL,
		term                      TEXT NOT NULL,
		timestamp_ms              INTEGER NOT NULL,
		signature                 TEXT NOT NULL,
		signature_algorithm       TEXT NOT NULL,
		phlo_price                INTEGER NOT NULL,
		phlo_limit                INTEGER NOT NULL,
		phlo_cost                 INTEGER NOT NULL,
		valid_after_block_number  INTEGER NOT NULL,
		errored                   INTEGER NOT NULL,
		error_message             TEXT NOT NULL DEFAULT '',
		deployment_type           TEXT NOT NULL,
		status                    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deployments_block_hash ON deployments(block_hash)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		deploy_id    TEXT NOT NULL REFERENCES deployments(deploy_id),
		block_hash   TEXT NOT NULL REFERENCES blocks(block_hash),
		from_address TEXT NOT NULL,
		to_address   TEXT NOT NULL,
		amount_dust  INTEGER NOT NULL CHECK (amount_dust > 0),
		amount_token TEXT NOT NULL,
		status       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_deploy_id ON transfers(deploy_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_block_hash ON transfers(block_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_from_address ON transfers(from_address)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_to_address ON transfers(to_address)`,
	`CREATE TABLE IF NOT EXISTS validators (
		public_key       TEXT PRIMARY KEY,
		display_name     TEXT NOT NULL,
		total_stake      INTEGER NOT NULL,
		first_seen_block INTEGER NOT NULL,
		last_seen_block  INTEGER NOT NULL,
		status           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS validator_bonds (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		block_hash       TEXT NOT NULL REFERENCES blocks(block_hash),
		validator_pubkey TEXT NOT NULL REFERENCES validators(public_key),
		stake            INTEGER NOT NULL,
		UNIQUE(block_hash, validator_pubkey)
	)`,
	`CREATE TABLE IF NOT EXISTS block_validators (
		block_hash       TEXT NOT NULL REFERENCES blocks(block_hash),
		validator_pubkey TEXT NOT NULL REFERENCES validators(public_key),
		PRIMARY KEY (block_hash, validator_pubkey)
	)`,
	`CREATE TABLE IF NOT EXISTS balance_states (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		address        TEXT NOT NULL,
		block_number   INTEGER NOT NULL,
		unbonded_dust  INTEGER NOT NULL,
		unbonded_token TEXT NOT NULL,
		bonded_dust    INTEGER NOT NULL,
		bonded_token   TEXT NOT NULL,
		UNIQUE(address, block_number)
	)`,
	`CREATE TABLE IF NOT EXISTS epoch_transitions (
		epoch_number      INTEGER PRIMARY KEY,
		start_block       INTEGER NOT NULL,
		end_block         INTEGER NOT NULL,
		active_validators INTEGER NOT NULL,
		quarantine_length INTEGER NOT NULL,
		observed_at       INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS network_stats (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		block_number       INTEGER NOT NULL,
		total_validators   INTEGER NOT NULL,
		active_validators  INTEGER NOT NULL,
		total_stake_dust   INTEGER NOT NULL,
		participation_pct  REAL NOT NULL,
		health             TEXT NOT NULL,
		observed_at        INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS indexer_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reorgs (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		fork_point            INTEGER NOT NULL,
		depth                 INTEGER NOT NULL,
		orphaned_hashes       TEXT NOT NULL CHECK (json_valid(orphaned_hashes)),
		affected_deployments  INTEGER NOT NULL,
		affected_transfers    INTEGER NOT NULL,
		detected_at           INTEGER NOT NULL,
		handled_at            INTEGER NOT NULL
	)`,
}

// resetStatements drop every table, used by the administrative reset path
// (cmd/indexer reset). Order matters only insofar as foreign keys are
// enforced; listed leaves-first, each table before the tables it references.
var resetStatements = []string{
	`DROP TABLE IF EXISTS reorgs`,
	`DROP TABLE IF EXISTS indexer_state`,
	`DROP TABLE IF EXISTS network_stats`,
	`DROP TABLE IF EXISTS epoch_transitions`,
	`DROP TABLE IF EXISTS balance_states`,
	`DROP TABLE IF EXISTS block_validators`,
	`DROP TABLE IF EXISTS validator_bonds`,
	`DROP TABLE IF EXISTS transfers`,
	`DROP TABLE IF EXISTS deployments`,
	`DROP TABLE IF EXISTS validators`,
	`DROP TABLE IF EXISTS blocks`,
}
