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

// Package sync is the Sync Engine (4.F) and its gated auxiliary loops
// (4.G): a polling loop that fetches finalized blocks from the CLI Gateway
// in bounded batches, hands each one to the Block Processor, and advances
// the checkpoint only over the contiguous prefix of successes.
package sync

import "time"

// Config holds the Sync Engine's tunables. Zero-value fields are replaced
// by DefaultConfig's matching default.
type Config struct {
	SyncInterval    time.Duration
	BatchSize       int64
	StartFromBlock  int64
	InterBlockDelay time.Duration

	EpochLoopEvery     int64
	StatsLoopEvery     int64
	MainChainLoopEvery int64
}

// DefaultConfig matches §4.F/§4.G's stated defaults.
func DefaultConfig() Config {
	return Config{
		SyncInterval:       5 * time.Second,
		BatchSize:          100,
		StartFromBlock:     0,
		InterBlockDelay:    100 * time.Millisecond,
		EpochLoopEvery:     100,
		StatsLoopEvery:     50,
		MainChainLoopEvery: 500,
	}
}
