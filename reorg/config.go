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

// Package reorg is the Reorg Handler (4.H): periodic fork-point detection
// against the canonical chain, ordered rollback of orphaned rows, checkpoint
// rewind, and a read-only chain-integrity audit.
package reorg

import "time"

// Config holds the Reorg Handler's tunables (§4.H defaults).
type Config struct {
	DetectionInterval time.Duration
	ConfirmationDepth int64
	MaxReorgDepth     int64
}

// DefaultConfig matches §4.H: "default 30s ... confirmation_depth (default
// 10) ... max_reorg_depth (default 100)".
func DefaultConfig() Config {
	return Config{
		DetectionInterval: 30 * time.Second,
		ConfirmationDepth: 10,
		MaxReorgDepth:     100,
	}
}
