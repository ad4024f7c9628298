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

package reorg

import "context"

// AuditResult is the chain-integrity audit's read-only report (§4.H): it
// never mutates state, only surfaces health signals.
type AuditResult struct {
	MissingBlockNumbers  []int64
	OrphanedParentHashes []string
}

// Audit runs the chain-integrity audit.
func (h *Handler) Audit(ctx context.Context) (AuditResult, error) {
	missing, err := h.db.MissingBlockNumbers(ctx)
	if err != nil {
		return AuditResult{}, err
	}
	orphaned, err := h.db.OrphanedParentHashes(ctx)
	if err != nil {
		return AuditResult{}, err
	}
	return AuditResult{MissingBlockNumbers: missing, OrphanedParentHashes: orphaned}, nil
}
