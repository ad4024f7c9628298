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

package extractor

import (
	"strconv"
	"strings"

	"github.com/asi-chain/indexer/chain"
)

// Extract derives zero or more token transfers from one deployment's term.
// deployerKey is used as the sender when a transfer pattern only names a
// recipient. errored marks every derived transfer failed rather than
// success, matching the deployment's own outcome.
func Extract(deployID, blockHash, deployerKey, term string, errored bool) []chain.Transfer {
	if term == "" {
		return nil
	}

	status := chain.TransferSuccess
	if errored {
		status = chain.TransferFailed
	}

	if direct := extractDirect(deployID, blockHash, term, status); len(direct) > 0 {
		return direct
	}

	if !strings.Contains(term, "ASIVault") && !strings.Contains(term, "transfer") &&
		!strings.Contains(strings.ToLower(term), "vault") {
		return nil
	}

	bindings := buildAddressBindings(term)
	return extractViaVaultPatterns(deployID, blockHash, deployerKey, term, status, bindings)
}

func extractDirect(deployID, blockHash, term string, status chain.TransferStatus) []chain.Transfer {
	var out []chain.Transfer
	for _, m := range directTransfer.FindAllStringSubmatch(term, -1) {
		from, to, amountStr := m[1], m[2], m[3]
		if !chain.LooksLikeAddress(from) || !chain.LooksLikeAddress(to) {
			continue
		}
		amountDust, ok := parsePositiveInt(amountStr)
		if !ok {
			continue
		}
		out = append(out, chain.NewTransfer(deployID, blockHash, truncateAddress(from), truncateAddress(to), amountDust, status))
	}
	return out
}

func extractViaVaultPatterns(deployID, blockHash, deployerKey, term string, status chain.TransferStatus, bindings map[string]string) []chain.Transfer {
	var out []chain.Transfer
	for i, pattern := range transferPatterns {
		// The literal- and variable-recipient @vault forms (patterns 0 and
		// 1) are one shape, so the first-non-empty check starts after both.
		if i > 1 && len(out) > 0 {
			return out
		}
		for _, m := range pattern.FindAllStringSubmatch(term, -1) {
			groups := m[1:]
			var fromIdent, toIdent, amountStr string
			switch len(groups) {
			case 2:
				toIdent, amountStr = groups[0], groups[1]
				fromIdent = deployerKey
			case 3:
				fromIdent, toIdent, amountStr = groups[0], groups[1], groups[2]
			default:
				continue
			}

			fromAddr, ok := resolveAddress(fromIdent, bindings)
			if !ok {
				fromAddr = deployerKey
			}
			toAddr, ok := resolveAddress(toIdent, bindings)
			if !ok {
				continue
			}
			if fromAddr == "" || toAddr == "" {
				continue
			}
			if len(fromAddr) > chain.MaxAddressLength || len(toAddr) > chain.MaxAddressLength {
				continue
			}

			amountDust, ok := parsePositiveInt(amountStr)
			if !ok {
				continue
			}
			out = append(out, chain.NewTransfer(deployID, blockHash, truncateAddress(fromAddr), truncateAddress(toAddr), amountDust, status))
		}
	}
	return out
}

// resolveAddress resolves an identifier captured by a transfer pattern: it
// may already be a literal address, or a variable bound earlier in the term.
func resolveAddress(ident string, bindings map[string]string) (string, bool) {
	if addr, ok := bindings[ident]; ok {
		return addr, true
	}
	if looksBound(ident) {
		return ident, true
	}
	return "", false
}

func parsePositiveInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func truncateAddress(s string) string {
	if len(s) > chain.MaxAddressLength {
		return s[:chain.MaxAddressLength]
	}
	return s
}
