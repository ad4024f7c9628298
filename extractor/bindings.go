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

import "strings"

// buildAddressBindings scans term for every addressBindingPatterns match
// and returns a variable-name -> address map. Later matches for the same
// variable overwrite earlier ones, mirroring the legacy dict-building loop.
func buildAddressBindings(term string) map[string]string {
	bindings := make(map[string]string)
	for _, pattern := range addressBindingPatterns {
		for _, m := range pattern.FindAllStringSubmatch(term, -1) {
			groups := m[1:]
			switch len(groups) {
			case 2:
				a, b := groups[0], groups[1]
				if looksBound(a) {
					bindings[b] = a
				} else if looksBound(b) {
					bindings[a] = b
				}
			case 4:
				fromAddr, toAddr, fromVar, toVar := groups[0], groups[1], groups[2], groups[3]
				if strings.HasPrefix(fromAddr, "1111") && strings.HasPrefix(toAddr, "1111") {
					bindings[fromVar] = fromAddr
					bindings[toVar] = toAddr
				}
			}
		}
	}
	return bindings
}

// looksBound is the lightweight prefix+length check the binding patterns
// already constrain their capture groups to (54-56 chars); a full
// base58-decode check happens later, at transfer-construction time, via
// chain.LooksLikeAddress.
func looksBound(s string) bool {
	return strings.HasPrefix(s, "1111") && len(s) >= 54 && len(s) <= 56
}
