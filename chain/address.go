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

package chain

import "github.com/mr-tron/base58"

// AddressPrefix is the literal prefix every valid on-chain address carries.
const AddressPrefix = "1111"

// MaxAddressLength rejects addresses longer than this even if otherwise
// well-formed; see §4.D.
const MaxAddressLength = 150

// minAddressLen/maxAddressLen bound the base58-like address body the
// extractor's regexes look for (53-56 characters including the prefix).
const (
	minAddressLen = 53
	maxAddressLen = 56
)

// GenesisMintAddress is the synthetic sender for genesis allocation
// transfers — an all-zero placeholder, never a real on-chain key.
const GenesisMintAddress = "0000000000000000000000000000000000000000000000000000000000000000"

// PoSVaultAddress is the protocol-owned vault that receives every genesis
// validator bond.
const PoSVaultAddress = "1111gW5kkGxHg7xDg6dRkZx2f7qxTizJzaCH9VEM1oJKWRvSX9Sk5"

// LooksLikeAddress reports whether s has the shape of an on-chain address:
// the literal "1111" prefix, a plausible length, and a body that actually
// decodes as base58. The base58 check catches corrupted regex captures
// (stray punctuation, truncated terms) that satisfy the prefix/length test
// but aren't addresses at all.
func LooksLikeAddress(s string) bool {
	if len(s) > MaxAddressLength {
		return false
	}
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	if len(s) < len(AddressPrefix) || s[:len(AddressPrefix)] != AddressPrefix {
		return false
	}
	_, err := base58.Decode(s)
	return err == nil
}
