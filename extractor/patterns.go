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

// Package extractor derives token Transfer records from a deployment's
// Rholang term by regex, with no knowledge of blocks or storage (pure
// functions only — see SPEC_FULL §4.D).
package extractor

import "regexp"

// directTransfer matches the literal three-tuple form the legacy chain
// client patched in for two specific blocks; kept ahead of the general
// vault patterns below and, when it matches at all, is authoritative —
// the other patterns are not also tried for that term.
var directTransfer = regexp.MustCompile(`match \("(1111[^"]+)", "(1111[^"]+)", (\d+)\)`)

// transferPatterns are tried in this fixed order against any term that
// mentions ASIVault/transfer/vault. The two @vault forms are collected
// together; after them, the first pattern that yields at least one
// transfer wins and the remaining patterns are not tried.
var transferPatterns = []*regexp.Regexp{
	// @vault!("transfer", "<address>", amount, ...)
	regexp.MustCompile(`@vault!\s*\(\s*"transfer"\s*,\s*"([0-9a-zA-Z]{54,56})"\s*,\s*(\d+)\s*,`),
	// @vault!("transfer", recipientVar, amount, ...)
	regexp.MustCompile(`@vault!\s*\(\s*"transfer"\s*,\s*(\w+)\s*,\s*(\d+)\s*,`),
	// match ("from", "to", amount)
	regexp.MustCompile(`match\s*\(\s*"([0-9a-zA-Z]{54,56})"\s*,\s*"([0-9a-zA-Z]{54,56})"\s*,\s*(\d+)\s*\)`),
	// ASIVault!("findOrCreate", "<address>", amount)
	regexp.MustCompile(`ASIVault!\s*\(\s*"findOrCreate"\s*,\s*"([0-9a-zA-Z]{54,56})"\s*,\s*(\d+)\s*\)`),
}

// addressBindingPatterns recover a variable's bound address from earlier in
// the same term, so a transferPatterns match on a bare identifier can be
// resolved to the address it stands for.
var addressBindingPatterns = []*regexp.Regexp{
	// match "address" { varName =>
	regexp.MustCompile(`match\s*"([0-9a-zA-Z]{54,56})"\s*\{\s*(\w+)\s*=>`),
	// varName = "address"
	regexp.MustCompile(`(\w+)\s*=\s*"([0-9a-zA-Z]{54,56})"`),
	// match ("from", "to", amount) { (varFrom, varTo, varAmount) =>
	regexp.MustCompile(`match\s*\(\s*"([0-9a-zA-Z]{54,56})"\s*,\s*"([0-9a-zA-Z]{54,56})"\s*,\s*\d+\s*\)\s*\{\s*\((\w+)\s*,\s*(\w+)\s*,\s*\w+\)\s*=>`),
}
