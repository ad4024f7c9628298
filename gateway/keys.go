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

package gateway

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// pendingBondsCapacity bounds the abbreviated-key buffer (Open Question 1
// in SPEC_FULL §9: buffer rather than store the abbreviation).
const pendingBondsCapacity = 256

// PendingBond is an abbreviated bonds() line whose full validator key has
// not yet been resolved.
type PendingBond struct {
	Prefix string
	Suffix string
	Stake  int64
}

func (p PendingBond) bufferKey() string { return p.Prefix + p.Suffix }

// keyResolver reassembles abbreviated validator keys ("prefix8...suffix8")
// against full 130-hex-digit keys that appear elsewhere in the same CLI
// response, buffering unresolved pairs until a later response restates
// the pair together with its full key, or the entry is evicted. Eviction
// is silent.
type keyResolver struct {
	pending *lru.Cache[string, PendingBond]
}

func newKeyResolver() *keyResolver {
	c, err := lru.New[string, PendingBond](pendingBondsCapacity)
	if err != nil {
		// Only possible if pendingBondsCapacity <= 0, which it never is.
		panic(err)
	}
	return &keyResolver{pending: c}
}

// fullKeysIn scans output for any bare 130-hex-digit token and indexes it
// by its 8-char prefix+suffix pair.
func fullKeysIn(output string) map[string]string {
	index := make(map[string]string)
	for _, m := range reFullKey.FindAllStringSubmatch(output, -1) {
		full := m[1]
		index[full[:8]+full[len(full)-8:]] = full
	}
	return index
}

// resolve processes every abbreviated bonds() line in output, reassembling
// it against full keys found in the same output; a resolved pair is also
// removed from the pending buffer. Bonds that can't be resolved are pushed
// onto the buffer and omitted from the result. Buffered entries are not
// matched against full keys unless their abbreviated line is restated.
func (r *keyResolver) resolve(output string) []BondEntry {
	fullKeys := fullKeysIn(output)
	var out []BondEntry

	tryResolve := func(prefix, suffix string, stake int64) {
		bufKey := prefix + suffix
		if full, ok := fullKeys[bufKey]; ok {
			out = append(out, BondEntry{ValidatorKey: full, Stake: stake, resolved: true})
			r.pending.Remove(bufKey)
			return
		}
		r.pending.Add(bufKey, PendingBond{Prefix: prefix, Suffix: suffix, Stake: stake})
	}

	for _, line := range strings.Split(output, "\n") {
		m := reBondAbbrev.FindStringSubmatch(line)
		if m != nil {
			tryResolve(m[1], m[2], parseInt64(m[3]))
			continue
		}
		if m := reBondFull.FindStringSubmatch(line); m != nil {
			out = append(out, BondEntry{ValidatorKey: m[1], Stake: parseInt64(m[2]), resolved: true})
		}
	}
	return out
}

// resolveValidators reassembles any abbreviated keys in raw active-validators
// entries against full keys seen in the same output, mirroring resolve()'s
// treatment of bonds() output.
// Entries that still can't be resolved are buffered and omitted from the
// result, matching §9 Open Question 1's "buffer rather than store the
// abbreviation" resolution.
func (r *keyResolver) resolveValidators(raw []ValidatorEntry, output string) []ValidatorEntry {
	fullKeys := fullKeysIn(output)
	out := make([]ValidatorEntry, 0, len(raw))
	for _, v := range raw {
		if !strings.Contains(v.ValidatorKey, "...") {
			out = append(out, v)
			continue
		}
		parts := strings.SplitN(v.ValidatorKey, "...", 2)
		prefix, suffix := parts[0], parts[1]
		bufKey := prefix + suffix
		if full, ok := fullKeys[bufKey]; ok {
			v.ValidatorKey = full
			out = append(out, v)
			r.pending.Remove(bufKey)
			continue
		}
		r.pending.Add(bufKey, PendingBond{Prefix: prefix, Suffix: suffix, Stake: v.Stake})
	}
	return out
}

// Pending returns a snapshot of validator bonds still awaiting their full
// key, for diagnostics.
func (r *keyResolver) Pending() []PendingBond {
	out := make([]PendingBond, 0, r.pending.Len())
	for _, k := range r.pending.Keys() {
		if v, ok := r.pending.Peek(k); ok {
			out = append(out, v)
		}
	}
	return out
}
