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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHead(t *testing.T) {
	output := "Connecting...\n" +
		"Block Number: 42\n" +
		"Block Hash: deadbeef\n" +
		"Timestamp: 1700000000000\n" +
		"Deploy Count: 3\n"
	h, err := parseHead("head", output)
	require.NoError(t, err)
	assert.Equal(t, int64(42), h.BlockNumber)
	assert.Equal(t, "deadbeef", h.BlockHash)
	assert.Equal(t, int64(1700000000000), h.Timestamp)
	assert.Equal(t, 3, h.DeployCount)
}

func TestParseHead_NoFields(t *testing.T) {
	_, err := parseHead("head", "nothing useful")
	require.Error(t, err)
}

func TestParseBlockFrames(t *testing.T) {
	output := `
Block #0:
  🔗 Hash: aaaa
  ⏰ Timestamp: 1000
  📦 Deploy Count: 0
Block #1:
  Hash: bbbb
  Timestamp: 2000
  Deploy Count: 2
`
	frames := parseBlockFrames(output)
	require.Len(t, frames, 2)
	assert.Equal(t, int64(0), frames[0].BlockNumber)
	assert.Equal(t, "aaaa", frames[0].BlockHash)
	assert.Equal(t, int64(1), frames[1].BlockNumber)
	assert.Equal(t, "bbbb", frames[1].BlockHash)
	assert.Equal(t, 2, frames[1].DeployCount)
}

func TestParseEpochInfo(t *testing.T) {
	output := "Current Epoch: 7\nEpoch Length: 100 blocks\nQuarantine Length: 5\nBlocks Until Next Epoch: 40\n"
	e := parseEpochInfo(output)
	assert.Equal(t, int64(7), e.CurrentEpoch)
	assert.Equal(t, int64(100), e.EpochLength)
	assert.Equal(t, 5, e.QuarantineLength)
	assert.Equal(t, int64(40), e.BlocksUntilNext)
}

func TestParseConsensus_Healthy(t *testing.T) {
	output := "Active Validators: 12\nFault Tolerance: 0.33\nParticipation Rate: 91.5%\n🟢 Healthy\n"
	c := parseConsensus(output)
	assert.Equal(t, 12, c.ActiveValidators)
	assert.InDelta(t, 0.33, c.FaultTolerance, 1e-9)
	assert.InDelta(t, 0.915, c.BondedRatio, 1e-9)
	assert.Equal(t, "healthy", c.Status)
}

func TestParseConsensus_Critical(t *testing.T) {
	c := parseConsensus("🔴 Critical\n")
	assert.Equal(t, "critical", c.Status)
}

func TestParseValidatorEntries(t *testing.T) {
	output := "1. 04837a4c...b2df065f (stake: 1000)\n2. cafebabe...f00dface (stake: 5000) quarantine\n"
	entries := parseValidatorEntries(output)
	require.Len(t, entries, 2)
	assert.Equal(t, "active", entries[0].Status)
	assert.Equal(t, "quarantine", entries[1].Status)
	assert.Equal(t, int64(5000), entries[1].Stake)
}
