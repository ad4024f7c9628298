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
	"regexp"
	"strconv"
	"strings"
)

// Line-oriented regexes, transliterated from the CLI client's field
// scrapers. Each tolerates an optional emoji glyph prefix the CLI
// sometimes prints ahead of the label; the glyph itself is never part of
// the captured group.
var (
	reBlockNumber  = regexp.MustCompile(`Block Number:\s*(\d+)`)
	reBlockHashHdr = regexp.MustCompile(`Block Hash:\s*([a-f0-9]+)`)
	reTimestampHdr = regexp.MustCompile(`Timestamp:\s*(\d+)`)
	reDeployCount  = regexp.MustCompile(`Deploy Count:\s*(\d+)`)

	reFrameHeader  = regexp.MustCompile(`Block #(\d+):`)
	reFrameHash    = regexp.MustCompile(`Hash:\s*([a-f0-9]+)`)
	reFrameFT      = regexp.MustCompile(`Fault Tolerance:\s*([\d.]+)`)
	reFrameSender  = regexp.MustCompile(`Sender:\s*([0-9a-zA-Z]+)`)

	reBondAbbrev = regexp.MustCompile(`([a-f0-9]{8})\.\.\.([a-f0-9]{8})\s*\(stake:\s*([\d,]+)\)`)
	reBondFull   = regexp.MustCompile(`([0-9a-fA-F]{130})\s*\(stake:\s*(\d+)\)`)
	reFullKey    = regexp.MustCompile(`\b([0-9a-f]{130})\b`)

	reEpochCurrent     = regexp.MustCompile(`Current Epoch:\s*(\d+)`)
	reEpochLength      = regexp.MustCompile(`Epoch Length:\s*(\d+)\s*blocks`)
	reEpochQuarantine  = regexp.MustCompile(`Quarantine Length:\s*(\d+)`)
	reEpochBlocksUntil = regexp.MustCompile(`Blocks Until Next Epoch:\s*(\d+)`)

	reConsensusActive     = regexp.MustCompile(`Active Validators:\s*(\d+)`)
	reConsensusFT         = regexp.MustCompile(`Fault Tolerance:\s*([\d.]+)`)
	reConsensusBondedPct  = regexp.MustCompile(`Participation Rate:\s*([\d.]+)%`)

	reValidatorStakeLine = regexp.MustCompile(`([0-9a-fA-F]{8,130}(?:\.\.\.[0-9a-fA-F]{8})?)\s*\(stake:\s*(\d+)\)`)
)

func parseInt64(s string) int64 {
	s = strings.ReplaceAll(s, ",", "")
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseHead decodes the fixed text block emitted by last-finalized-block.
func parseHead(op, output string) (HeadInfo, error) {
	var h HeadInfo
	found := false
	for _, line := range strings.Split(output, "\n") {
		if m := reBlockNumber.FindStringSubmatch(line); m != nil {
			h.BlockNumber = parseInt64(m[1])
			found = true
		}
		if m := reBlockHashHdr.FindStringSubmatch(line); m != nil {
			h.BlockHash = m[1]
			found = true
		}
		if m := reTimestampHdr.FindStringSubmatch(line); m != nil {
			h.Timestamp = parseInt64(m[1])
		}
		if m := reDeployCount.FindStringSubmatch(line); m != nil {
			h.DeployCount = int(parseInt64(m[1]))
		}
	}
	if !found {
		return h, &ParseError{Op: op, Output: output, Reason: "no Block Number/Hash fields found"}
	}
	return h, nil
}

// parseBlockFrames decodes the repeated "Block #N:" frames emitted by
// get-blocks-by-height and show-main-chain. A new "Block #" header flushes
// the in-progress frame, mirroring the original line-by-line state machine.
func parseBlockFrames(output string) []BlockSummary {
	var out []BlockSummary
	var cur *BlockSummary

	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(output, "\n") {
		if m := reFrameHeader.FindStringSubmatch(line); m != nil {
			flush()
			cur = &BlockSummary{BlockNumber: parseInt64(m[1])}
			continue
		}
		if cur == nil {
			continue
		}
		if m := reFrameHash.FindStringSubmatch(line); m != nil {
			cur.BlockHash = m[1]
		}
		if m := reTimestampHdr.FindStringSubmatch(line); m != nil {
			cur.Timestamp = parseInt64(m[1])
		}
		if m := reDeployCount.FindStringSubmatch(line); m != nil {
			cur.DeployCount = int(parseInt64(m[1]))
		}
		if m := reFrameSender.FindStringSubmatch(line); m != nil {
			cur.Sender = m[1]
		}
	}
	flush()
	return out
}

// parseEpochInfo decodes the key/value lines emitted by epoch-info.
func parseEpochInfo(output string) EpochInfo {
	var e EpochInfo
	for _, line := range strings.Split(output, "\n") {
		if m := reEpochCurrent.FindStringSubmatch(line); m != nil {
			e.CurrentEpoch = parseInt64(m[1])
		}
		if m := reEpochLength.FindStringSubmatch(line); m != nil {
			e.EpochLength = parseInt64(m[1])
		}
		if m := reEpochQuarantine.FindStringSubmatch(line); m != nil {
			e.QuarantineLength = int(parseInt64(m[1]))
		}
		if m := reEpochBlocksUntil.FindStringSubmatch(line); m != nil {
			e.BlocksUntilNext = parseInt64(m[1])
		}
	}
	return e
}

// parseConsensus decodes the key/value + status-glyph lines emitted by
// network-consensus.
func parseConsensus(output string) ConsensusSnapshot {
	var c ConsensusSnapshot
	for _, line := range strings.Split(output, "\n") {
		if m := reConsensusActive.FindStringSubmatch(line); m != nil {
			c.ActiveValidators = int(parseInt64(m[1]))
		}
		if m := reConsensusFT.FindStringSubmatch(line); m != nil {
			c.FaultTolerance = parseFloat(m[1])
		}
		if m := reConsensusBondedPct.FindStringSubmatch(line); m != nil {
			c.BondedRatio = parseFloat(m[1]) / 100.0
		}
		switch {
		case strings.Contains(line, "Healthy"):
			c.Status = "healthy"
		case strings.Contains(line, "Degraded"):
			c.Status = "degraded"
		case strings.Contains(line, "Critical"):
			c.Status = "critical"
		}
	}
	return c
}

// parseValidatorEntries decodes active-validators list lines.
func parseValidatorEntries(output string) []ValidatorEntry {
	var out []ValidatorEntry
	for _, line := range strings.Split(output, "\n") {
		m := reValidatorStakeLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		status := "active"
		if strings.Contains(strings.ToLower(line), "quarantine") {
			status = "quarantine"
		}
		out = append(out, ValidatorEntry{ValidatorKey: m[1], Stake: parseInt64(m[2]), Status: status})
	}
	return out
}
