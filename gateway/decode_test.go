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

func TestExtractEmbeddedJSON_TrailingNoise(t *testing.T) {
	output := "Connecting to observer...\n" +
		`{"blockInfo":{"blockHash":"abc","blockNumber":1}}` +
		"\nDisconnected.\n"
	payload, ok := extractEmbeddedJSON(output)
	require.True(t, ok)
	assert.JSONEq(t, `{"blockInfo":{"blockHash":"abc","blockNumber":1}}`, payload)
}

func TestExtractEmbeddedJSON_NoObject(t *testing.T) {
	_, ok := extractEmbeddedJSON("no json here at all")
	assert.False(t, ok)
}

func TestExtractEmbeddedJSON_TruncatesFromEnd(t *testing.T) {
	// A valid object embedded in stdout followed by banner text that
	// itself happens to contain an unbalanced brace.
	output := `{"a":1,"b":[1,2,3]} -- done } extra`
	payload, ok := extractEmbeddedJSON(output)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1,"b":[1,2,3]}`, payload)
}

func TestExtractEmbeddedJSON_ArrayPayload(t *testing.T) {
	output := "Connecting to observer...\n" +
		`[{"blockHash":"abc"},{"blockHash":"def"}]` +
		"\nDisconnected.\n"
	payload, ok := extractEmbeddedJSON(output)
	require.True(t, ok)
	assert.JSONEq(t, `[{"blockHash":"abc"},{"blockHash":"def"}]`, payload)
}

func TestExtractEmbeddedJSON_ArrayBeforeObject_PicksWhicheverComesFirst(t *testing.T) {
	output := `noise [1,2,3] noise {"a":1} noise`
	payload, ok := extractEmbeddedJSON(output)
	require.True(t, ok)
	assert.JSONEq(t, `[1,2,3]`, payload)
}

func TestDecodeEmbeddedJSON_BlockDetail(t *testing.T) {
	output := `status: ok
{"blockInfo":{"blockHash":"h1","blockNumber":5,"bonds":{"vA":100}},"deploys":[{"deployId":"d1","term":"@x!(1)"}]}
`
	var raw rawBlockDetail
	err := decodeEmbeddedJSON("block_details", output, &raw)
	require.NoError(t, err)
	assert.Equal(t, "h1", raw.BlockInfo.BlockHash)
	assert.Equal(t, int64(5), raw.BlockInfo.BlockNumber)
	assert.Equal(t, int64(100), raw.BlockInfo.Bonds["vA"])
	require.Len(t, raw.Deploys, 1)
	assert.Equal(t, "d1", raw.Deploys[0].DeployID)
}

func TestDecodeEmbeddedJSON_NoPayload(t *testing.T) {
	var raw rawBlockDetail
	err := decodeEmbeddedJSON("block_details", "nothing to see here", &raw)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.False(t, pe.Retriable())
}
