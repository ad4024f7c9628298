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
	"strings"
	"testing"

	"github.com/asi-chain/indexer/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(suffix string) string {
	// "1111" + 50 base58-safe chars = 54 total, within [53,56] and passes base58 decode.
	body := strings.Repeat("a", 50-len(suffix)) + suffix
	return "1111" + body
}

func TestExtract_DirectTransferPattern(t *testing.T) {
	from, to := addr("from"), addr("to")
	term := `match ("` + from + `", "` + to + `", 500000000)`
	transfers := Extract("d1", "h1", "deployer", term, false)
	require.Len(t, transfers, 1)
	assert.Equal(t, from, transfers[0].FromAddress)
	assert.Equal(t, to, transfers[0].ToAddress)
	assert.EqualValues(t, 500000000, transfers[0].AmountDust)
	assert.Equal(t, "5", transfers[0].AmountToken.String())
	assert.Equal(t, chain.TransferSuccess, transfers[0].Status)
}

func TestExtract_DirectTransferPattern_Errored(t *testing.T) {
	from, to := addr("from"), addr("to")
	term := `match ("` + from + `", "` + to + `", 100000000)`
	transfers := Extract("d1", "h1", "deployer", term, true)
	require.Len(t, transfers, 1)
	assert.Equal(t, chain.TransferFailed, transfers[0].Status)
}

func TestExtract_VaultLiteral(t *testing.T) {
	to := addr("recip")
	term := `@vault!("transfer", "` + to + `", 250000000, "memo")`
	transfers := Extract("d2", "h2", "deployerKey123", term, false)
	require.Len(t, transfers, 1)
	assert.Equal(t, "deployerKey123", transfers[0].FromAddress)
	assert.Equal(t, to, transfers[0].ToAddress)
}

func TestExtract_VaultVariable_ResolvedViaBinding(t *testing.T) {
	to := addr("recip")
	term := `recipient = "` + to + `" ; @vault!("transfer", recipient, 300000000, "memo")`
	transfers := Extract("d3", "h3", "deployerKey", term, false)
	require.Len(t, transfers, 1)
	assert.Equal(t, to, transfers[0].ToAddress)
}

func TestExtract_VaultVariable_UnresolvedSkipped(t *testing.T) {
	term := `@vault!("transfer", unboundVar, 300000000, "memo")`
	transfers := Extract("d4", "h4", "deployerKey", term, false)
	assert.Empty(t, transfers)
}

func TestExtract_NoVaultMention_ReturnsEmpty(t *testing.T) {
	transfers := Extract("d5", "h5", "deployerKey", `new x in { x!(1) }`, false)
	assert.Empty(t, transfers)
}

func TestExtract_ZeroAmountRejected(t *testing.T) {
	from, to := addr("from"), addr("to")
	term := `match ("` + from + `", "` + to + `", 0)`
	transfers := Extract("d6", "h6", "deployer", term, false)
	assert.Empty(t, transfers)
}

func TestExtract_FindOrCreate(t *testing.T) {
	to := addr("vautx")
	term := `ASIVault!("findOrCreate", "` + to + `", 75000000)`
	transfers := Extract("d7", "h7", "deployerKey", term, false)
	require.Len(t, transfers, 1)
	assert.Equal(t, to, transfers[0].ToAddress)
	assert.Equal(t, "deployerKey", transfers[0].FromAddress)
}

func TestExtract_EmptyTerm(t *testing.T) {
	assert.Empty(t, Extract("d8", "h8", "deployer", "", false))
}
