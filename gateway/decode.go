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

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// firstJSONStart returns the index of whichever of '{' or '[' appears
// first in output, or -1 if output contains neither (§4.A: "find the
// first { or [ in stdout").
func firstJSONStart(output string) int {
	brace := strings.IndexByte(output, '{')
	bracket := strings.IndexByte(output, '[')
	switch {
	case brace < 0:
		return bracket
	case bracket < 0:
		return brace
	case bracket < brace:
		return bracket
	default:
		return brace
	}
}

// extractEmbeddedJSON finds the first '{' or '[' in output and returns the
// longest valid-JSON prefix starting there. The CLI interleaves
// human-readable banner lines around the JSON payload, so neither "parse
// the whole thing" nor "parse from the first { to the last }" works
// reliably when the payload itself contains nested braces followed by
// trailing log noise; truncating from the end is what the original
// implementation does and is reproduced verbatim here.
//
// A fastjson.Parser only validates (cheap, reusable scratch buffers); the
// actual decode into a typed struct happens afterward via jsoniter.
func extractEmbeddedJSON(output string) (string, bool) {
	start := firstJSONStart(output)
	if start < 0 {
		return "", false
	}
	candidate := strings.TrimSpace(output[start:])
	if candidate == "" {
		return "", false
	}

	var p fastjson.Parser
	for i := len(candidate); i > 0; i-- {
		if _, err := p.Parse(candidate[:i]); err == nil {
			return candidate[:i], true
		}
	}
	return "", false
}

// decodeEmbeddedJSON locates and unmarshals the JSON payload embedded in
// output into v.
func decodeEmbeddedJSON(op, output string, v any) error {
	payload, ok := extractEmbeddedJSON(output)
	if !ok {
		return &ParseError{Op: op, Output: output, Reason: "no valid JSON object found in output"}
	}
	if err := jsonAPI.Unmarshal([]byte(payload), v); err != nil {
		return &ParseError{Op: op, Output: output, Reason: "json decode: " + err.Error()}
	}
	return nil
}
