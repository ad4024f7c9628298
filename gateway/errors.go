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

// Package gateway is the sole impedance match with the external node_cli
// process: it spawns the CLI per operation, captures stdout, and decodes
// the mixed text+JSON it emits into typed records.
package gateway

import "fmt"

// CLIError wraps a subprocess failure (non-zero exit, spawn failure, or
// timeout). It is transient — the resilience layer retries it.
type CLIError struct {
	Op       string
	Args     []string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cli %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("cli %s failed: exit=%d stderr=%s", e.Op, e.ExitCode, e.Stderr)
}

func (e *CLIError) Unwrap() error { return e.Cause }

// Retriable marks CLIError as transient per §7.
func (e *CLIError) Retriable() bool { return true }

// ParseError is raised when the CLI's output could not be decoded into
// the expected shape. Non-transient — retrying won't change garbled
// output, so the resilience layer does not retry this.
type ParseError struct {
	Op     string
	Output string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s failed: %s", e.Op, e.Reason)
}

// Retriable marks ParseError as non-transient per §7.
func (e *ParseError) Retriable() bool { return false }
