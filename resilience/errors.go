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

// Package resilience wraps arbitrary calls with retry-with-jitter, a
// circuit breaker, and a bulkhead, composed as retry(circuit(bulkhead(fn))).
package resilience

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrRetryExhausted is raised when every configured retry attempt failed.
// Cause() recovers the last underlying error.
type ErrRetryExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrRetryExhausted) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrRetryExhausted) Unwrap() error { return e.Last }
func (e *ErrRetryExhausted) Cause() error  { return e.Last }

// ErrCircuitOpen is raised when a call is rejected fast because the
// circuit breaker has not yet reached its recovery deadline.
type ErrCircuitOpen struct {
	Name string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit %q is open", e.Name)
}

// ErrBulkheadFull is raised when a call cannot acquire a bulkhead slot,
// either because the wait queue is also full or the wait deadline passed.
type ErrBulkheadFull struct {
	Name     string
	Active   int
	Queued   int
	Capacity int
}

func (e *ErrBulkheadFull) Error() string {
	return fmt.Sprintf("bulkhead %q full: active=%d queued=%d capacity=%d", e.Name, e.Active, e.Queued, e.Capacity)
}

// Retriable marks an error as transient — worth another attempt. Errors
// that don't implement this interface, or implement it returning false,
// propagate immediately without consuming a retry attempt.
type Retriable interface {
	Retriable() bool
}

// IsRetriable unwraps err (via pkg/errors.Cause) looking for a Retriable
// implementation. Errors with no opinion are treated as non-retriable,
// matching §7's "non-retriable errors propagate immediately" default.
func IsRetriable(err error) bool {
	cause := errors.Cause(err)
	if r, ok := cause.(Retriable); ok {
		return r.Retriable()
	}
	return false
}
