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

package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
)

// Session wraps one *sql.Tx. Commit and Rollback return errAlreadyFinished
// on any call past the first, so `defer sess.Rollback()` after an explicit
// `sess.Commit()` is always safe to write unconditionally (the deferred
// call's error is discarded).
type Session struct {
	tx *sql.Tx

	mu       sync.Mutex
	finished bool
}

// Commit finalizes the session. A second call reports errAlreadyFinished
// instead of touching the underlying tx again.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return errAlreadyFinished
	}
	s.finished = true
	return s.tx.Commit()
}

// Rollback aborts the session. Reports errAlreadyFinished if already
// committed or rolled back; `defer sess.Rollback()` after an explicit
// sess.Commit() discards this, which is the intended usage.
func (s *Session) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return errAlreadyFinished
	}
	s.finished = true
	return s.tx.Rollback()
}

// RawExec runs a parameterized, non-row-returning statement.
func (s *Session) RawExec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "exec: %s", query)
	}
	return res, nil
}

// RawQuery runs a parameterized, row-returning query. Callers must close
// the returned *sql.Rows.
func (s *Session) RawQuery(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query: %s", query)
	}
	return rows, nil
}

// RawQueryRow runs a parameterized query expected to return at most one row.
func (s *Session) RawQueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.tx.QueryRowContext(ctx, query, args...)
}
