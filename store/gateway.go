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
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Gateway owns the shared connection pool. It never holds an open
// transaction itself — block, entity and rollback writes go through a
// Session acquired for the duration of one unit of work (§5: "each task
// acquires a session for the duration of one transaction, never holding
// across I/O to the CLI"). The checkpoint write (SetLastIndexedBlock),
// schema setup and reset run on the pool directly.
type Gateway struct {
	db *sql.DB
}

// Open opens (and, if the file doesn't exist, creates) the sqlite database
// named by dsn, e.g. "file:indexer.db?_pragma=busy_timeout(5000)".
func Open(dsn string) (*Gateway, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid SQLITE_BUSY storms
	return &Gateway{db: db}, nil
}

// OpenDB wraps an already-open *sql.DB, used by tests that want a
// driver/DSN of their own choosing (e.g. ":memory:").
func OpenDB(db *sql.DB) *Gateway { return &Gateway{db: db} }

// Close releases the underlying connection pool.
func (g *Gateway) Close() error { return g.db.Close() }

// EnsureSchema applies the DDL idempotently. Safe to call on every startup.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ddlStatements {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "apply schema statement: %s", stmt)
		}
	}
	return nil
}

// Reset drops every table. Used only by the administrative reset path;
// callers must call EnsureSchema again afterward if they intend to keep
// using the gateway.
func (g *Gateway) Reset(ctx context.Context) error {
	for _, stmt := range resetStatements {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "reset: %s", stmt)
		}
	}
	return nil
}

// Session begins a new transactional unit of work.
func (g *Gateway) Session(ctx context.Context) (*Session, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin session")
	}
	return &Session{tx: tx}, nil
}

// WithSession runs fn inside a Session, committing on a nil return and
// rolling back otherwise. This is the preferred entry point for a single
// unit of work (§4.E's one-transaction-per-block write, §4.H's rollback
// transaction).
func (g *Gateway) WithSession(ctx context.Context, fn func(ctx context.Context, sess *Session) error) error {
	sess, err := g.Session(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	if err := fn(ctx, sess); err != nil {
		return err
	}
	return sess.Commit()
}

// errAlreadyFinished is returned by Commit/Rollback when the session was
// already finalized; WithSession and callers using defer sess.Rollback()
// after an explicit Commit() rely on this being silently ignorable.
var errAlreadyFinished = fmt.Errorf("session already committed or rolled back")
