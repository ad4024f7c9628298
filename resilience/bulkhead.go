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

package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig bounds concurrency and the wait queue in front of it.
type BulkheadConfig struct {
	MaxConcurrent int
	QueueSize     int
	Timeout       time.Duration
}

// DefaultBulkheadConfig matches the legacy node_operations executor.
func DefaultBulkheadConfig() BulkheadConfig {
	return BulkheadConfig{MaxConcurrent: 10, QueueSize: 50, Timeout: 30 * time.Second}
}

// Bulkhead bounds in-flight calls to MaxConcurrent, with a bounded wait
// queue of QueueSize callers; anyone beyond both fails fast.
type Bulkhead struct {
	name string
	cfg  BulkheadConfig
	sem  chan struct{}

	mu     sync.Mutex
	active int
	queued int
}

// NewBulkhead constructs a bulkhead. MaxConcurrent <= 0 disables bounding
// (the call runs unbounded, used for database_operations per §4.B).
func NewBulkhead(name string, cfg BulkheadConfig) *Bulkhead {
	b := &Bulkhead{name: name, cfg: cfg}
	if cfg.MaxConcurrent > 0 {
		b.sem = make(chan struct{}, cfg.MaxConcurrent)
	}
	return b
}

func (b *Bulkhead) execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if b.sem == nil {
		return fn(ctx)
	}

	b.mu.Lock()
	if b.active >= b.cfg.MaxConcurrent && b.queued >= b.cfg.QueueSize {
		b.mu.Unlock()
		return nil, &ErrBulkheadFull{Name: b.name, Active: b.active, Queued: b.queued, Capacity: b.cfg.MaxConcurrent}
	}
	b.queued++
	b.mu.Unlock()

	waitCtx := ctx
	var cancel context.CancelFunc
	if b.cfg.Timeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	select {
	case b.sem <- struct{}{}:
		b.mu.Lock()
		b.queued--
		b.active++
		b.mu.Unlock()
	case <-waitCtx.Done():
		b.mu.Lock()
		b.queued--
		b.mu.Unlock()
		return nil, &ErrBulkheadFull{Name: b.name, Active: b.active, Queued: b.queued, Capacity: b.cfg.MaxConcurrent}
	}

	defer func() {
		<-b.sem
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	}()

	return fn(ctx)
}

// BulkheadStats is the observable snapshot returned by Executor.Stats().
type BulkheadStats struct {
	Active   int
	Queued   int
	Capacity int
}

func (b *Bulkhead) stats() BulkheadStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BulkheadStats{Active: b.active, Queued: b.queued, Capacity: b.cfg.MaxConcurrent}
}
