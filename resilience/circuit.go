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

// CircuitState is one of closed, open, half_open.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half_open"
)

// CircuitConfig configures the breaker's open/half-open thresholds.
type CircuitConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
	SuccessThreshold int
}

// DefaultCircuitConfig matches the legacy node_operations executor.
func DefaultCircuitConfig() CircuitConfig {
	return CircuitConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 2,
	}
}

// CircuitBreaker implements closed -> open -> half_open -> closed.
type CircuitBreaker struct {
	name string
	cfg  CircuitConfig
	now  func() time.Time

	mu          sync.Mutex
	state       CircuitState
	failures    int
	successes   int
	nextAttempt time.Time
}

// NewCircuitBreaker constructs a closed breaker.
func NewCircuitBreaker(name string, cfg CircuitConfig) *CircuitBreaker {
	return &CircuitBreaker{name: name, cfg: cfg, now: time.Now, state: StateClosed}
}

// State returns the current state, transitioning open->half_open first if
// the recovery deadline has passed.
func (c *CircuitBreaker) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeHalfOpenLocked()
	return c.state
}

func (c *CircuitBreaker) maybeHalfOpenLocked() {
	if c.state == StateOpen && !c.nextAttempt.IsZero() && !c.now().Before(c.nextAttempt) {
		c.state = StateHalfOpen
		c.successes = 0
	}
}

func (c *CircuitBreaker) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeHalfOpenLocked()
	if c.state == StateOpen {
		return &ErrCircuitOpen{Name: c.name}
	}
	return nil
}

func (c *CircuitBreaker) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	if c.state == StateHalfOpen {
		c.successes++
		if c.successes >= c.cfg.SuccessThreshold {
			c.state = StateClosed
			c.successes = 0
		}
	}
}

func (c *CircuitBreaker) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateHalfOpen:
		c.open()
	default:
		c.failures++
		if c.failures >= c.cfg.FailureThreshold {
			c.open()
		}
	}
}

func (c *CircuitBreaker) open() {
	c.state = StateOpen
	c.successes = 0
	c.nextAttempt = c.now().Add(c.cfg.RecoveryTimeout)
}

// execute runs fn unless the breaker is open, recording the outcome.
func (c *CircuitBreaker) execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if err := c.allow(); err != nil {
		return nil, err
	}
	result, err := fn(ctx)
	if err != nil {
		c.recordFailure()
		return nil, err
	}
	c.recordSuccess()
	return result, nil
}

// CircuitStats is the breaker's part of the snapshot returned by
// Executor.Stats().
type CircuitStats struct {
	State     CircuitState
	Failures  int
	Successes int
}

func (c *CircuitBreaker) stats() CircuitStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeHalfOpenLocked()
	return CircuitStats{State: c.state, Failures: c.failures, Successes: c.successes}
}
