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
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures exponential backoff with optional jitter.
type RetryConfig struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool
}

// DefaultRetryConfig matches the legacy node_operations executor.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          true,
	}
}

type retrier struct {
	cfg RetryConfig
}

func newRetrier(cfg RetryConfig) *retrier { return &retrier{cfg: cfg} }

func (r *retrier) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.BaseDelay
	b.MaxInterval = r.cfg.MaxDelay
	b.Multiplier = r.cfg.ExponentialBase
	b.MaxElapsedTime = 0 // attempt counting, not elapsed time, bounds the loop
	if r.cfg.Jitter {
		b.RandomizationFactor = 0.5
	} else {
		b.RandomizationFactor = 0
	}
	b.Reset()
	return b
}

// execute runs fn, retrying on retriable errors up to MaxAttempts times.
// Non-retriable errors propagate on the first failure. ctx cancellation
// aborts the wait between attempts immediately.
func (r *retrier) execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if r.cfg.MaxAttempts <= 0 {
		return fn(ctx)
	}
	b := r.newBackOff()
	var last error
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		last = err
		if !IsRetriable(err) {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}
		delay := b.NextBackOff()
		if delay == backoff.Stop {
			break
		}
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, &ErrRetryExhausted{Attempts: r.cfg.MaxAttempts, Last: last}
}
