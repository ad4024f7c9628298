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

	"github.com/prometheus/client_golang/prometheus"
)

// Config bundles the three primitives' configuration for one named
// executor. A zero-value Retry/Circuit/Bulkhead field disables that stage.
type Config struct {
	Name     string
	Retry    RetryConfig
	Circuit  CircuitConfig
	Bulkhead BulkheadConfig
}

// NodeOperationsConfig is the executor wrapping the CLI Gateway (4.A): a
// fast-opening breaker over a modestly retried, bounded-concurrency call.
func NodeOperationsConfig() Config {
	return Config{
		Name:     "node_operations",
		Retry:    DefaultRetryConfig(),
		Circuit:  DefaultCircuitConfig(),
		Bulkhead: DefaultBulkheadConfig(),
	}
}

// DatabaseOperationsConfig is the executor wrapping the Store Gateway
// (4.C): more aggressive retry tuned for deadlocks/serialization failures,
// no bulkhead since the connection pool already bounds concurrency.
func DatabaseOperationsConfig() Config {
	return Config{
		Name: "database_operations",
		Retry: RetryConfig{
			MaxAttempts:     5,
			BaseDelay:       100 * time.Millisecond,
			MaxDelay:        5 * time.Second,
			ExponentialBase: 1.5,
			Jitter:          true,
		},
		Circuit: CircuitConfig{
			FailureThreshold: 10,
			RecoveryTimeout:  15 * time.Second,
			SuccessThreshold: 3,
		},
	}
}

// Executor composes retry(circuit(bulkhead(fn))) around arbitrary calls,
// exposing live state for observability (§4.B).
type Executor struct {
	cfg      Config
	retry    *retrier
	circuit  *CircuitBreaker
	bulkhead *Bulkhead

	attemptsTotal  prometheus.Counter
	failuresTotal  prometheus.Counter
	circuitOpenGauge prometheus.Gauge
}

// NewExecutor builds an executor and registers its gauges/counters against
// reg. reg may be nil (metrics are then created but never exposed, which is
// fine — nothing in this module serves /metrics; see SPEC_FULL §1.2).
func NewExecutor(cfg Config, reg prometheus.Registerer) *Executor {
	e := &Executor{
		cfg:      cfg,
		retry:    newRetrier(cfg.Retry),
		circuit:  NewCircuitBreaker(cfg.Name, cfg.Circuit),
		bulkhead: NewBulkhead(cfg.Name, cfg.Bulkhead),
		attemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "resilience_executor_attempts_total",
			Help:        "Total calls attempted through the executor.",
			ConstLabels: prometheus.Labels{"executor": cfg.Name},
		}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "resilience_executor_failures_total",
			Help:        "Total calls that returned an error after retry.",
			ConstLabels: prometheus.Labels{"executor": cfg.Name},
		}),
		circuitOpenGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "resilience_executor_circuit_open",
			Help:        "1 if the circuit breaker is currently open, else 0.",
			ConstLabels: prometheus.Labels{"executor": cfg.Name},
		}),
	}
	if reg != nil {
		reg.MustRegister(e.attemptsTotal, e.failuresTotal, e.circuitOpenGauge)
	}
	return e
}

// Execute runs fn as retry(circuit(bulkhead(fn))). The bulkhead stage is
// innermost (closest to fn), so a call rejected by the open circuit never
// occupies a bulkhead slot at all. A call that cannot get a bulkhead slot
// returns ErrBulkheadFull, which the circuit records as a failure like any
// other error from fn.
func (e *Executor) Execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	e.attemptsTotal.Inc()
	wrapped := func(ctx context.Context) (any, error) {
		return e.circuit.execute(ctx, func(ctx context.Context) (any, error) {
			return e.bulkhead.execute(ctx, fn)
		})
	}
	result, err := e.retry.execute(ctx, wrapped)
	if err != nil {
		e.failuresTotal.Inc()
	}
	if e.circuit.State() == StateOpen {
		e.circuitOpenGauge.Set(1)
	} else {
		e.circuitOpenGauge.Set(0)
	}
	return result, err
}

// Stats is the combined observable snapshot of all three primitives.
type Stats struct {
	Name     string
	Circuit  CircuitStats
	Bulkhead BulkheadStats
}

// Stats returns a point-in-time snapshot for health reporting.
func (e *Executor) Stats() Stats {
	return Stats{Name: e.cfg.Name, Circuit: e.circuit.stats(), Bulkhead: e.bulkhead.stats()}
}
