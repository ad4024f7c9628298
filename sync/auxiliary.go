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

package sync

import (
	"context"
	"time"

	"github.com/asi-chain/indexer/chain"
	"github.com/asi-chain/indexer/store"
)

// refreshValidatorState runs every tick (4.G): bonds + active set, upserted
// as validators with status 'active' when in the active set and 'bonded'
// otherwise.
func (e *Engine) refreshValidatorState(ctx context.Context, current int64) error {
	bonds, err := e.bonds(ctx)
	if err != nil {
		return err
	}
	actives, err := e.activeValidators(ctx)
	if err != nil {
		return err
	}
	activeSet := make(map[string]bool, len(actives))
	for _, a := range actives {
		activeSet[a.ValidatorKey] = true
	}

	_, err = e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, e.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
			for _, b := range bonds {
				status := chain.ValidatorBonded
				if activeSet[b.ValidatorKey] {
					status = chain.ValidatorActive
				}
				if err := sess.UpsertValidator(ctx, b.ValidatorKey, b.Stake, current, status); err != nil {
					return err
				}
			}
			return nil
		})
	})
	return err
}

// refreshEpochTransition runs every EpochLoopEvery blocks (4.G): if the
// current epoch hasn't been recorded yet, derive its window from
// epoch-info and insert it once.
func (e *Engine) refreshEpochTransition(ctx context.Context, current int64) error {
	info, err := e.epochInfo(ctx)
	if err != nil {
		return err
	}

	_, err = e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, e.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
			has, err := sess.HasEpoch(ctx, info.CurrentEpoch)
			if err != nil {
				return err
			}
			if has {
				return nil
			}
			start := current - (info.EpochLength - info.BlocksUntilNext)
			end := start + info.EpochLength - 1
			return sess.UpsertEpochTransition(ctx, chain.EpochTransition{
				EpochNumber:      info.CurrentEpoch,
				StartBlock:       start,
				EndBlock:         end,
				ActiveValidators: info.ActiveValidators,
				QuarantineLength: info.QuarantineLength,
				ObservedAt:       timeNow(),
			})
		})
	})
	return err
}

// snapshotNetworkStats runs every StatsLoopEvery blocks (4.G): one
// NetworkStats row derived from network-consensus plus the stored
// validator population.
func (e *Engine) snapshotNetworkStats(ctx context.Context, current int64) error {
	cs, err := e.networkConsensus(ctx)
	if err != nil {
		return err
	}

	totalRes, err := e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.db.Count(ctx, `SELECT COUNT(*) FROM validators`)
	})
	if err != nil {
		return err
	}
	stakeRes, err := e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.db.TotalValidatorStake(ctx)
	})
	if err != nil {
		return err
	}

	health := networkHealth(cs.FaultTolerance, cs.BondedRatio)
	row := chain.NetworkStats{
		BlockNumber:      current,
		TotalValidators:  totalRes.(int),
		ActiveValidators: cs.ActiveValidators,
		TotalStakeDust:   stakeRes.(int64),
		ParticipationPct: cs.BondedRatio * 100,
		Health:           health,
		ObservedAt:       timeNow(),
	}

	_, err = e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, e.db.WithSession(ctx, func(ctx context.Context, sess *store.Session) error {
			return sess.InsertNetworkStats(ctx, row)
		})
	})
	return err
}

// networkHealth labels participation from fault tolerance and the bonded
// ratio: unknown when both are zero or below, critical when fault tolerance
// is negative, degraded when less than 66% of stake is bonded, else healthy.
func networkHealth(faultTolerance, bondedRatio float64) chain.NetworkHealth {
	switch {
	case bondedRatio <= 0 && faultTolerance <= 0:
		return chain.HealthUnknown
	case faultTolerance < 0:
		return chain.HealthCritical
	case bondedRatio < 0.66:
		return chain.HealthDegraded
	default:
		return chain.HealthHealthy
	}
}

func timeNow() time.Time { return time.Now() }
