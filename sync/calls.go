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

	"github.com/asi-chain/indexer/blockproc"
	"github.com/asi-chain/indexer/gateway"
)

// Every external call (CLI subprocess or database write) goes through its
// executor (4.B) so retry/circuit/bulkhead policy lives in one place rather
// than being re-derived at each call site.

func (e *Engine) head(ctx context.Context) (gateway.HeadInfo, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.Head(ctx)
	})
	if err != nil {
		return gateway.HeadInfo{}, err
	}
	return res.(gateway.HeadInfo), nil
}

func (e *Engine) blocksByHeight(ctx context.Context, start, end int64) ([]gateway.BlockSummary, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.BlocksByHeight(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}
	return res.([]gateway.BlockSummary), nil
}

func (e *Engine) blockDetails(ctx context.Context, hash string) (gateway.BlockDetail, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.BlockDetails(ctx, hash)
	})
	if err != nil {
		return gateway.BlockDetail{}, err
	}
	return res.(gateway.BlockDetail), nil
}

func (e *Engine) bonds(ctx context.Context) ([]gateway.BondEntry, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.Bonds(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]gateway.BondEntry), nil
}

func (e *Engine) activeValidators(ctx context.Context) ([]gateway.ValidatorEntry, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.ActiveValidators(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]gateway.ValidatorEntry), nil
}

func (e *Engine) epochInfo(ctx context.Context) (gateway.EpochInfo, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.EpochInfo(ctx)
	})
	if err != nil {
		return gateway.EpochInfo{}, err
	}
	return res.(gateway.EpochInfo), nil
}

func (e *Engine) networkConsensus(ctx context.Context) (gateway.ConsensusSnapshot, error) {
	res, err := e.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.gw.NetworkConsensus(ctx)
	})
	if err != nil {
		return gateway.ConsensusSnapshot{}, err
	}
	return res.(gateway.ConsensusSnapshot), nil
}

func (e *Engine) getLastIndexedBlock(ctx context.Context) (int64, error) {
	res, err := e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return e.db.GetLastIndexedBlock(ctx)
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (e *Engine) setLastIndexedBlock(ctx context.Context, n int64) error {
	_, err := e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, e.db.SetLastIndexedBlock(ctx, n)
	})
	return err
}

func (e *Engine) process(ctx context.Context, payload blockproc.BlockPayload) error {
	_, err := e.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return nil, e.proc.Process(ctx, payload)
	})
	return err
}
