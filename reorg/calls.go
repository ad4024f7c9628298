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

package reorg

import (
	"context"
	"strconv"

	"github.com/asi-chain/indexer/gateway"
)

func checkpointValue(n int64) string { return strconv.FormatInt(n, 10) }

func (h *Handler) maxBlockNumber(ctx context.Context) (int64, error) {
	res, err := h.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return h.db.MaxBlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (h *Handler) blockHashesInRange(ctx context.Context, start, end int64) (map[int64]string, error) {
	res, err := h.dbExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return h.db.BlockHashesInRange(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[int64]string), nil
}

func (h *Handler) mainChain(ctx context.Context, depth int) ([]gateway.BlockSummary, error) {
	res, err := h.nodeExec.Execute(ctx, func(ctx context.Context) (any, error) {
		return h.gw.MainChain(ctx, depth)
	})
	if err != nil {
		return nil, err
	}
	return res.([]gateway.BlockSummary), nil
}
