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

// Command indexer is the composition root: it wires the CLI Gateway, the
// Resilience Executors, the Store Gateway, the Block Processor, the Sync
// Engine and the Reorg Handler as explicit dependencies and exposes the
// result as three cobra subcommands. CLI entry-point parsing itself is
// outside the tested core.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asi-chain/indexer/blockproc"
	"github.com/asi-chain/indexer/config"
	"github.com/asi-chain/indexer/gateway"
	"github.com/asi-chain/indexer/logging"
	"github.com/asi-chain/indexer/reorg"
	"github.com/asi-chain/indexer/resilience"
	"github.com/asi-chain/indexer/store"
	syncengine "github.com/asi-chain/indexer/sync"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "indexer",
		Short: "ASI-Chain indexer: syncs a relational store from a node's observer CLI",
	}
	root.AddCommand(newRunCmd(), newResetCmd(), newVerifyChainCmd())
	return root
}

func loadAndWire() (config.Config, *zap.Logger, *store.Gateway, *gateway.Gateway, *resilience.Executor, *resilience.Executor, error) {
	cfg, err := config.Load(afero.NewOsFs())
	if err != nil {
		return config.Config{}, nil, nil, nil, nil, nil, err
	}

	log, err := logging.New(logging.DefaultConfig())
	if err != nil {
		return config.Config{}, nil, nil, nil, nil, nil, err
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return config.Config{}, nil, nil, nil, nil, nil, err
	}

	gwCfg := gateway.DefaultConfig(cfg.RustCLIPath, cfg.ObserverHost, cfg.ObserverGRPCPort, cfg.ObserverHTTPPort)
	gwCfg.CallTimeout = cfg.NodeTimeout
	gw := gateway.New(gwCfg, log)

	reg := prometheus.NewRegistry()
	nodeExec := resilience.NewExecutor(resilience.NodeOperationsConfig(), reg)
	dbExec := resilience.NewExecutor(resilience.DatabaseOperationsConfig(), reg)

	return cfg, log, db, gw, nodeExec, dbExec, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync engine and reorg handler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, gw, nodeExec, dbExec, err := loadAndWire()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			reorgCfg := reorg.Config{
				DetectionInterval: cfg.ReorgCheckInterval,
				ConfirmationDepth: cfg.ConfirmationDepth,
				MaxReorgDepth:     cfg.MaxReorgDepth,
			}
			reorgHandler := reorg.New(reorgCfg, gw, db, nodeExec, dbExec, log)

			proc := blockproc.New(db, log, nil, nil, cfg.EnableRevTransferExtraction)
			syncCfg := syncengine.DefaultConfig()
			syncCfg.SyncInterval = cfg.SyncInterval
			syncCfg.BatchSize = cfg.BatchSize
			syncCfg.StartFromBlock = cfg.StartFromBlock
			engine := syncengine.New(syncCfg, gw, db, proc, nodeExec, dbExec, reorgHandler, log)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go reorgHandler.Run(ctx)
			engine.Run(ctx)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the store's schema, discarding all indexed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			cfg, err := config.Load(afero.NewOsFs())
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Reset(cmd.Context()); err != nil {
				return err
			}
			return db.EnsureSchema(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")
	return cmd
}

func newVerifyChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-chain",
		Short: "Run the read-only chain-integrity audit and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, gw, nodeExec, dbExec, err := loadAndWire()
			if err != nil {
				return err
			}
			defer db.Close()

			reorgCfg := reorg.Config{
				DetectionInterval: cfg.ReorgCheckInterval,
				ConfirmationDepth: cfg.ConfirmationDepth,
				MaxReorgDepth:     cfg.MaxReorgDepth,
			}
			handler := reorg.New(reorgCfg, gw, db, nodeExec, dbExec, log)

			result, err := handler.Audit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("missing block numbers: %v\n", result.MissingBlockNumbers)
			fmt.Printf("orphaned parent hashes: %v\n", result.OrphanedParentHashes)
			return nil
		},
	}
}
