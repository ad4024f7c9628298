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

package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingCLIPath_Fails(t *testing.T) {
	fs := afero.NewMemMapFs()
	t.Setenv("RUST_CLI_PATH", "/nonexistent/node_cli")
	t.Setenv("DATABASE_URL", "file:test.db")

	_, err := Load(fs)
	require.Error(t, err)
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/local/bin/node_cli", []byte("#!/bin/sh"), 0o755))

	t.Setenv("RUST_CLI_PATH", "/usr/local/bin/node_cli")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("SYNC_INTERVAL", "7s")
	t.Setenv("BATCH_SIZE", "25")

	cfg, err := Load(fs)
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/node_cli", cfg.RustCLIPath)
	require.Equal(t, 7*time.Second, cfg.SyncInterval)
	require.Equal(t, int64(25), cfg.BatchSize)
	require.Equal(t, int64(100), cfg.MaxReorgDepth) // untouched default
}

func TestLoad_NonPositiveBatchSize_Fails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/local/bin/node_cli", []byte("#!/bin/sh"), 0o755))

	t.Setenv("RUST_CLI_PATH", "/usr/local/bin/node_cli")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("BATCH_SIZE", "0")

	_, err := Load(fs)
	require.Error(t, err)
}
