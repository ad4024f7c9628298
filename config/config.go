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

// Package config loads the indexer's process-wide configuration from
// environment variables (§6), validating required fields at construction
// so a misconfigured deployment fails fast instead of mid-sync.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Config is the full environment-sourced configuration surface (§6).
type Config struct {
	NodeHost         string
	GRPCPort         int
	HTTPPort         int
	ObserverHost     string
	ObserverGRPCPort int
	ObserverHTTPPort int
	NodeTimeout      time.Duration

	RustCLIPath string

	DatabaseURL         string
	DatabasePoolSize    int
	DatabasePoolTimeout time.Duration

	SyncInterval   time.Duration
	BatchSize      int64
	StartFromBlock int64

	MonitoringPort      int
	HealthCheckInterval time.Duration

	EnableRevTransferExtraction bool
	EnableMetrics               bool
	EnableHealthCheck           bool

	MaxReorgDepth      int64
	ConfirmationDepth  int64
	ReorgCheckInterval time.Duration
}

// Load reads every field from the environment, applying spec-mandated
// defaults, and validates rust_cli_path exists on fs. fs is injected so
// tests can substitute afero.NewMemMapFs() instead of touching disk.
func Load(fs afero.Fs) (Config, error) {
	cfg := Config{
		NodeHost:         getString("NODE_HOST", "localhost"),
		GRPCPort:         getInt("GRPC_PORT", 40401),
		HTTPPort:         getInt("HTTP_PORT", 40403),
		ObserverHost:     getString("OBSERVER_HOST", "localhost"),
		ObserverGRPCPort: getInt("OBSERVER_GRPC_PORT", 40401),
		ObserverHTTPPort: getInt("OBSERVER_HTTP_PORT", 40403),
		NodeTimeout:      getDuration("NODE_TIMEOUT", 30*time.Second),

		RustCLIPath: getString("RUST_CLI_PATH", ""),

		DatabaseURL:         getString("DATABASE_URL", "file:indexer.db"),
		DatabasePoolSize:    getInt("DATABASE_POOL_SIZE", 1),
		DatabasePoolTimeout: getDuration("DATABASE_POOL_TIMEOUT", 5*time.Second),

		SyncInterval:   getDuration("SYNC_INTERVAL", 5*time.Second),
		BatchSize:      getInt64("BATCH_SIZE", 100),
		StartFromBlock: getInt64("START_FROM_BLOCK", 0),

		MonitoringPort:      getInt("MONITORING_PORT", 9090),
		HealthCheckInterval: getDuration("HEALTH_CHECK_INTERVAL", 10*time.Second),

		EnableRevTransferExtraction: getBool("ENABLE_REV_TRANSFER_EXTRACTION", true),
		EnableMetrics:               getBool("ENABLE_METRICS", false),
		EnableHealthCheck:           getBool("ENABLE_HEALTH_CHECK", false),

		MaxReorgDepth:      getInt64("MAX_REORG_DEPTH", 100),
		ConfirmationDepth:  getInt64("CONFIRMATION_DEPTH", 10),
		ReorgCheckInterval: getDuration("REORG_CHECK_INTERVAL", 30*time.Second),
	}

	if err := cfg.validate(fs); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(fs afero.Fs) error {
	if c.RustCLIPath == "" {
		return errors.New("RUST_CLI_PATH is required")
	}
	exists, err := afero.Exists(fs, c.RustCLIPath)
	if err != nil {
		return errors.Wrap(err, "check rust_cli_path")
	}
	if !exists {
		return errors.Errorf("rust_cli_path %q does not exist", c.RustCLIPath)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.BatchSize <= 0 {
		return errors.New("BATCH_SIZE must be positive")
	}
	return nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
