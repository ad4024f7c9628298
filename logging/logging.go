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

// Package logging builds the single *zap.Logger every component receives
// by constructor injection. There is no package-level logger global here;
// the composition root calls New once and threads the result through.
package logging

import (
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the logger's level, format, and optional file rotation.
type Config struct {
	Level      string // "debug", "info", "warn", "error"
	JSON       bool
	FilePath   string // empty writes to stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig is a reasonable production default: info level, JSON
// encoding, no file rotation (stderr only) until FilePath is set.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		JSON:       true,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 14,
	}
}

// New builds a *zap.Logger per cfg. A FilePath turns on lumberjack
// rotation in addition to stderr; without one, logs go to stderr alone.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(zapcore.AddSync(os.Stderr))}
	if cfg.FilePath != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
