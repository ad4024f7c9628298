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

package gateway

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
)

// Config carries the fixed CLI invocation parameters: binary location,
// the observer node's host/ports, and the per-operation timeouts.
type Config struct {
	CLIPath      string
	ObserverHost string
	GRPCPort     int
	HTTPPort     int

	CallTimeout  time.Duration
	BatchTimeout time.Duration
	MaxOutput    datasize.ByteSize
}

// DefaultConfig matches the legacy client's per-operation timeouts (§4.A:
// "defaults: 30s, block-batch 60s").
func DefaultConfig(cliPath, host string, grpcPort, httpPort int) Config {
	return Config{
		CLIPath:      cliPath,
		ObserverHost: host,
		GRPCPort:     grpcPort,
		HTTPPort:     httpPort,
		CallTimeout:  30 * time.Second,
		BatchTimeout: 60 * time.Second,
		MaxOutput:    16 * datasize.MB,
	}
}

// Gateway is the sole impedance match with the external node CLI. Every
// method spawns a fresh subprocess; nothing here is stateful except the
// abbreviated-validator-key buffer, which persists observations across
// calls by design (§4.A).
type Gateway struct {
	cfg Config
	log *zap.Logger
	keys *keyResolver
}

// New constructs a Gateway. log may be zap.NewNop() in tests.
func New(cfg Config, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{cfg: cfg, log: log, keys: newKeyResolver()}
}

func (g *Gateway) hostFlags() []string {
	return []string{"-H", g.cfg.ObserverHost}
}

// run spawns the CLI with the given subcommand and flags, bounding both
// wall-clock (via ctx, already carrying the caller's timeout) and output
// size (a runaway subprocess cannot exhaust memory).
func (g *Gateway) run(ctx context.Context, op string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.cfg.CLIPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{buf: &stdout, limit: int(g.cfg.MaxOutput.Bytes())}
	cmd.Stderr = &stderr

	g.log.Debug("cli invoke", zap.String("op", op), zap.Strings("args", args))
	err := cmd.Run()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", &CLIError{Op: op, Args: args, ExitCode: exitCode, Stderr: stderr.String(), Cause: err}
	}
	return stdout.String(), nil
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// limitedWriter caps captured stdout so a misbehaving subprocess cannot
// grow the buffer unbounded; bytes past the limit are discarded but the
// subprocess itself is never killed for it (its exit code still drives
// CLIError classification).
type limitedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.limit > 0 && w.buf.Len() >= w.limit {
		return len(p), nil
	}
	if w.limit > 0 && w.buf.Len()+len(p) > w.limit {
		p = p[:w.limit-w.buf.Len()]
	}
	return w.buf.Write(p)
}

// Head runs last-finalized-block.
func (g *Gateway) Head(ctx context.Context) (HeadInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := append([]string{"last-finalized-block"}, g.hostFlags()...)
	args = append(args, "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "head", args...)
	if err != nil {
		return HeadInfo{}, err
	}
	return parseHead("head", out)
}

// BlocksByHeight runs get-blocks-by-height for the inclusive [start, end] window.
func (g *Gateway) BlocksByHeight(ctx context.Context, start, end int64) ([]BlockSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.BatchTimeout)
	defer cancel()
	args := []string{"get-blocks-by-height", "-s", strconv.FormatInt(start, 10), "-e", strconv.FormatInt(end, 10)}
	args = append(args, g.hostFlags()...)
	args = append(args, "--grpc-port", strconv.Itoa(g.cfg.GRPCPort))
	out, err := g.run(ctx, "blocks_by_height", args...)
	if err != nil {
		return nil, err
	}
	frames := parseBlockFrames(out)
	if len(frames) == 0 {
		return nil, &ParseError{Op: "blocks_by_height", Output: out, Reason: "no block frames found"}
	}
	return frames, nil
}

type rawBlockInfo struct {
	BlockHash      string            `json:"blockHash"`
	BlockNumber    int64             `json:"blockNumber"`
	ParentHash     string            `json:"parentHash"`
	Timestamp      int64             `json:"timestamp"`
	Sender         string            `json:"sender"`
	PreStateHash   string            `json:"preStateHash"`
	PostStateHash  string            `json:"postStateHash"`
	Status         string            `json:"status"`
	Bonds          map[string]int64  `json:"bonds"`
	Justifications []string          `json:"justifications"`
	FaultTolerance float64           `json:"faultTolerance"`
	Sig            string            `json:"sig"`
	SigAlgorithm   string            `json:"sigAlgorithm"`
	ShardId        string            `json:"shardId"`
	Version        int               `json:"version"`
}

type rawDeploy struct {
	DeployID  string `json:"deployId"`
	Term      string `json:"term"`
	Deployer  string `json:"deployer"`
	Timestamp int64  `json:"timestamp"`
	Cost      int64  `json:"cost"`
	ErrorMsg  string `json:"errorMessage"`
}

type rawBlockDetail struct {
	BlockInfo rawBlockInfo `json:"blockInfo"`
	Deploys   []rawDeploy  `json:"deploys"`
}

func (r rawBlockInfo) toBlockInfo() BlockInfo {
	bi := BlockInfo{
		BlockHash:      r.BlockHash,
		BlockNumber:    r.BlockNumber,
		ParentHash:     r.ParentHash,
		Timestamp:      r.Timestamp,
		Sender:         r.Sender,
		PreStateHash:   r.PreStateHash,
		PostStateHash:  r.PostStateHash,
		Status:         r.Status,
		Justifications: r.Justifications,
		FaultTolerance: r.FaultTolerance,
		Sig:            r.Sig,
		SigAlgorithm:   r.SigAlgorithm,
		ShardId:        r.ShardId,
		Version:        r.Version,
	}
	for key, stake := range r.Bonds {
		bi.Bonds = append(bi.Bonds, BondEntry{ValidatorKey: key, Stake: stake, resolved: true})
	}
	return bi
}

func (r rawDeploy) toDeployInfo() DeployInfo {
	return DeployInfo{
		DeployID:  r.DeployID,
		Term:      r.Term,
		Deployer:  r.Deployer,
		Timestamp: r.Timestamp,
		Cost:      r.Cost,
		ErrorMsg:  r.ErrorMsg,
	}
}

// BlockDetails runs `blocks --block-hash <h>`, decoding the embedded
// {blockInfo, deploys} JSON object.
func (g *Gateway) BlockDetails(ctx context.Context, hash string) (BlockDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := []string{"blocks", "--block-hash", hash}
	args = append(args, g.hostFlags()...)
	args = append(args, "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "block_details", args...)
	if err != nil {
		return BlockDetail{}, err
	}
	var raw rawBlockDetail
	if err := decodeEmbeddedJSON("block_details", out, &raw); err != nil {
		return BlockDetail{}, err
	}
	deploys := make([]DeployInfo, 0, len(raw.Deploys))
	for _, d := range raw.Deploys {
		deploys = append(deploys, d.toDeployInfo())
	}
	return BlockDetail{Info: raw.BlockInfo.toBlockInfo(), Deploys: deploys}, nil
}

// DeployInfo runs `get-deploy -d <id> --format json`.
func (g *Gateway) DeployInfo(ctx context.Context, deployID string) (DeployInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := []string{"get-deploy", "-d", deployID, "--format", "json"}
	args = append(args, g.hostFlags()...)
	args = append(args, "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "deploy_info", args...)
	if err != nil {
		return DeployInfo{}, err
	}
	var raw rawDeploy
	if err := decodeEmbeddedJSON("deploy_info", out, &raw); err != nil {
		return DeployInfo{}, err
	}
	return raw.toDeployInfo(), nil
}

// Bonds runs `bonds`, reassembling abbreviated validator keys against any
// full key present in the same response; unresolved ones go to the pending
// buffer and are omitted.
func (g *Gateway) Bonds(ctx context.Context) ([]BondEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := append([]string{"bonds"}, g.hostFlags()...)
	args = append(args, "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "bonds", args...)
	if err != nil {
		return nil, err
	}
	return g.keys.resolve(out), nil
}

// ActiveValidators runs `active-validators`.
func (g *Gateway) ActiveValidators(ctx context.Context) ([]ValidatorEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := append([]string{"active-validators"}, g.hostFlags()...)
	args = append(args, "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "active_validators", args...)
	if err != nil {
		return nil, err
	}
	return g.keys.resolveValidators(parseValidatorEntries(out), out), nil
}

// EpochInfo runs `epoch-info`.
func (g *Gateway) EpochInfo(ctx context.Context) (EpochInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := append([]string{"epoch-info"}, g.hostFlags()...)
	args = append(args, "--grpc-port", strconv.Itoa(g.cfg.GRPCPort), "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "epoch_info", args...)
	if err != nil {
		return EpochInfo{}, err
	}
	return parseEpochInfo(out), nil
}

// NetworkConsensus runs `network-consensus`.
func (g *Gateway) NetworkConsensus(ctx context.Context) (ConsensusSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()
	args := append([]string{"network-consensus"}, g.hostFlags()...)
	args = append(args, "--grpc-port", strconv.Itoa(g.cfg.GRPCPort), "--http-port", strconv.Itoa(g.cfg.HTTPPort))
	out, err := g.run(ctx, "network_consensus", args...)
	if err != nil {
		return ConsensusSnapshot{}, err
	}
	return parseConsensus(out), nil
}

// MainChain runs `show-main-chain -d <depth>`, used by the reorg auditor
// to fetch canonical block frames to diff against stored state.
func (g *Gateway) MainChain(ctx context.Context, depth int) ([]BlockSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.BatchTimeout)
	defer cancel()
	args := []string{"show-main-chain", "-d", strconv.Itoa(depth)}
	args = append(args, g.hostFlags()...)
	args = append(args, "--grpc-port", strconv.Itoa(g.cfg.GRPCPort))
	out, err := g.run(ctx, "main_chain", args...)
	if err != nil {
		return nil, err
	}
	return parseBlockFrames(out), nil
}

// PendingBonds exposes the abbreviated-key buffer for diagnostics.
func (g *Gateway) PendingBonds() []PendingBond { return g.keys.Pending() }
