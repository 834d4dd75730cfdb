package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/flags"
	oplog "github.com/mantlenetworkio/chainview/op-service/log"
	opmetrics "github.com/mantlenetworkio/chainview/op-service/metrics"
	oprpc "github.com/mantlenetworkio/chainview/op-service/rpc"
)

var (
	ErrInvalidBlockTime       = errors.New("block time must be positive")
	ErrInvalidReaders         = errors.New("readers must not be negative")
	ErrInvalidReaderRate      = errors.New("reader rate must not be negative")
	ErrInvalidReorgDepth      = errors.New("reorg depth must be at least 1 and less than the reorg interval")
	ErrInvalidHeaderCacheSize = errors.New("header cache size must be at least 1")
)

// Config is the configuration of an op-chainview service.
type Config struct {
	Chain chain.Config

	BlockTime  time.Duration
	Readers    int
	// ReaderRate is the number of verifications per second per reader. Zero means unlimited.
	ReaderRate float64

	// ReorgInterval is the number of appended blocks between reorgs. Zero disables reorgs.
	ReorgInterval uint64
	ReorgDepth    uint64

	HeaderCacheSize int
	// MaxBlocks ends the service after this many appends. Zero runs until interrupted.
	MaxBlocks uint64

	Version string

	LogConfig     oplog.CLIConfig
	MetricsConfig opmetrics.CLIConfig
	RPC           oprpc.CLIConfig
}

func (c *Config) Check() error {
	var result error
	result = errors.Join(result, c.Chain.Check())
	result = errors.Join(result, c.MetricsConfig.Check())
	result = errors.Join(result, c.RPC.Check())
	if c.BlockTime <= 0 {
		result = errors.Join(result, ErrInvalidBlockTime)
	}
	if c.Readers < 0 {
		result = errors.Join(result, ErrInvalidReaders)
	}
	if c.ReaderRate < 0 {
		result = errors.Join(result, ErrInvalidReaderRate)
	}
	if c.ReorgInterval != 0 && (c.ReorgDepth == 0 || c.ReorgDepth >= c.ReorgInterval) {
		result = errors.Join(result, fmt.Errorf("%w: depth %d, interval %d", ErrInvalidReorgDepth, c.ReorgDepth, c.ReorgInterval))
	}
	if c.HeaderCacheSize < 1 {
		result = errors.Join(result, ErrInvalidHeaderCacheSize)
	}
	return result
}

// NewConfig parses the Config from the provided flags or environment variables.
func NewConfig(ctx *cli.Context, version string) *Config {
	return &Config{
		Chain: chain.Config{
			MaxTailSize: ctx.Int(flags.MaxTailSizeFlag.Name),
		},
		BlockTime:       ctx.Duration(flags.BlockTimeFlag.Name),
		Readers:         ctx.Int(flags.ReadersFlag.Name),
		ReaderRate:      ctx.Float64(flags.ReaderRateFlag.Name),
		ReorgInterval:   ctx.Uint64(flags.ReorgIntervalFlag.Name),
		ReorgDepth:      ctx.Uint64(flags.ReorgDepthFlag.Name),
		HeaderCacheSize: ctx.Int(flags.HeaderCacheSizeFlag.Name),
		MaxBlocks:       ctx.Uint64(flags.MaxBlocksFlag.Name),
		Version:         version,
		LogConfig:       oplog.ReadCLIConfig(ctx),
		MetricsConfig:   opmetrics.ReadCLIConfig(ctx),
		RPC:             oprpc.ReadCLIConfig(ctx),
	}
}
