package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	opservice "github.com/mantlenetworkio/chainview/op-service"
	oplog "github.com/mantlenetworkio/chainview/op-service/log"
	opmetrics "github.com/mantlenetworkio/chainview/op-service/metrics"
	oprpc "github.com/mantlenetworkio/chainview/op-service/rpc"
)

const EnvVarPrefix = "OP_CHAINVIEW"

func prefixEnvVars(name string) []string {
	return opservice.PrefixEnvVar(EnvVarPrefix, name)
}

var (
	MaxTailSizeFlag = &cli.IntFlag{
		Name:    "max-tail-size",
		Usage:   "Number of recent blocks kept in the copy-on-write tail before merging into the base",
		Value:   chain.DefaultMaxTailSize,
		EnvVars: prefixEnvVars("MAX_TAIL_SIZE"),
	}
	BlockTimeFlag = &cli.DurationFlag{
		Name:    "block-time",
		Usage:   "Interval at which the writer appends a new block",
		Value:   100 * time.Millisecond,
		EnvVars: prefixEnvVars("BLOCK_TIME"),
	}
	ReadersFlag = &cli.IntFlag{
		Name:    "readers",
		Usage:   "Number of concurrent snapshot readers verifying the chain",
		Value:   4,
		EnvVars: prefixEnvVars("READERS"),
	}
	ReaderRateFlag = &cli.Float64Flag{
		Name:    "reader-rate",
		Usage:   "Maximum snapshot verifications per second, per reader. Zero means unlimited",
		Value:   20,
		EnvVars: prefixEnvVars("READER_RATE"),
	}
	ReorgIntervalFlag = &cli.Uint64Flag{
		Name:    "reorg-interval",
		Usage:   "Rewind and fork the chain every this many blocks. Zero disables reorgs",
		Value:   50,
		EnvVars: prefixEnvVars("REORG_INTERVAL"),
	}
	ReorgDepthFlag = &cli.Uint64Flag{
		Name:    "reorg-depth",
		Usage:   "Number of blocks removed by each reorg",
		Value:   3,
		EnvVars: prefixEnvVars("REORG_DEPTH"),
	}
	HeaderCacheSizeFlag = &cli.IntFlag{
		Name:    "header-cache-size",
		Usage:   "Number of recently produced headers kept for lookups by hash",
		Value:   10_000,
		EnvVars: prefixEnvVars("HEADER_CACHE_SIZE"),
	}
	MaxBlocksFlag = &cli.Uint64Flag{
		Name:    "max-blocks",
		Usage:   "Stop after appending this many blocks. Zero runs until interrupted",
		Value:   0,
		EnvVars: prefixEnvVars("MAX_BLOCKS"),
	}
)

var requiredFlags []cli.Flag

var optionalFlags = []cli.Flag{
	MaxTailSizeFlag,
	BlockTimeFlag,
	ReadersFlag,
	ReaderRateFlag,
	ReorgIntervalFlag,
	ReorgDepthFlag,
	HeaderCacheSizeFlag,
	MaxBlocksFlag,
}

func init() {
	optionalFlags = append(optionalFlags, oprpc.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

// Flags contains the list of configuration options available to the binary.
var Flags []cli.Flag

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
