package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/chainview/op-chainview/flags"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/service"
	opservice "github.com/mantlenetworkio/chainview/op-service"
	"github.com/mantlenetworkio/chainview/op-service/cliapp"
	oplog "github.com/mantlenetworkio/chainview/op-service/log"
	"github.com/mantlenetworkio/chainview/op-service/metrics/doc"
)

var (
	Version   = "v0.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	oplog.SetupDefaults()

	app := cli.NewApp()
	app.Flags = flags.Flags
	app.Version = opservice.FormatVersion(Version, GitCommit, GitDate, "")
	app.Name = "op-chainview"
	app.Usage = "Copy-on-write chain index service"
	app.Description = "Maintains a snapshot-isolated chain index, fed by a block driver and verified by concurrent readers"
	app.Action = cliapp.LifecycleCmd(service.Main(Version))
	app.Commands = []*cli.Command{
		{
			Name:        "doc",
			Subcommands: doc.NewSubcommands(metrics.NewMetrics("default")),
		},
	}

	ctx, cancel := cliapp.WithInterrupt(context.Background())
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}
