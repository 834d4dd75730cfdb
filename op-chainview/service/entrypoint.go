package service

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mantlenetworkio/chainview/op-chainview/config"
	"github.com/mantlenetworkio/chainview/op-chainview/flags"
	opservice "github.com/mantlenetworkio/chainview/op-service"
	"github.com/mantlenetworkio/chainview/op-service/cliapp"
	oplog "github.com/mantlenetworkio/chainview/op-service/log"
)

// Main is the entrypoint into the chainview service.
func Main(version string) cliapp.LifecycleAction {
	return func(cliCtx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
		if err := flags.CheckRequired(cliCtx); err != nil {
			return nil, err
		}
		cfg := config.NewConfig(cliCtx, version)
		if err := cfg.Check(); err != nil {
			return nil, fmt.Errorf("invalid CLI flags: %w", err)
		}

		l := oplog.NewLogger(oplog.AppOut(cliCtx), cfg.LogConfig)
		oplog.SetGlobalLogHandler(l.Handler())
		opservice.ValidateEnvVars(flags.EnvVarPrefix, flags.Flags, l)

		l.Info("Initializing chainview service", "version", version)
		return FromConfig(cliCtx.Context, cfg, l, closeApp)
	}
}
