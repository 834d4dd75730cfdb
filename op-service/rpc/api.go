package rpc

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/log"

	oplog "github.com/mantlenetworkio/chainview/op-service/log"
)

var ErrStaticLogLevel = errors.New("log level of this service cannot be changed")

// CommonAdminAPI holds the admin methods every service exposes, next to its own admin namespace.
type CommonAdminAPI struct {
	log log.Logger
	// lvl is nil when the logger was not built on a DynamicLogHandler.
	lvl oplog.LvlSetter
}

func NewCommonAdminAPI(logger log.Logger) *CommonAdminAPI {
	lvl, _ := logger.Handler().(oplog.LvlSetter)
	return &CommonAdminAPI{log: logger, lvl: lvl}
}

func (a *CommonAdminAPI) SetLogLevel(ctx context.Context, level string) error {
	if a.lvl == nil {
		return ErrStaticLogLevel
	}
	parsed, err := oplog.LevelFromString(level)
	if err != nil {
		return err
	}
	a.lvl.SetLogLevel(parsed)
	a.log.Info("Changed log level", "level", level)
	return nil
}
