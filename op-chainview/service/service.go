package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/config"
	"github.com/mantlenetworkio/chainview/op-chainview/frontend"
	"github.com/mantlenetworkio/chainview/op-chainview/headers"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/source"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	"github.com/mantlenetworkio/chainview/op-service/cliapp"
	"github.com/mantlenetworkio/chainview/op-service/httputil"
	opmetrics "github.com/mantlenetworkio/chainview/op-service/metrics"
	oprpc "github.com/mantlenetworkio/chainview/op-service/rpc"
)

var ErrAlreadyStopped = errors.New("already stopped")

// ChainViewService runs the chain index, its writer driver, the snapshot
// readers and the RPC and metrics servers.
type ChainViewService struct {
	log      log.Logger
	metrics  metrics.Metricer
	closeApp context.CancelCauseFunc

	cfg *config.Config

	chain   *chain.Chain[types.BlockRef]
	headers *headers.Cache
	driver  *Driver
	readers []*Reader

	readersCancel context.CancelFunc
	readersGroup  *errgroup.Group

	metricsSrv *httputil.HTTPServer
	rpcServer  *oprpc.Server

	started atomic.Bool
	stopped atomic.Bool
}

var _ cliapp.Lifecycle = (*ChainViewService)(nil)

func FromConfig(ctx context.Context, cfg *config.Config, logger log.Logger, closeApp context.CancelCauseFunc) (*ChainViewService, error) {
	su := &ChainViewService{log: logger, cfg: cfg, closeApp: closeApp}
	if err := su.initFromCLIConfig(ctx, cfg); err != nil {
		return nil, errors.Join(err, su.Stop(ctx)) // try to clean up our failed initialization attempt
	}
	return su, nil
}

func (su *ChainViewService) initFromCLIConfig(ctx context.Context, cfg *config.Config) error {
	su.initMetrics(cfg)
	if err := su.initChain(cfg); err != nil {
		return fmt.Errorf("failed to init chain: %w", err)
	}
	su.initDriver(cfg)
	su.initReaders(cfg)
	if err := su.initMetricsServer(cfg); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	su.initRPCServer(cfg)
	su.metrics.RecordInfo(cfg.Version)
	return nil
}

func (su *ChainViewService) initMetrics(cfg *config.Config) {
	if cfg.MetricsConfig.Enabled {
		procName := "default"
		su.metrics = metrics.NewMetrics(procName)
	} else {
		su.metrics = metrics.NoopMetrics
	}
}

func (su *ChainViewService) initChain(cfg *config.Config) error {
	ch, err := chain.New[types.BlockRef](su.log.New("module", "chain"), su.metrics, cfg.Chain)
	if err != nil {
		return err
	}
	su.chain = ch
	cache, err := headers.NewCache(su.metrics, cfg.HeaderCacheSize)
	if err != nil {
		return fmt.Errorf("failed to create header cache: %w", err)
	}
	su.headers = cache
	return nil
}

func (su *ChainViewService) initDriver(cfg *config.Config) {
	su.driver = NewDriver(DriverSetup{
		Log:  su.log.New("module", "driver"),
		Metr: su.metrics,
		Cfg: DriverConfig{
			BlockTime:     cfg.BlockTime,
			ReorgInterval: cfg.ReorgInterval,
			ReorgDepth:    cfg.ReorgDepth,
			MaxBlocks:     cfg.MaxBlocks,
		},
		Chain:   su.chain,
		Headers: su.headers,
		Source:  source.NewGenerator(uint64(time.Now().Unix()), uint64(max(cfg.BlockTime/time.Second, 1))),
		OnDone: func() {
			if su.closeApp != nil {
				su.closeApp(errors.New("appended all blocks"))
			}
		},
	})
}

func (su *ChainViewService) initReaders(cfg *config.Config) {
	for i := 0; i < cfg.Readers; i++ {
		su.readers = append(su.readers, NewReader(su.log.New("module", "reader", "id", i), su.metrics, su.chain, cfg.ReaderRate))
	}
}

func (su *ChainViewService) initMetricsServer(cfg *config.Config) error {
	if !cfg.MetricsConfig.Enabled {
		su.log.Info("Metrics disabled")
		return nil
	}
	m, ok := su.metrics.(opmetrics.RegistryMetricer)
	if !ok {
		return fmt.Errorf("metrics were enabled, but metricer %T does not expose registry for metrics-server", su.metrics)
	}
	su.log.Debug("Starting metrics server", "addr", cfg.MetricsConfig.ListenAddr, "port", cfg.MetricsConfig.ListenPort)
	metricsSrv, err := opmetrics.StartServer(m.Registry(), cfg.MetricsConfig.ListenAddr, cfg.MetricsConfig.ListenPort)
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	su.log.Info("Started metrics server", "addr", metricsSrv.Addr())
	su.metricsSrv = metricsSrv
	return nil
}

func (su *ChainViewService) initRPCServer(cfg *config.Config) {
	server := oprpc.NewServer(
		cfg.RPC.ListenAddr,
		cfg.RPC.ListenPort,
		cfg.Version,
		oprpc.WithLogger(su.log),
	)
	server.AddAPI(rpc.API{
		Namespace: "chainview",
		Service:   &frontend.QueryFrontend{Chain: su.chain, Headers: su.headers},
	})
	if cfg.RPC.EnableAdmin {
		su.log.Info("Admin RPC enabled")
		server.AddAPI(rpc.API{
			Namespace: "admin",
			Service:   &frontend.AdminFrontend{Chain: su.chain},
		})
		server.AddAPI(rpc.API{
			Namespace: "admin",
			Service:   oprpc.NewCommonAdminAPI(su.log),
		})
	}
	su.rpcServer = server
}

func (su *ChainViewService) Start(ctx context.Context) error {
	if !su.started.CompareAndSwap(false, true) {
		return errors.New("already started")
	}
	su.log.Info("Starting JSON-RPC server")
	if err := su.rpcServer.Start(); err != nil {
		return fmt.Errorf("unable to start RPC server: %w", err)
	}

	readersCtx, cancel := context.WithCancel(context.Background())
	su.readersCancel = cancel
	group, groupCtx := errgroup.WithContext(readersCtx)
	for _, r := range su.readers {
		group.Go(func() error {
			return r.Run(groupCtx)
		})
	}
	su.readersGroup = group
	go func() {
		if err := group.Wait(); err != nil {
			su.log.Error("Snapshot readers failed", "err", err)
			if su.closeApp != nil {
				su.closeApp(err)
			}
		}
	}()

	if err := su.driver.Start(); err != nil {
		return fmt.Errorf("failed to start driver: %w", err)
	}
	su.metrics.RecordUp()
	su.log.Info("Started chainview service", "readers", len(su.readers), "max_tail_size", su.cfg.Chain.MaxTailSize)
	return nil
}

func (su *ChainViewService) Stop(ctx context.Context) error {
	if !su.stopped.CompareAndSwap(false, true) {
		return ErrAlreadyStopped
	}
	su.log.Info("Stopping chainview service")

	var result error
	if su.driver != nil && su.driver.Running() {
		if err := su.driver.Stop(); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to stop driver: %w", err))
		}
	}
	if su.readersCancel != nil {
		su.readersCancel()
		if err := su.readersGroup.Wait(); err != nil {
			result = errors.Join(result, fmt.Errorf("snapshot readers failed: %w", err))
		}
	}
	if su.rpcServer != nil && su.started.Load() {
		if err := su.rpcServer.Stop(); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to stop RPC server: %w", err))
		}
	}
	if su.metricsSrv != nil {
		if err := su.metricsSrv.Stop(ctx); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to stop metrics server: %w", err))
		}
	}
	su.log.Info("Stopped chainview service")
	return result
}

func (su *ChainViewService) Stopped() bool {
	return su.stopped.Load()
}

func (su *ChainViewService) Chain() *chain.Chain[types.BlockRef] {
	return su.chain
}

func (su *ChainViewService) Driver() *Driver {
	return su.driver
}

func (su *ChainViewService) RPC() string {
	return "http://" + su.rpcServer.Endpoint()
}
