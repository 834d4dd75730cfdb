package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/source"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

type HeaderStore interface {
	Add(ref types.BlockRef)
}

type DriverConfig struct {
	BlockTime     time.Duration
	ReorgInterval uint64
	ReorgDepth    uint64
	MaxBlocks     uint64
}

type DriverSetup struct {
	Log     log.Logger
	Metr    metrics.Metricer
	Cfg     DriverConfig
	Chain   *chain.Chain[types.BlockRef]
	Headers HeaderStore
	Source  *source.Generator
	// OnDone is called once MaxBlocks blocks have been appended.
	OnDone func()
}

// Driver is the single writer of the chain: it appends generated blocks
// at a fixed interval, and regularly rewinds the chain to continue on a fork.
type Driver struct {
	DriverSetup

	wg   sync.WaitGroup
	done chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mutex   sync.Mutex
	running bool

	// counters are written by the loop, and may be read from any goroutine
	appended atomic.Uint64
	reorgs   atomic.Uint64
	// forkSalt is non-zero when the next block has to start a new fork
	forkSalt uint64
}

func NewDriver(setup DriverSetup) *Driver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Driver{
		DriverSetup: setup,
		done:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (d *Driver) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.running {
		return errors.New("driver is already running")
	}
	d.running = true

	d.wg.Add(1)
	go d.loop()

	d.Log.Info("started driver", "block_time", d.Cfg.BlockTime)
	return nil
}

func (d *Driver) Stop() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.running {
		return errors.New("driver is not running")
	}
	d.running = false

	d.cancel()
	close(d.done)
	d.wg.Wait()

	d.Log.Info("stopped driver", "appended", d.appended.Load(), "reorgs", d.reorgs.Load())
	return nil
}

func (d *Driver) Running() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.running
}

func (d *Driver) loop() {
	defer d.wg.Done()
	defer d.Log.Info("loop returning")

	ticker := time.NewTicker(d.Cfg.BlockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Prioritize quit signal
			select {
			case <-d.done:
				return
			default:
			}

			if err := d.Step(); err != nil {
				d.Log.Warn("failed to extend chain", "err", err)
				continue
			}
			if d.Finished() {
				d.Log.Info("appended all blocks", "blocks", d.appended.Load())
				if d.OnDone != nil {
					d.OnDone()
				}
				return
			}
		case <-d.done:
			return
		}
	}
}

// Finished reports whether MaxBlocks blocks have been appended.
func (d *Driver) Finished() bool {
	return d.Cfg.MaxBlocks != 0 && d.appended.Load() >= d.Cfg.MaxBlocks
}

// Step appends one block, and rewinds the chain if a reorg is due.
// Step must not be called concurrently with itself.
func (d *Driver) Step() error {
	tip, ok := d.Chain.Tip()
	var next types.BlockRef
	switch {
	case !ok:
		next = d.Source.Genesis()
	case d.forkSalt != 0:
		next = d.Source.Fork(tip, d.forkSalt)
	default:
		next = d.Source.Next(tip)
	}
	if err := d.Chain.SetTip(next); err != nil {
		return fmt.Errorf("failed to append block %s: %w", next, err)
	}
	d.forkSalt = 0
	appended := d.appended.Add(1)
	d.Headers.Add(next)
	d.Metr.RecordTip(next)
	d.Log.Debug("appended block", "block", next)

	if d.Cfg.ReorgInterval == 0 || appended%d.Cfg.ReorgInterval != 0 {
		return nil
	}
	height := d.Chain.Height()
	if height <= int64(d.Cfg.ReorgDepth) {
		return nil
	}
	if err := d.Chain.Rewind(height - 1 - int64(d.Cfg.ReorgDepth)); err != nil {
		return fmt.Errorf("failed to reorg: %w", err)
	}
	d.forkSalt = d.reorgs.Add(1)
	if tip, ok := d.Chain.Tip(); ok {
		d.Metr.RecordTip(tip)
	}
	return nil
}

func (d *Driver) Appended() uint64 {
	return d.appended.Load()
}

func (d *Driver) Reorgs() uint64 {
	return d.reorgs.Load()
}
