package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/headers"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/source"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	"github.com/mantlenetworkio/chainview/op-service/testlog"
)

func newTestDriver(t *testing.T, cfg DriverConfig, onDone func()) (*Driver, *headers.Cache) {
	logger := testlog.Logger(t, log.LevelInfo)
	ch, err := chain.New[types.BlockRef](logger, chain.NoopMetrics{}, chain.Config{MaxTailSize: 3})
	require.NoError(t, err)
	cache, err := headers.NewCache(metrics.NoopMetrics, 1000)
	require.NoError(t, err)
	d := NewDriver(DriverSetup{
		Log:     logger,
		Metr:    metrics.NoopMetrics,
		Cfg:     cfg,
		Chain:   ch,
		Headers: cache,
		Source:  source.NewGenerator(0, 2),
		OnDone:  onDone,
	})
	return d, cache
}

func TestDriverStep(t *testing.T) {
	d, cache := newTestDriver(t, DriverConfig{BlockTime: time.Second, ReorgInterval: 5, ReorgDepth: 2}, nil)

	var produced []types.BlockRef
	for i := 0; i < 20; i++ {
		require.NoError(t, d.Step())
		tip, ok := d.Chain.Tip()
		require.True(t, ok)
		if uint64(i+1)%5 != 0 {
			produced = append(produced, tip)
		}
	}
	require.Equal(t, uint64(20), d.Appended())
	require.Equal(t, uint64(4), d.Reorgs())
	require.Equal(t, int64(20-2*4), d.Chain.Height())
	require.Equal(t, 20, cache.Len())

	snap := d.Chain.Snapshot()
	require.NoError(t, Verify(snap))

	// every produced block is known, but only some of them are still canonical
	orphaned := 0
	for _, ref := range produced {
		_, known, canonical := cache.Canonical(snap, ref.Hash)
		require.True(t, known)
		if !canonical {
			orphaned++
		}
	}
	require.NotZero(t, orphaned)
}

func TestDriverNoReorgs(t *testing.T) {
	d, _ := newTestDriver(t, DriverConfig{BlockTime: time.Second}, nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, d.Step())
	}
	require.Equal(t, int64(10), d.Chain.Height())
	require.Zero(t, d.Reorgs())
	genesis, ok := d.Chain.Genesis()
	require.True(t, ok)
	require.Equal(t, d.Source.Genesis(), genesis)
}

func TestDriverExternalRewind(t *testing.T) {
	d, _ := newTestDriver(t, DriverConfig{BlockTime: time.Second}, nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, d.Step())
	}
	require.NoError(t, d.Chain.Rewind(4))
	require.NoError(t, d.Step())
	require.Equal(t, int64(6), d.Chain.Height())
	require.NoError(t, Verify(d.Chain.Snapshot()))
}

func TestDriverRun(t *testing.T) {
	done := make(chan struct{})
	d, _ := newTestDriver(t, DriverConfig{
		BlockTime:     time.Millisecond,
		ReorgInterval: 10,
		ReorgDepth:    3,
		MaxBlocks:     50,
	}, func() { close(done) })

	require.NoError(t, d.Start())
	require.Error(t, d.Start(), "already running")
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("driver did not finish")
	}
	require.NoError(t, d.Stop())
	require.Error(t, d.Stop(), "not running")

	require.True(t, d.Finished())
	require.Equal(t, uint64(50), d.Appended())
	require.Equal(t, int64(50-3*5), d.Chain.Height())
}

func TestDriverCountersWhileRunning(t *testing.T) {
	d, _ := newTestDriver(t, DriverConfig{
		BlockTime:     time.Millisecond,
		ReorgInterval: 5,
		ReorgDepth:    2,
	}, func() {})

	require.NoError(t, d.Start())
	require.Eventually(t, func() bool {
		return d.Appended() >= 20 && d.Reorgs() >= 2
	}, 10*time.Second, time.Millisecond)
	require.NoError(t, d.Stop())

	appended, reorgs := d.Appended(), d.Reorgs()
	require.Equal(t, appended/5, reorgs)
	require.Equal(t, int64(appended-2*reorgs), d.Chain.Height())
}
