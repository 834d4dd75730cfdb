package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/headers"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/source"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	"github.com/mantlenetworkio/chainview/op-service/testlog"
)

type testSetup struct {
	chain   *chain.Chain[types.BlockRef]
	headers *headers.Cache
	gen     *source.Generator
	refs    []types.BlockRef
	client  *rpc.Client
}

func setup(t *testing.T, blocks int) *testSetup {
	logger := testlog.Logger(t, log.LevelInfo)
	ch, err := chain.New[types.BlockRef](logger, chain.NoopMetrics{}, chain.Config{MaxTailSize: 4})
	require.NoError(t, err)
	cache, err := headers.NewCache(metrics.NoopMetrics, 100)
	require.NoError(t, err)

	s := &testSetup{chain: ch, headers: cache, gen: source.NewGenerator(1000, 2)}
	for i := 0; i < blocks; i++ {
		var ref types.BlockRef
		if i == 0 {
			ref = s.gen.Genesis()
		} else {
			ref = s.gen.Next(s.refs[i-1])
		}
		require.NoError(t, ch.SetTip(ref))
		cache.Add(ref)
		s.refs = append(s.refs, ref)
	}

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("chainview", &QueryFrontend{Chain: ch, Headers: cache}))
	require.NoError(t, server.RegisterName("admin", &AdminFrontend{Chain: ch}))
	s.client = rpc.DialInProc(server)
	t.Cleanup(func() {
		s.client.Close()
		server.Stop()
	})
	return s
}

func requireErrorCode(t *testing.T, err error, code int) {
	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr), "expected rpc error, got %v", err)
	require.Equal(t, code, rpcErr.ErrorCode())
}

func TestQueries(t *testing.T) {
	s := setup(t, 20)
	ctx := context.Background()

	var height hexutil.Uint64
	require.NoError(t, s.client.CallContext(ctx, &height, "chainview_height"))
	require.Equal(t, hexutil.Uint64(20), height)

	var tip types.BlockRef
	require.NoError(t, s.client.CallContext(ctx, &tip, "chainview_tip"))
	require.Equal(t, s.refs[19], tip)

	var ref types.BlockRef
	require.NoError(t, s.client.CallContext(ctx, &ref, "chainview_blockByNumber", hexutil.Uint64(7)))
	require.Equal(t, s.refs[7], ref)

	err := s.client.CallContext(ctx, &ref, "chainview_blockByNumber", hexutil.Uint64(20))
	requireErrorCode(t, err, types.GetErrorCode(types.ErrNotFound))

	require.NoError(t, s.client.CallContext(ctx, &ref, "chainview_blockByHash", s.refs[3].Hash))
	require.Equal(t, s.refs[3], ref)

	err = s.client.CallContext(ctx, &ref, "chainview_blockByHash", common.Hash{0x42})
	requireErrorCode(t, err, types.GetErrorCode(types.ErrNotFound))

	var refs []types.BlockRef
	require.NoError(t, s.client.CallContext(ctx, &refs, "chainview_blockRange", hexutil.Uint64(5), hexutil.Uint64(9)))
	require.Equal(t, s.refs[5:9], refs)

	err = s.client.CallContext(ctx, &refs, "chainview_blockRange", hexutil.Uint64(9), hexutil.Uint64(5))
	requireErrorCode(t, err, types.GetErrorCode(types.ErrInvalidRange))

	var locator []types.BlockID
	require.NoError(t, s.client.CallContext(ctx, &locator, "chainview_locator"))
	require.Equal(t, s.refs[19].ID(), locator[0])
	require.Equal(t, s.refs[0].ID(), locator[len(locator)-1])
}

func TestEmptyChain(t *testing.T) {
	s := setup(t, 0)
	var tip types.BlockRef
	err := s.client.CallContext(context.Background(), &tip, "chainview_tip")
	requireErrorCode(t, err, types.GetErrorCode(types.ErrNotFound))
}

func TestAdminRewind(t *testing.T) {
	s := setup(t, 10)
	ctx := context.Background()

	require.NoError(t, s.client.CallContext(ctx, nil, "admin_rewind", hexutil.Uint64(4)))
	require.Equal(t, int64(5), s.chain.Height())

	// the rewound block is still known, but no longer canonical
	var ref types.BlockRef
	err := s.client.CallContext(ctx, &ref, "chainview_blockByHash", s.refs[7].Hash)
	requireErrorCode(t, err, types.GetErrorCode(types.ErrNotFound))
	require.ErrorContains(t, err, "reorged out")

	require.NoError(t, s.client.CallContext(ctx, nil, "admin_rewind", hexutil.Uint64(5)))
	require.Equal(t, int64(5), s.chain.Height())

	err = s.client.CallContext(ctx, nil, "admin_rewind", hexutil.Uint64(6))
	requireErrorCode(t, err, types.GetErrorCode(types.ErrRewindOutOfRange))

	require.NoError(t, s.client.CallContext(ctx, nil, "admin_reset"))
	require.Equal(t, int64(0), s.chain.Height())
}
