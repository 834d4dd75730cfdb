package frontend

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

const MaxRangeSize = 1000

type ChainView interface {
	Snapshot() *chain.Snapshot[types.BlockRef]
}

type ChainWriter interface {
	Rewind(height int64) error
	Reset()
}

type HeaderLookup interface {
	Canonical(snap *chain.Snapshot[types.BlockRef], hash common.Hash) (ref types.BlockRef, known bool, canonical bool)
}

// QueryFrontend serves read-only chain queries. Every call reads from a single snapshot.
type QueryFrontend struct {
	Chain   ChainView
	Headers HeaderLookup
}

func toJsonError(err error) error {
	if err == nil {
		return nil
	}
	return &rpc.JsonError{
		Code:    types.GetErrorCode(err),
		Message: err.Error(),
	}
}

func (q *QueryFrontend) Height(ctx context.Context) (hexutil.Uint64, error) {
	return hexutil.Uint64(q.Chain.Snapshot().Height()), nil
}

func (q *QueryFrontend) Tip(ctx context.Context) (types.BlockRef, error) {
	tip, ok := q.Chain.Snapshot().Tip()
	if !ok {
		return types.BlockRef{}, toJsonError(fmt.Errorf("empty chain: %w", types.ErrNotFound))
	}
	return tip, nil
}

func (q *QueryFrontend) BlockByNumber(ctx context.Context, number hexutil.Uint64) (types.BlockRef, error) {
	snap := q.Chain.Snapshot()
	ref, ok := snap.At(int64(number))
	if !ok {
		return types.BlockRef{}, toJsonError(fmt.Errorf("block %d beyond height %d: %w", number, snap.Height(), types.ErrNotFound))
	}
	return ref, nil
}

func (q *QueryFrontend) BlockByHash(ctx context.Context, hash common.Hash) (types.BlockRef, error) {
	ref, known, canonical := q.Headers.Canonical(q.Chain.Snapshot(), hash)
	if !known {
		return types.BlockRef{}, toJsonError(fmt.Errorf("unknown block %s: %w", hash, types.ErrNotFound))
	}
	if !canonical {
		return types.BlockRef{}, toJsonError(fmt.Errorf("block %s was reorged out: %w", ref, types.ErrNotFound))
	}
	return ref, nil
}

// BlockRange returns the blocks with numbers in [from, to), clipped to the chain height.
func (q *QueryFrontend) BlockRange(ctx context.Context, from hexutil.Uint64, to hexutil.Uint64) ([]types.BlockRef, error) {
	if to < from || to-from > MaxRangeSize {
		return nil, toJsonError(fmt.Errorf("range [%d, %d) with max size %d: %w", from, to, MaxRangeSize, types.ErrInvalidRange))
	}
	return q.Chain.Snapshot().Entries(int64(from), int64(to)), nil
}

// Locator returns the IDs of a block locator of the current chain, tip first.
func (q *QueryFrontend) Locator(ctx context.Context) ([]types.BlockID, error) {
	locator := q.Chain.Snapshot().Locator()
	out := make([]types.BlockID, 0, len(locator))
	for _, ref := range locator {
		out = append(out, ref.ID())
	}
	return out, nil
}

type AdminFrontend struct {
	Chain ChainWriter
}

// Rewind removes all blocks above the given number.
func (a *AdminFrontend) Rewind(ctx context.Context, number hexutil.Uint64) error {
	return toJsonError(a.Chain.Rewind(int64(number)))
}

// Reset removes all blocks.
func (a *AdminFrontend) Reset(ctx context.Context) error {
	a.Chain.Reset()
	return nil
}
