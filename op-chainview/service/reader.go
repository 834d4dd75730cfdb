package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/metrics"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

type ChainView interface {
	Snapshot() *chain.Snapshot[types.BlockRef]
}

// Reader repeatedly takes a snapshot of the chain and verifies it is one contiguous chain.
type Reader struct {
	log     log.Logger
	metrics metrics.Metricer
	chain   ChainView
	limiter *rate.Limiter
}

// NewReader creates a reader verifying at most verificationsPerSecond snapshots per second.
// Zero disables the limit.
func NewReader(log log.Logger, m metrics.Metricer, chain ChainView, verificationsPerSecond float64) *Reader {
	limit := rate.Limit(verificationsPerSecond)
	if verificationsPerSecond == 0 {
		limit = rate.Inf
	}
	return &Reader{
		log:     log,
		metrics: m,
		chain:   chain,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run verifies snapshots until the context is done, or a torn snapshot is found.
func (r *Reader) Run(ctx context.Context) error {
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		snap := r.chain.Snapshot()
		if err := Verify(snap); err != nil {
			r.metrics.RecordTornSnapshot()
			r.log.Error("Snapshot verification failed", "height", snap.Height(), "err", err)
			return err
		}
		r.metrics.RecordSnapshotVerified(snap.Height())
	}
}

// Verify checks that every block of the snapshot is at its own height,
// and links to the block before it.
func Verify(snap *chain.Snapshot[types.BlockRef]) error {
	height := snap.Height()
	var parent types.BlockRef
	for i := int64(0); i < height; i++ {
		ref, ok := snap.At(i)
		if !ok {
			return fmt.Errorf("missing block %d of %d: %w", i, height, types.ErrTornSnapshot)
		}
		if ref.Height() != i {
			return fmt.Errorf("block %s at height %d: %w", ref, i, types.ErrTornSnapshot)
		}
		if i > 0 && !parent.ParentOf(ref) {
			return fmt.Errorf("block %s does not build on %s: %w", ref, parent, types.ErrTornSnapshot)
		}
		parent = ref
	}
	if ref, ok := snap.At(height); ok {
		return fmt.Errorf("block %s beyond height %d: %w", ref, height, types.ErrTornSnapshot)
	}
	return nil
}
