package headers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/source"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	"github.com/mantlenetworkio/chainview/op-service/testlog"
)

type stubMetrics struct {
	size    int
	evicted int
	hits    int
	misses  int
}

func (s *stubMetrics) CacheAdd(label string, cacheSize int, evicted bool) {
	s.size = cacheSize
	if evicted {
		s.evicted++
	}
}

func (s *stubMetrics) CacheGet(label string, hit bool) {
	if hit {
		s.hits++
	} else {
		s.misses++
	}
}

func TestCache(t *testing.T) {
	m := &stubMetrics{}
	c, err := NewCache(m, 2)
	require.NoError(t, err)

	g := source.NewGenerator(0, 2)
	a := g.Genesis()
	b := g.Next(a)
	d := g.Next(b)

	c.Add(a)
	c.Add(b)
	got, ok := c.Get(a.Hash)
	require.True(t, ok)
	require.Equal(t, a, got)

	// b is the least recently used now
	c.Add(d)
	_, ok = c.Get(b.Hash)
	require.False(t, ok)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 2, m.size)
	require.Equal(t, 1, m.evicted)
	require.Equal(t, 1, m.hits)
	require.Equal(t, 1, m.misses)

	_, err = NewCache(m, 0)
	require.Error(t, err)
}

func TestCanonical(t *testing.T) {
	c, err := NewCache(&stubMetrics{}, 16)
	require.NoError(t, err)
	ch, err := chain.New[types.BlockRef](testlog.Logger(t, log.LevelInfo), chain.NoopMetrics{}, chain.Config{MaxTailSize: 2})
	require.NoError(t, err)

	g := source.NewGenerator(0, 2)
	genesis := g.Genesis()
	a := g.Next(genesis)
	for _, ref := range []types.BlockRef{genesis, a} {
		require.NoError(t, ch.SetTip(ref))
		c.Add(ref)
	}
	orphan := g.Fork(genesis, 1)
	c.Add(orphan)

	snap := ch.Snapshot()
	ref, known, canonical := c.Canonical(snap, a.Hash)
	require.True(t, known)
	require.True(t, canonical)
	require.Equal(t, a, ref)

	_, known, canonical = c.Canonical(snap, orphan.Hash)
	require.True(t, known)
	require.False(t, canonical)

	_, known, canonical = c.Canonical(snap, common.Hash{0xff})
	require.False(t, known)
	require.False(t, canonical)
}
