package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
)

func TestGenerator(t *testing.T) {
	g := NewGenerator(1000, 2)
	genesis := g.Genesis()
	require.Equal(t, uint64(0), genesis.Number)
	require.Equal(t, uint64(1000), genesis.Time)
	require.Equal(t, common.Hash{}, genesis.ParentHash)
	require.NotEqual(t, common.Hash{}, genesis.Hash)

	a := g.Next(genesis)
	require.True(t, genesis.ParentOf(a))
	require.Equal(t, uint64(1002), a.Time)
	require.Equal(t, a, g.Next(genesis), "deterministic")
	require.Equal(t, a, NewGenerator(1000, 2).Next(genesis))

	b := g.Fork(genesis, 1)
	require.True(t, genesis.ParentOf(b))
	require.NotEqual(t, a.Hash, b.Hash)
	require.NotEqual(t, b.Hash, g.Fork(genesis, 2).Hash)

	require.NotEqual(t, g.Next(a).Hash, g.Next(b).Hash, "children of siblings differ")
}
