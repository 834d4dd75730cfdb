package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
)

func TestBlockRef(t *testing.T) {
	parent := BlockRef{Hash: common.Hash{0xaa}, Number: 7, Time: 100}
	child := BlockRef{Hash: common.Hash{0xbb}, Number: 8, ParentHash: parent.Hash, Time: 102}

	require.Equal(t, int64(8), child.Height())
	require.True(t, parent.ParentOf(child))
	require.False(t, child.ParentOf(parent))
	require.Equal(t, parent.ID(), child.ParentID())

	t.Run("genesis parent", func(t *testing.T) {
		genesis := BlockRef{Hash: common.Hash{0x01}}
		require.Equal(t, uint64(0), genesis.ParentID().Number)
	})

	t.Run("sibling is not child", func(t *testing.T) {
		sibling := child
		sibling.ParentHash = common.Hash{0xcc}
		require.False(t, parent.ParentOf(sibling))
	})
}

func TestGetErrorCode(t *testing.T) {
	require.Equal(t, 0, GetErrorCode(nil))
	require.Equal(t, -320900, GetErrorCode(fmt.Errorf("append: %w", ErrOutOfOrder)))
	require.Equal(t, -320500, GetErrorCode(ErrNotFound))
	require.Equal(t, genericInvalidParamsErr, GetErrorCode(errors.New("other")))
}
