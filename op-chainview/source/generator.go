package source

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

// Generator produces a deterministic chain of block references.
// The hash of a block commits to its parent, number, time and a fork salt,
// so re-building a fork after a rewind yields blocks with new hashes.
type Generator struct {
	blockTime   uint64
	genesisTime uint64
}

func NewGenerator(genesisTime uint64, blockTime uint64) *Generator {
	return &Generator{blockTime: blockTime, genesisTime: genesisTime}
}

func (g *Generator) Genesis() types.BlockRef {
	return g.build(common.Hash{}, 0, g.genesisTime, 0)
}

// Next builds the canonical child of parent.
func (g *Generator) Next(parent types.BlockRef) types.BlockRef {
	return g.Fork(parent, 0)
}

// Fork builds a child of parent. Different salts give different siblings.
func (g *Generator) Fork(parent types.BlockRef, salt uint64) types.BlockRef {
	return g.build(parent.Hash, parent.Number+1, parent.Time+g.blockTime, salt)
}

func (g *Generator) build(parentHash common.Hash, number uint64, time uint64, salt uint64) types.BlockRef {
	var buf [common.HashLength + 24]byte
	copy(buf[:common.HashLength], parentHash[:])
	binary.BigEndian.PutUint64(buf[common.HashLength:], number)
	binary.BigEndian.PutUint64(buf[common.HashLength+8:], time)
	binary.BigEndian.PutUint64(buf[common.HashLength+16:], salt)
	return types.BlockRef{
		Hash:       crypto.Keccak256Hash(buf[:]),
		Number:     number,
		ParentHash: parentHash,
		Time:       time,
	}
}
