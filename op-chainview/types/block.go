package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type BlockID struct {
	Hash   common.Hash `json:"hash"`
	Number uint64      `json:"number"`
}

func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d", id.Hash.String(), id.Number)
}

// TerminalString implements log.TerminalStringer, formatting a string for console
// output during logging.
func (id BlockID) TerminalString() string {
	return fmt.Sprintf("%s:%d", id.Hash.TerminalString(), id.Number)
}

// BlockRef references a block by hash and number, and links it to its parent.
// The chain index stores BlockRef values and orders them by Number.
type BlockRef struct {
	Hash       common.Hash `json:"hash"`
	Number     uint64      `json:"number"`
	ParentHash common.Hash `json:"parentHash"`
	Time       uint64      `json:"timestamp"`
}

func (ref BlockRef) Height() int64 {
	return int64(ref.Number)
}

func (ref BlockRef) ID() BlockID {
	return BlockID{Hash: ref.Hash, Number: ref.Number}
}

func (ref BlockRef) ParentID() BlockID {
	n := ref.Number
	if n > 0 {
		n -= 1
	}
	return BlockID{Hash: ref.ParentHash, Number: n}
}

// ParentOf reports whether ref is the direct parent of child.
func (ref BlockRef) ParentOf(child BlockRef) bool {
	return child.Number == ref.Number+1 && child.ParentHash == ref.Hash
}

func (ref BlockRef) String() string {
	return fmt.Sprintf("%s:%d", ref.Hash.String(), ref.Number)
}

func (ref BlockRef) TerminalString() string {
	return fmt.Sprintf("%s:%d", ref.Hash.TerminalString(), ref.Number)
}
