package chain

import (
	"fmt"

	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

// SequenceError is returned when an appended entry does not extend the chain by exactly one.
type SequenceError struct {
	Expected int64
	Got      int64
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("cannot append entry at height %d, expected height %d", e.Got, e.Expected)
}

func (e *SequenceError) Unwrap() error {
	return types.ErrOutOfOrder
}

// RewindError is returned when a rewind target is not within the chain.
type RewindError struct {
	Target int64
	Height int64
}

func (e *RewindError) Error() string {
	return fmt.Sprintf("cannot rewind to height %d, chain height is %d", e.Target, e.Height)
}

func (e *RewindError) Unwrap() error {
	return types.ErrRewindOutOfRange
}
