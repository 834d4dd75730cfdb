package types

import "errors"

var (
	// ErrOutOfOrder happens when an entry is appended that does not extend the chain by exactly one.
	ErrOutOfOrder = errors.New("data out of order")
	// ErrRewindOutOfRange happens when the rewind target is negative or above the chain height.
	ErrRewindOutOfRange = errors.New("rewind target out of range")
	// ErrNotFound happens when a queried height or hash is not part of the chain.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange happens when a range query has its bounds reversed or is too large.
	ErrInvalidRange = errors.New("invalid range")
	// ErrTornSnapshot happens when a reader finds a snapshot that is not a contiguous chain.
	ErrTornSnapshot = errors.New("torn snapshot")
)

var genericInvalidParamsErr = -32602

var errorCodeMap = map[error]int{
	ErrOutOfOrder:       -320900,
	ErrRewindOutOfRange: -320901,
	ErrNotFound:         -320500,
	ErrTornSnapshot:     -321501,

	ErrInvalidRange: genericInvalidParamsErr,
}

// GetErrorCode returns the JSON-RPC error code for the given error
func GetErrorCode(err error) int {
	if err == nil {
		return 0
	}
	for knownErr, code := range errorCodeMap {
		if errors.Is(err, knownErr) {
			return code
		}
	}
	return genericInvalidParamsErr
}
