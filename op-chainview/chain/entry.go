package chain

import "errors"

// Entry is a reference to an externally owned record.
// The chain only orders entries by Height and compares them for equality.
type Entry interface {
	comparable
	Height() int64
}

const DefaultMaxTailSize = 64

var ErrInvalidMaxTailSize = errors.New("max tail size must be at least 1")

type Config struct {
	// MaxTailSize bounds the number of recent entries kept outside the base segment.
	// Larger values make merges rarer, smaller values make shared-tail copies cheaper.
	MaxTailSize int
}

func DefaultConfig() Config {
	return Config{MaxTailSize: DefaultMaxTailSize}
}

func (c Config) Check() error {
	if c.MaxTailSize < 1 {
		return ErrInvalidMaxTailSize
	}
	return nil
}
