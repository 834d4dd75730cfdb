package chain

import (
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Chain is an in-memory index of a linear chain of entries.
// A single writer at a time appends or rewinds, serialized by a write lock.
// Readers never take that lock: every read loads the published state once
// and works on that immutable state.
type Chain[E Entry] struct {
	log     log.Logger
	metrics Metrics

	maxTailSize int

	// mu serializes writers. Readers do not use it.
	mu sync.Mutex

	published publisher[E]
}

func New[E Entry](logger log.Logger, m Metrics, cfg Config) (*Chain[E], error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	c := &Chain[E]{
		log:         logger,
		metrics:     m,
		maxTailSize: cfg.MaxTailSize,
	}
	c.published.publish(&state[E]{})
	return c, nil
}

// SetTip appends e, which must be at exactly the current height.
// When the tail is full, it is merged into a new base first.
func (c *Chain[E]) SetTip(e E) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.published.load()
	height := st.height()
	if e.Height() != height {
		c.log.Debug("Rejected out of order entry", "height", height, "entry", e.Height())
		return &SequenceError{Expected: height, Got: e.Height()}
	}

	next := &state[E]{base: st.base}
	if st.tail.len() >= c.maxTailSize {
		base, copied := st.base.merge(st.tail.entries())
		next.base = base
		next.tail, _ = tail[E]{}.append(c.maxTailSize, e)
		c.log.Debug("Merged tail into base", "base", base.len(), "realloc", copied)
		c.metrics.RecordMerge(base.len())
	} else {
		var copied bool
		next.tail, copied = st.tail.append(c.maxTailSize, e)
		if copied && st.tail.len() > 0 {
			c.log.Trace("Copied shared tail", "size", st.tail.len())
			c.metrics.RecordTailCopy(st.tail.len())
		}
	}
	c.published.publish(next)
	c.metrics.RecordChainHeight(height + 1)
	return nil
}

// Rewind removes all entries above height, keeping heights 0 up to and including height.
// A height at or above the tip leaves the chain unchanged.
func (c *Chain[E]) Rewind(height int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.published.load()
	current := st.height()
	if height < 0 || height > current {
		return &RewindError{Target: height, Height: current}
	}
	if height >= current-1 {
		return nil
	}

	keep := height + 1
	next := &state[E]{}
	if baseLen := int64(st.base.len()); keep <= baseLen {
		next.base = st.base.prefix(int(keep))
		next.tail = st.tail.truncateToEmpty()
	} else {
		next.base = st.base
		next.tail = st.tail.truncate(int(keep - baseLen))
	}
	c.published.publish(next)

	c.log.Info("Rewound chain", "from", current, "to", keep, "depth", current-keep)
	c.metrics.RecordRewind(current - keep)
	c.metrics.RecordChainHeight(keep)
	return nil
}

// Reset removes all entries.
func (c *Chain[E]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.published.load().height()
	c.published.publish(&state[E]{})
	c.log.Info("Reset chain", "from", current)
	c.metrics.RecordRewind(current)
	c.metrics.RecordChainHeight(0)
}

// Snapshot captures the currently published chain.
func (c *Chain[E]) Snapshot() *Snapshot[E] {
	return &Snapshot[E]{st: c.published.load()}
}

func (c *Chain[E]) Height() int64 {
	return c.Snapshot().Height()
}

func (c *Chain[E]) Tip() (E, bool) {
	return c.Snapshot().Tip()
}

func (c *Chain[E]) At(height int64) (E, bool) {
	return c.Snapshot().At(height)
}

func (c *Chain[E]) Genesis() (E, bool) {
	return c.Snapshot().Genesis()
}

func (c *Chain[E]) Contains(e E) bool {
	return c.Snapshot().Contains(e)
}

func (c *Chain[E]) Next(e E) (E, bool) {
	return c.Snapshot().Next(e)
}

func (c *Chain[E]) Locator() []E {
	return c.Snapshot().Locator()
}
