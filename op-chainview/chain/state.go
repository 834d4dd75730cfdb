package chain

import "sync/atomic"

// state is one consistent view of the whole chain: base followed by tail.
// A state is never modified after it is published.
type state[E Entry] struct {
	base segment[E]
	tail tail[E]
}

func (s *state[E]) height() int64 {
	return int64(s.base.len()) + int64(s.tail.len())
}

func (s *state[E]) at(height int64) (E, bool) {
	baseLen := int64(s.base.len())
	if height < baseLen {
		if height < 0 {
			var zero E
			return zero, false
		}
		return s.base.at(int(height))
	}
	return s.tail.at(int(height - baseLen))
}

// publisher holds the currently visible state.
// Readers load it without locking; the writer stores a fully built state in one step.
type publisher[E Entry] struct {
	current atomic.Pointer[state[E]]
}

func (p *publisher[E]) publish(s *state[E]) {
	p.current.Store(s)
}

func (p *publisher[E]) load() *state[E] {
	return p.current.Load()
}
