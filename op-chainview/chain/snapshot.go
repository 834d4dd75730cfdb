package chain

// Snapshot is an immutable capture of the chain at one point in time.
// It is safe for concurrent use and never blocks.
// The captured entries stay reachable for as long as the Snapshot is.
type Snapshot[E Entry] struct {
	st *state[E]
}

func (s *Snapshot[E]) Height() int64 {
	return s.st.height()
}

// At returns the entry at the given height, or false if the height is outside the snapshot.
func (s *Snapshot[E]) At(height int64) (E, bool) {
	return s.st.at(height)
}

func (s *Snapshot[E]) Tip() (E, bool) {
	return s.st.at(s.st.height() - 1)
}

func (s *Snapshot[E]) Genesis() (E, bool) {
	return s.st.at(0)
}

// Contains reports whether e is the entry at its own height.
func (s *Snapshot[E]) Contains(e E) bool {
	got, ok := s.st.at(e.Height())
	return ok && got == e
}

// Next returns the successor of e, if e is part of the snapshot and not its tip.
func (s *Snapshot[E]) Next(e E) (E, bool) {
	if !s.Contains(e) {
		var zero E
		return zero, false
	}
	return s.st.at(e.Height() + 1)
}

// Entries returns a copy of the entries with heights in [from, to),
// clipped to the heights of the snapshot.
func (s *Snapshot[E]) Entries(from, to int64) []E {
	if from < 0 {
		from = 0
	}
	if h := s.st.height(); to > h {
		to = h
	}
	if from >= to {
		return nil
	}
	out := make([]E, 0, to-from)
	for i := from; i < to; i++ {
		e, _ := s.st.at(i)
		out = append(out, e)
	}
	return out
}

const locatorDenseEntries = 10

// Locator lists entries from the tip back to genesis: the most recent ones
// at every height, then with exponentially growing gaps. Genesis is always last.
func (s *Snapshot[E]) Locator() []E {
	height := s.st.height() - 1
	if height < 0 {
		return nil
	}
	var out []E
	step := int64(1)
	for {
		e, _ := s.st.at(height)
		out = append(out, e)
		if height == 0 {
			return out
		}
		height = max(height-step, 0)
		if len(out) > locatorDenseEntries {
			step *= 2
		}
	}
}
