package chain

// segment is the immutable base of a chain state.
// Its entries never change once published, so any number of states
// and snapshots share it without copying.
type segment[E Entry] struct {
	v view[E]
}

func newSegment[E Entry](entries []E) segment[E] {
	if len(entries) == 0 {
		return segment[E]{}
	}
	return segment[E]{v: fresh(len(entries), entries...)}
}

func (s segment[E]) len() int {
	return s.v.len()
}

func (s segment[E]) at(i int) (E, bool) {
	return s.v.at(i)
}

// merge returns the segment holding s followed by more.
// The backing array is extended in place if no other segment was built from it beyond s,
// otherwise the entries are copied into a larger array.
func (s segment[E]) merge(more []E) (out segment[E], copied bool) {
	if s.v.exclusive(len(more)) {
		return segment[E]{v: s.v.extend(more...)}, false
	}
	n := s.len() + len(more)
	grown := fresh(2*n, s.v.items...)
	return segment[E]{v: grown.extend(more...)}, true
}

// prefix builds a new, shorter segment holding the first n entries.
func (s segment[E]) prefix(n int) segment[E] {
	return newSegment(s.v.items[:n])
}
