package chain

// tail holds the most recent entries of a chain state, at most maxSize of them.
// Appends write in place when this tail is the longest view on its buffer.
// Otherwise the tail is copied first, so older states keep their entries.
type tail[E Entry] struct {
	v view[E]
}

func (t tail[E]) len() int {
	return t.v.len()
}

func (t tail[E]) at(i int) (E, bool) {
	return t.v.at(i)
}

func (t tail[E]) entries() []E {
	return t.v.items
}

// append returns the tail with e added, and whether the existing entries had to be copied.
// The caller guarantees t.len() < maxSize.
func (t tail[E]) append(maxSize int, e E) (out tail[E], copied bool) {
	if t.v.exclusive(1) {
		return tail[E]{v: t.v.extend(e)}, false
	}
	buf := fresh(maxSize, t.v.items...)
	return tail[E]{v: buf.extend(e)}, true
}

func (t tail[E]) truncate(n int) tail[E] {
	return tail[E]{v: t.v.truncate(n)}
}

func (t tail[E]) truncateToEmpty() tail[E] {
	return tail[E]{}
}
