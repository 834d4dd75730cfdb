package chain

// claim tracks how far a backing array has been handed out.
// Only the writer reads or changes it, while holding the write lock.
type claim struct {
	n int
}

// view is a window on a shared backing array: items[0:len(items)] is what the view holds.
// Published views never change the entries they hold. The writer may still write
// beyond the end of a view, into the spare capacity of the backing array, but only
// when no published view reaches that far. The claim records that frontier.
type view[E any] struct {
	items []E
	claim *claim
}

func (v view[E]) len() int {
	return len(v.items)
}

func (v view[E]) at(i int) (E, bool) {
	if i < 0 || i >= len(v.items) {
		var zero E
		return zero, false
	}
	return v.items[i], true
}

// exclusive reports whether the array slots after the view are not held by any other view,
// and whether at least n of them are free.
func (v view[E]) exclusive(n int) bool {
	return v.claim != nil && v.claim.n == len(v.items) && cap(v.items)-len(v.items) >= n
}

// extend appends in place. The caller must have checked exclusive(len(more)).
func (v view[E]) extend(more ...E) view[E] {
	items := append(v.items, more...)
	v.claim.n = len(items)
	return view[E]{items: items, claim: v.claim}
}

// truncate returns the first n entries. The result shares the backing array,
// but is never exclusive, so it cannot overwrite entries held by longer views.
func (v view[E]) truncate(n int) view[E] {
	return view[E]{items: v.items[:n:n], claim: v.claim}
}

// fresh allocates a new backing array with the given capacity, holding a copy of items.
func fresh[E any](capacity int, items ...E) view[E] {
	if capacity < len(items) {
		capacity = len(items)
	}
	buf := make([]E, len(items), capacity)
	copy(buf, items)
	return view[E]{items: buf, claim: &claim{n: len(buf)}}
}
