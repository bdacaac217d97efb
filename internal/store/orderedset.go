package store

// OrderedSet is a string set that remembers insertion order, so that
// truncating discovery results to a cap stays deterministic.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet returns an empty ordered set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add appends the value unless it is already present. It reports whether the
// set grew.
func (o *OrderedSet) Add(value string) bool {
	if _, ok := o.seen[value]; ok {
		return false
	}
	o.seen[value] = struct{}{}
	o.items = append(o.items, value)
	return true
}

// Contains reports membership.
func (o *OrderedSet) Contains(value string) bool {
	_, ok := o.seen[value]
	return ok
}

// Len returns the number of distinct values added.
func (o *OrderedSet) Len() int {
	return len(o.items)
}

// Items returns the values in insertion order. The returned slice is shared;
// callers must not mutate it.
func (o *OrderedSet) Items() []string {
	return o.items
}

// Truncated returns at most n values in insertion order; n <= 0 means all.
func (o *OrderedSet) Truncated(n int) []string {
	if n <= 0 || n >= len(o.items) {
		return o.items
	}
	return o.items[:n]
}
