// Package recency maintains ordered, duplicate-free, capacity-bounded
// lists where the most recently touched entry is always first.
package recency

// List is the per-collection-kind policy: how to key an entry and how
// many entries to keep. Capacity 0 means unbounded. The methods never
// mutate their input slice; they return a fresh one.
type List[T any] struct {
	Key      func(T) string
	Capacity int
}

// IDs returns a List over plain identifier strings.
func IDs(capacity int) List[string] {
	return List[string]{
		Key:      func(s string) string { return s },
		Capacity: capacity,
	}
}

// Touch removes any entry with the same key as v, inserts v at the
// front, then evicts from the back while over capacity. Touching the
// entry already at the front leaves the ordering unchanged.
func (l List[T]) Touch(items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)

	key := l.Key(v)
	for _, it := range items {
		if l.Key(it) == key {
			continue
		}
		out = append(out, it)
	}

	if l.Capacity > 0 && len(out) > l.Capacity {
		out = out[:l.Capacity]
	}
	return out
}

// Toggle removes the entry with the same key as v when present, and
// inserts v at the front (with capacity eviction) when absent. The
// returned bool reports whether v is present afterwards.
func (l List[T]) Toggle(items []T, v T) ([]T, bool) {
	if l.Contains(items, l.Key(v)) {
		out, _ := l.Remove(items, l.Key(v))
		return out, false
	}
	return l.Touch(items, v), true
}

// Remove drops the entry with the given key. The returned bool reports
// whether an entry was actually removed; removing an absent key is a
// no-op, not an error.
func (l List[T]) Remove(items []T, key string) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if l.Key(it) == key {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}

// Contains reports whether an entry with the given key is present.
func (l List[T]) Contains(items []T, key string) bool {
	for _, it := range items {
		if l.Key(it) == key {
			return true
		}
	}
	return false
}

// Find returns the entry with the given key and whether it was found.
func (l List[T]) Find(items []T, key string) (T, bool) {
	for _, it := range items {
		if l.Key(it) == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}
