package sfv

import "sort"

// pair is one entry of an ordered keyed container.
type pair[V any] struct {
	key   string
	value V
}

// The helpers below implement the shared keyed-container algebra for
// Parameters and Dictionary. They operate on pair slices and report
// whether anything observable changed, so callers can return the receiver
// unchanged on a no-op. None of them mutate their input slice.

func indexOfKey[V any](members []pair[V], key string) int {
	for i := range members {
		if members[i].key == key {
			return i
		}
	}
	return -1
}

func clonePairs[V any](members []pair[V]) []pair[V] {
	cp := make([]pair[V], len(members))
	copy(cp, members)
	return cp
}

// withAdd inserts at the end if the key is absent, otherwise updates the
// value in place, keeping the key's original position.
func withAdd[V any](members []pair[V], key string, value V, eq func(a, b V) bool) ([]pair[V], bool) {
	if i := indexOfKey(members, key); i >= 0 {
		if eq(members[i].value, value) {
			return members, false
		}
		cp := clonePairs(members)
		cp[i].value = value
		return cp, true
	}
	cp := make([]pair[V], 0, len(members)+1)
	cp = append(cp, members...)
	cp = append(cp, pair[V]{key: key, value: value})
	return cp, true
}

// withAppend removes any existing entry for the key and inserts at the end.
func withAppend[V any](members []pair[V], key string, value V, eq func(a, b V) bool) ([]pair[V], bool) {
	if i := indexOfKey(members, key); i >= 0 {
		if i == len(members)-1 && eq(members[i].value, value) {
			return members, false
		}
		cp := make([]pair[V], 0, len(members))
		cp = append(cp, members[:i]...)
		cp = append(cp, members[i+1:]...)
		return append(cp, pair[V]{key: key, value: value}), true
	}
	cp := make([]pair[V], 0, len(members)+1)
	cp = append(cp, members...)
	return append(cp, pair[V]{key: key, value: value}), true
}

// withPrepend removes any existing entry for the key and inserts at the front.
func withPrepend[V any](members []pair[V], key string, value V, eq func(a, b V) bool) ([]pair[V], bool) {
	if i := indexOfKey(members, key); i >= 0 {
		if i == 0 && eq(members[i].value, value) {
			return members, false
		}
		cp := make([]pair[V], 0, len(members))
		cp = append(cp, pair[V]{key: key, value: value})
		cp = append(cp, members[:i]...)
		return append(cp, members[i+1:]...), true
	}
	cp := make([]pair[V], 0, len(members)+1)
	cp = append(cp, pair[V]{key: key, value: value})
	return append(cp, members...), true
}

// rebuildPairs deduplicates a pair stream with add semantics: a key keeps
// the position of its first occurrence and the value of its last.
func rebuildPairs[V any](stream []pair[V]) []pair[V] {
	out := make([]pair[V], 0, len(stream))
	at := make(map[string]int, len(stream))
	for _, p := range stream {
		if i, ok := at[p.key]; ok {
			out[i].value = p.value
			continue
		}
		at[p.key] = len(out)
		out = append(out, p)
	}
	return out
}

// pairsEqual reports whether two pair slices are structurally identical.
func pairsEqual[V any](a, b []pair[V], eq func(x, y V) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].key != b[i].key || !eq(a[i].value, b[i].value) {
			return false
		}
	}
	return true
}

// withSpliced splices extra pairs into the stream at pos and rebuilds with
// add semantics.
func withSpliced[V any](members []pair[V], pos int, extra []pair[V], eq func(a, b V) bool) ([]pair[V], bool) {
	stream := make([]pair[V], 0, len(members)+len(extra))
	stream = append(stream, members[:pos]...)
	stream = append(stream, extra...)
	stream = append(stream, members[pos:]...)
	out := rebuildPairs(stream)
	if pairsEqual(members, out, eq) {
		return members, false
	}
	return out, true
}

// withoutKeys removes every entry whose key is in the set.
func withoutKeys[V any](members []pair[V], keys []string) ([]pair[V], bool) {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	out := make([]pair[V], 0, len(members))
	for _, p := range members {
		if !drop[p.key] {
			out = append(out, p)
		}
	}
	if len(out) == len(members) {
		return members, false
	}
	return out, true
}

// withoutPositions removes every entry at a resolved position.
func withoutPositions[V any](members []pair[V], positions map[int]bool) ([]pair[V], bool) {
	if len(positions) == 0 {
		return members, false
	}
	out := make([]pair[V], 0, len(members))
	for i, p := range members {
		if !positions[i] {
			out = append(out, p)
		}
	}
	return out, true
}

// sortedPairs returns the pairs reordered by the comparator.
func sortedPairs[V any](members []pair[V], less func(a, b pair[V]) bool) []pair[V] {
	cp := clonePairs(members)
	sort.SliceStable(cp, func(i, j int) bool { return less(cp[i], cp[j]) })
	return cp
}
