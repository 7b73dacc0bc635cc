package sfv

import "sort"

// The helpers below implement the shared positional algebra for List and
// InnerList. As with the keyed helpers, nothing mutates its input and
// every function reports whether the result differs from the input.

func cloneSeq[V any](members []V) []V {
	cp := make([]V, len(members))
	copy(cp, members)
	return cp
}

func seqEqual[V any](a, b []V, eq func(x, y V) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func withPushSeq[V any](members []V, extra []V) []V {
	cp := make([]V, 0, len(members)+len(extra))
	cp = append(cp, members...)
	return append(cp, extra...)
}

func withUnshiftSeq[V any](members []V, extra []V) []V {
	cp := make([]V, 0, len(members)+len(extra))
	cp = append(cp, extra...)
	return append(cp, members...)
}

func withInsertSeq[V any](members []V, pos int, extra []V) []V {
	cp := make([]V, 0, len(members)+len(extra))
	cp = append(cp, members[:pos]...)
	cp = append(cp, extra...)
	return append(cp, members[pos:]...)
}

func withReplaceSeq[V any](members []V, pos int, value V, eq func(x, y V) bool) ([]V, bool) {
	if eq(members[pos], value) {
		return members, false
	}
	cp := cloneSeq(members)
	cp[pos] = value
	return cp, true
}

func withoutSeqPositions[V any](members []V, positions map[int]bool) ([]V, bool) {
	if len(positions) == 0 {
		return members, false
	}
	out := make([]V, 0, len(members))
	for i, m := range members {
		if !positions[i] {
			out = append(out, m)
		}
	}
	return out, true
}

func filteredSeq[V any](members []V, keep func(i int, v V) bool) ([]V, bool) {
	out := make([]V, 0, len(members))
	for i, m := range members {
		if keep(i, m) {
			out = append(out, m)
		}
	}
	if len(out) == len(members) {
		return members, false
	}
	return out, true
}

func sortedSeq[V any](members []V, less func(a, b V) bool) []V {
	cp := cloneSeq(members)
	sort.SliceStable(cp, func(i, j int) bool { return less(cp[i], cp[j]) })
	return cp
}
