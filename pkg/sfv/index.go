package sfv

// FilterIndex resolves a possibly negative index against a container
// length. Negative indices count from the end: -1 is the last member.
// The valid range is [-length, length-1]; anything outside it, including
// any index against an empty container, reports not found. This is the
// single index-resolution rule shared by every index-based accessor.
func FilterIndex(i, length int) (int, bool) {
	if length == 0 {
		return 0, false
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

// resolveIndices resolves every index in one pass and returns the set of
// resolved positions. Unresolvable indices are skipped.
func resolveIndices(indices []int, length int) map[int]bool {
	resolved := make(map[int]bool, len(indices))
	for _, i := range indices {
		if pos, ok := FilterIndex(i, length); ok {
			resolved[pos] = true
		}
	}
	return resolved
}

// spliceBounds reports whether i is a valid insertion point for a
// container of the given length. Unlike FilterIndex, length itself is
// valid (insert at end) and so is 0 against an empty container.
func spliceBounds(i, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	if i < 0 || i > length {
		return 0, false
	}
	return i, true
}
