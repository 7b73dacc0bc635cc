package sfv

import (
	"iter"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// Dictionary is a top-level ordered key to member map. Keys are unique
// and validated against the key grammar; insertion order is significant
// and doubles as the positional index order. Dictionaries are persistent
// values like every other container.
type Dictionary struct {
	members []pair[Member]
}

var emptyDictionary = &Dictionary{}

// NewDictionary returns the canonical empty dictionary.
func NewDictionary() *Dictionary { return emptyDictionary }

// DictionaryFromPairs builds a dictionary from an ordered pair stream. A
// duplicate key keeps the position of its first occurrence and the value
// of its last.
func DictionaryFromPairs(pairs ...Pair) (*Dictionary, error) {
	stream := make([]pair[Member], 0, len(pairs))
	for _, p := range pairs {
		if err := ValidateKey(p.Key); err != nil {
			return nil, err
		}
		m, err := toMember(p.Value)
		if err != nil {
			return nil, err
		}
		stream = append(stream, pair[Member]{key: p.Key, value: m})
	}
	members := rebuildPairs(stream)
	if len(members) == 0 {
		return emptyDictionary, nil
	}
	return &Dictionary{members: members}, nil
}

func (d *Dictionary) wrap(members []pair[Member]) *Dictionary {
	if len(members) == 0 {
		return emptyDictionary
	}
	return &Dictionary{members: members}
}

// Len returns the number of members.
func (d *Dictionary) Len() int { return len(d.members) }

// IsEmpty reports whether the dictionary has no members.
func (d *Dictionary) IsEmpty() bool { return len(d.members) == 0 }

// ByKey returns the member stored under the key. Optional validators may
// reject the member.
func (d *Dictionary) ByKey(key string, checks ...Validator) (Member, error) {
	i := indexOfKey(d.members, key)
	if i < 0 {
		return nil, errors.New("OFFSET-0001", map[string]any{"Key": key})
	}
	m := d.members[i].value
	if err := runValidators(m, key, i, true, checks); err != nil {
		return nil, err
	}
	return m, nil
}

// ByIndex returns the key and member at the given (possibly negative)
// position.
func (d *Dictionary) ByIndex(i int, checks ...Validator) (string, Member, error) {
	pos, ok := FilterIndex(i, len(d.members))
	if !ok {
		return "", nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(d.members)})
	}
	m := d.members[pos]
	if err := runValidators(m.value, m.key, pos, false, checks); err != nil {
		return "", nil, err
	}
	return m.key, m.value, nil
}

// HasKeys reports whether every key is present.
func (d *Dictionary) HasKeys(keys ...string) bool {
	for _, k := range keys {
		if indexOfKey(d.members, k) < 0 {
			return false
		}
	}
	return true
}

// HasIndices reports whether every index resolves to a member.
func (d *Dictionary) HasIndices(indices ...int) bool {
	for _, i := range indices {
		if _, ok := FilterIndex(i, len(d.members)); !ok {
			return false
		}
	}
	return true
}

// IndexByKey returns the position of the key.
func (d *Dictionary) IndexByKey(key string) (int, bool) {
	i := indexOfKey(d.members, key)
	return i, i >= 0
}

// KeyByIndex returns the key at the given (possibly negative) position.
func (d *Dictionary) KeyByIndex(i int) (string, bool) {
	pos, ok := FilterIndex(i, len(d.members))
	if !ok {
		return "", false
	}
	return d.members[pos].key, true
}

// First returns the first entry.
func (d *Dictionary) First() (string, Member, bool) {
	if len(d.members) == 0 {
		return "", nil, false
	}
	return d.members[0].key, d.members[0].value, true
}

// Last returns the last entry.
func (d *Dictionary) Last() (string, Member, bool) {
	if len(d.members) == 0 {
		return "", nil, false
	}
	m := d.members[len(d.members)-1]
	return m.key, m.value, true
}

// All iterates the entries in order.
func (d *Dictionary) All() iter.Seq2[string, Member] {
	return func(yield func(string, Member) bool) {
		for _, m := range d.members {
			if !yield(m.key, m.value) {
				return
			}
		}
	}
}

// Keys returns the keys in order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.members))
	for i, m := range d.members {
		keys[i] = m.key
	}
	return keys
}

// Add inserts at the end if the key is absent, or updates the value in
// place keeping the key's original position.
func (d *Dictionary) Add(key string, value any) (*Dictionary, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m, err := toMember(value)
	if err != nil {
		return nil, err
	}
	members, changed := withAdd(d.members, key, m, memberEqual)
	if !changed {
		return d, nil
	}
	return d.wrap(members), nil
}

// Append removes any existing entry for the key and inserts at the end.
func (d *Dictionary) Append(key string, value any) (*Dictionary, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m, err := toMember(value)
	if err != nil {
		return nil, err
	}
	members, changed := withAppend(d.members, key, m, memberEqual)
	if !changed {
		return d, nil
	}
	return d.wrap(members), nil
}

// Prepend removes any existing entry for the key and inserts at the front.
func (d *Dictionary) Prepend(key string, value any) (*Dictionary, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m, err := toMember(value)
	if err != nil {
		return nil, err
	}
	members, changed := withPrepend(d.members, key, m, memberEqual)
	if !changed {
		return d, nil
	}
	return d.wrap(members), nil
}

// Push appends a full ordered pair sequence, rebuilding from the
// concatenated stream: duplicate keys keep their first position and take
// their last value.
func (d *Dictionary) Push(pairs ...Pair) (*Dictionary, error) {
	return d.insertAt(len(d.members), pairs)
}

// Unshift prepends a full ordered pair sequence with the same duplicate
// policy as Push.
func (d *Dictionary) Unshift(pairs ...Pair) (*Dictionary, error) {
	return d.insertAt(0, pairs)
}

// Insert splices pairs at the resolved index: 0 behaves as Unshift, the
// container length behaves as Push. An unresolvable index is an offset
// error, never silently clamped.
func (d *Dictionary) Insert(i int, pairs ...Pair) (*Dictionary, error) {
	pos, ok := spliceBounds(i, len(d.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(d.members)})
	}
	return d.insertAt(pos, pairs)
}

func (d *Dictionary) insertAt(pos int, pairs []Pair) (*Dictionary, error) {
	if len(pairs) == 0 {
		return d, nil
	}
	extra := make([]pair[Member], 0, len(pairs))
	for _, pr := range pairs {
		if err := ValidateKey(pr.Key); err != nil {
			return nil, err
		}
		m, err := toMember(pr.Value)
		if err != nil {
			return nil, err
		}
		extra = append(extra, pair[Member]{key: pr.Key, value: m})
	}
	members, changed := withSpliced(d.members, pos, extra, memberEqual)
	if !changed {
		return d, nil
	}
	return d.wrap(members), nil
}

// Replace swaps the entry at the resolved index for the given pair. The
// receiver is returned unchanged when the replacement is structurally
// identical.
func (d *Dictionary) Replace(i int, pr Pair) (*Dictionary, error) {
	pos, ok := FilterIndex(i, len(d.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(d.members)})
	}
	if err := ValidateKey(pr.Key); err != nil {
		return nil, err
	}
	m, err := toMember(pr.Value)
	if err != nil {
		return nil, err
	}
	old := d.members[pos]
	if old.key == pr.Key && memberEqual(old.value, m) {
		return d, nil
	}
	members := clonePairs(d.members)
	members[pos] = pair[Member]{key: pr.Key, value: m}
	return d.wrap(rebuildPairs(members)), nil
}

// RemoveByKeys removes every entry whose key matches. Unknown keys are
// ignored; removing nothing returns the receiver.
func (d *Dictionary) RemoveByKeys(keys ...string) *Dictionary {
	members, changed := withoutKeys(d.members, keys)
	if !changed {
		return d
	}
	return d.wrap(members)
}

// RemoveByIndices resolves every index first, then removes all resolved
// positions in one pass. Unresolvable indices are ignored.
func (d *Dictionary) RemoveByIndices(indices ...int) *Dictionary {
	members, changed := withoutPositions(d.members, resolveIndices(indices, len(d.members)))
	if !changed {
		return d
	}
	return d.wrap(members)
}

// MergeAssociative merges other dictionaries into this one. An
// overwritten key keeps its original position; a new key appends in
// source order.
func (d *Dictionary) MergeAssociative(others ...*Dictionary) *Dictionary {
	members := d.members
	changed := false
	for _, other := range others {
		if other == nil {
			continue
		}
		for _, m := range other.members {
			var c bool
			members, c = withAdd(members, m.key, m.value, memberEqual)
			changed = changed || c
		}
	}
	if !changed {
		return d
	}
	return d.wrap(members)
}

// MergePairs merges ordered pair streams with the same position policy as
// MergeAssociative.
func (d *Dictionary) MergePairs(others ...[]Pair) (*Dictionary, error) {
	members := d.members
	changed := false
	for _, pairs := range others {
		for _, pr := range pairs {
			if err := ValidateKey(pr.Key); err != nil {
				return nil, err
			}
			m, err := toMember(pr.Value)
			if err != nil {
				return nil, err
			}
			var c bool
			members, c = withAdd(members, pr.Key, m, memberEqual)
			changed = changed || c
		}
	}
	if !changed {
		return d, nil
	}
	return d.wrap(members), nil
}

// Filter keeps the entries the predicate accepts.
func (d *Dictionary) Filter(keep func(key string, m Member) bool) *Dictionary {
	out := make([]pair[Member], 0, len(d.members))
	for _, m := range d.members {
		if keep(m.key, m.value) {
			out = append(out, m)
		}
	}
	if len(out) == len(d.members) {
		return d
	}
	return d.wrap(out)
}

// Sort reorders the entries by the comparator and reconstructs a new
// instance from the resulting pair sequence.
func (d *Dictionary) Sort(less func(aKey string, a Member, bKey string, b Member) bool) *Dictionary {
	if len(d.members) < 2 {
		return d
	}
	sorted := sortedPairs(d.members, func(a, b pair[Member]) bool {
		return less(a.key, a.value, b.key, b.value)
	})
	if pairsEqual(d.members, sorted, memberEqual) {
		return d
	}
	return d.wrap(sorted)
}

// Render returns the canonical text form under the given dialect: entries
// joined by ", ", an Item whose value is boolean true rendered as the
// bare key with its parameters attached.
func (d *Dictionary) Render(dialect Dialect) (string, error) {
	var sb strings.Builder
	for i, m := range d.members {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.key)
		if item, ok := m.value.(*Item); ok {
			if b, isBool := item.value.(Boolean); isBool && b.Bool() {
				if err := item.params.render(&sb, dialect); err != nil {
					return "", err
				}
				continue
			}
		}
		sb.WriteByte('=')
		if err := m.value.render(&sb, dialect); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Equal reports structural equality: equal RFC 9651 canonical text.
func (d *Dictionary) Equal(other *Dictionary) bool {
	if d == other {
		return true
	}
	if other == nil {
		return false
	}
	return pairsEqual(d.members, other.members, memberEqual)
}
