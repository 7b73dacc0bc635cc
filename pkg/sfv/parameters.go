package sfv

import (
	"iter"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// Pair is one key/value entry used to build or extend a keyed container.
// The value is coerced: bare values and native Go values are accepted
// everywhere; Items must be bare when destined for a Parameters map;
// InnerLists are only valid as Dictionary values.
type Pair struct {
	Key   string
	Value any
}

// Parameters is an ordered key to bare-item map attached to an Item or
// InnerList. Insertion order is significant and doubles as the positional
// index order. Parameters are persistent values: every structural
// operation returns a new instance, or the receiver when nothing changed.
type Parameters struct {
	members []pair[*Item]
}

var emptyParameters = &Parameters{}

// NewParameters returns the canonical empty parameter map.
func NewParameters() *Parameters { return emptyParameters }

// ParametersFromPairs builds a parameter map from an ordered pair stream.
// A duplicate key keeps the position of its first occurrence and the value
// of its last.
func ParametersFromPairs(pairs ...Pair) (*Parameters, error) {
	stream := make([]pair[*Item], 0, len(pairs))
	for _, p := range pairs {
		if err := ValidateKey(p.Key); err != nil {
			return nil, err
		}
		item, err := coerceParamValue(p.Value)
		if err != nil {
			return nil, err
		}
		stream = append(stream, pair[*Item]{key: p.Key, value: item})
	}
	members := rebuildPairs(stream)
	if len(members) == 0 {
		return emptyParameters, nil
	}
	return &Parameters{members: members}, nil
}

// coerceParamValue turns a candidate into a bare Item, rejecting any Item
// that already carries parameters.
func coerceParamValue(v any) (*Item, error) {
	switch val := v.(type) {
	case *Item:
		if val == nil {
			return nil, errors.New("ARG-0005", map[string]any{"Type": "nil item", "Where": "parameter"})
		}
		if !val.isBare() {
			return nil, errors.New("ARG-0001", map[string]any{"Where": "parameter"})
		}
		return val, nil
	case *InnerList, *List, *Dictionary, *Parameters:
		return nil, errors.New("ARG-0005", map[string]any{"Type": typeName(v), "Where": "parameter"})
	default:
		bare, err := toBareItem(v)
		if err != nil {
			return nil, err
		}
		return NewItem(bare), nil
	}
}

func itemEq(a, b *Item) bool { return a.Equal(b) }

// wrap returns the canonical empty instance for an empty member slice.
func (p *Parameters) wrap(members []pair[*Item]) *Parameters {
	if len(members) == 0 {
		return emptyParameters
	}
	return &Parameters{members: members}
}

// Len returns the number of parameters.
func (p *Parameters) Len() int { return len(p.members) }

// IsEmpty reports whether the map has no members.
func (p *Parameters) IsEmpty() bool { return len(p.members) == 0 }

// ByKey returns the Item stored under the key. Optional validators may
// reject the member.
func (p *Parameters) ByKey(key string, checks ...Validator) (*Item, error) {
	i := indexOfKey(p.members, key)
	if i < 0 {
		return nil, errors.New("OFFSET-0001", map[string]any{"Key": key})
	}
	item := p.members[i].value
	if err := runValidators(item, key, i, true, checks); err != nil {
		return nil, err
	}
	return item, nil
}

// ByIndex returns the key and Item at the given (possibly negative)
// position.
func (p *Parameters) ByIndex(i int, checks ...Validator) (string, *Item, error) {
	pos, ok := FilterIndex(i, len(p.members))
	if !ok {
		return "", nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(p.members)})
	}
	m := p.members[pos]
	if err := runValidators(m.value, m.key, pos, false, checks); err != nil {
		return "", nil, err
	}
	return m.key, m.value, nil
}

// valueByKey returns the bare value stored under the key.
func (p *Parameters) valueByKey(key string) (BareItem, error) {
	item, err := p.ByKey(key)
	if err != nil {
		return nil, err
	}
	return item.Value(), nil
}

// valueByIndex returns the key and bare value at the given position.
func (p *Parameters) valueByIndex(i int) (string, BareItem, error) {
	key, item, err := p.ByIndex(i)
	if err != nil {
		return "", nil, err
	}
	return key, item.Value(), nil
}

// HasKeys reports whether every key is present.
func (p *Parameters) HasKeys(keys ...string) bool {
	for _, k := range keys {
		if indexOfKey(p.members, k) < 0 {
			return false
		}
	}
	return true
}

// HasIndices reports whether every index resolves to a member.
func (p *Parameters) HasIndices(indices ...int) bool {
	for _, i := range indices {
		if _, ok := FilterIndex(i, len(p.members)); !ok {
			return false
		}
	}
	return true
}

// IndexByKey returns the position of the key.
func (p *Parameters) IndexByKey(key string) (int, bool) {
	i := indexOfKey(p.members, key)
	return i, i >= 0
}

// KeyByIndex returns the key at the given (possibly negative) position.
func (p *Parameters) KeyByIndex(i int) (string, bool) {
	pos, ok := FilterIndex(i, len(p.members))
	if !ok {
		return "", false
	}
	return p.members[pos].key, true
}

// First returns the first entry.
func (p *Parameters) First() (string, *Item, bool) {
	if len(p.members) == 0 {
		return "", nil, false
	}
	return p.members[0].key, p.members[0].value, true
}

// Last returns the last entry.
func (p *Parameters) Last() (string, *Item, bool) {
	if len(p.members) == 0 {
		return "", nil, false
	}
	m := p.members[len(p.members)-1]
	return m.key, m.value, true
}

// All iterates the entries in order.
func (p *Parameters) All() iter.Seq2[string, *Item] {
	return func(yield func(string, *Item) bool) {
		for _, m := range p.members {
			if !yield(m.key, m.value) {
				return
			}
		}
	}
}

// Keys returns the keys in order.
func (p *Parameters) Keys() []string {
	keys := make([]string, len(p.members))
	for i, m := range p.members {
		keys[i] = m.key
	}
	return keys
}

// Add inserts at the end if the key is absent, or updates the value in
// place keeping the key's original position.
func (p *Parameters) Add(key string, value any) (*Parameters, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	item, err := coerceParamValue(value)
	if err != nil {
		return nil, err
	}
	members, changed := withAdd(p.members, key, item, itemEq)
	if !changed {
		return p, nil
	}
	return p.wrap(members), nil
}

// Append removes any existing entry for the key and inserts at the end.
func (p *Parameters) Append(key string, value any) (*Parameters, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	item, err := coerceParamValue(value)
	if err != nil {
		return nil, err
	}
	members, changed := withAppend(p.members, key, item, itemEq)
	if !changed {
		return p, nil
	}
	return p.wrap(members), nil
}

// Prepend removes any existing entry for the key and inserts at the front.
func (p *Parameters) Prepend(key string, value any) (*Parameters, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	item, err := coerceParamValue(value)
	if err != nil {
		return nil, err
	}
	members, changed := withPrepend(p.members, key, item, itemEq)
	if !changed {
		return p, nil
	}
	return p.wrap(members), nil
}

// Push appends a full ordered pair sequence, rebuilding from the
// concatenated stream: duplicate keys keep their first position and take
// their last value.
func (p *Parameters) Push(pairs ...Pair) (*Parameters, error) {
	return p.insertAt(len(p.members), pairs)
}

// Unshift prepends a full ordered pair sequence with the same duplicate
// policy as Push.
func (p *Parameters) Unshift(pairs ...Pair) (*Parameters, error) {
	return p.insertAt(0, pairs)
}

// Insert splices pairs at the resolved index: 0 behaves as Unshift, the
// container length behaves as Push. An unresolvable index is an offset
// error, never silently clamped.
func (p *Parameters) Insert(i int, pairs ...Pair) (*Parameters, error) {
	pos, ok := spliceBounds(i, len(p.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(p.members)})
	}
	return p.insertAt(pos, pairs)
}

func (p *Parameters) insertAt(pos int, pairs []Pair) (*Parameters, error) {
	if len(pairs) == 0 {
		return p, nil
	}
	extra := make([]pair[*Item], 0, len(pairs))
	for _, pr := range pairs {
		if err := ValidateKey(pr.Key); err != nil {
			return nil, err
		}
		item, err := coerceParamValue(pr.Value)
		if err != nil {
			return nil, err
		}
		extra = append(extra, pair[*Item]{key: pr.Key, value: item})
	}
	members, changed := withSpliced(p.members, pos, extra, itemEq)
	if !changed {
		return p, nil
	}
	return p.wrap(members), nil
}

// Replace swaps the entry at the resolved index for the given pair. The
// receiver is returned unchanged when the replacement is structurally
// identical.
func (p *Parameters) Replace(i int, pr Pair) (*Parameters, error) {
	pos, ok := FilterIndex(i, len(p.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(p.members)})
	}
	if err := ValidateKey(pr.Key); err != nil {
		return nil, err
	}
	item, err := coerceParamValue(pr.Value)
	if err != nil {
		return nil, err
	}
	old := p.members[pos]
	if old.key == pr.Key && itemEq(old.value, item) {
		return p, nil
	}
	members := clonePairs(p.members)
	members[pos] = pair[*Item]{key: pr.Key, value: item}
	return p.wrap(rebuildPairs(members)), nil
}

// RemoveByKeys removes every entry whose key matches. Unknown keys are
// ignored; removing nothing returns the receiver.
func (p *Parameters) RemoveByKeys(keys ...string) *Parameters {
	members, changed := withoutKeys(p.members, keys)
	if !changed {
		return p
	}
	return p.wrap(members)
}

// RemoveByIndices resolves every index first, then removes all resolved
// positions in one pass. Unresolvable indices are ignored.
func (p *Parameters) RemoveByIndices(indices ...int) *Parameters {
	members, changed := withoutPositions(p.members, resolveIndices(indices, len(p.members)))
	if !changed {
		return p
	}
	return p.wrap(members)
}

// MergeAssociative merges other parameter maps into this one. An
// overwritten key keeps its original position; a new key appends in source
// order.
func (p *Parameters) MergeAssociative(others ...*Parameters) *Parameters {
	members := p.members
	changed := false
	for _, other := range others {
		if other == nil {
			continue
		}
		for _, m := range other.members {
			var c bool
			members, c = withAdd(members, m.key, m.value, itemEq)
			changed = changed || c
		}
	}
	if !changed {
		return p
	}
	return p.wrap(members)
}

// MergePairs merges ordered pair streams with the same position policy as
// MergeAssociative.
func (p *Parameters) MergePairs(others ...[]Pair) (*Parameters, error) {
	members := p.members
	changed := false
	for _, pairs := range others {
		for _, pr := range pairs {
			if err := ValidateKey(pr.Key); err != nil {
				return nil, err
			}
			item, err := coerceParamValue(pr.Value)
			if err != nil {
				return nil, err
			}
			var c bool
			members, c = withAdd(members, pr.Key, item, itemEq)
			changed = changed || c
		}
	}
	if !changed {
		return p, nil
	}
	return p.wrap(members), nil
}

// Filter keeps the entries the predicate accepts. The receiver is
// returned unchanged when nothing is removed.
func (p *Parameters) Filter(keep func(key string, value *Item) bool) *Parameters {
	out := make([]pair[*Item], 0, len(p.members))
	for _, m := range p.members {
		if keep(m.key, m.value) {
			out = append(out, m)
		}
	}
	if len(out) == len(p.members) {
		return p
	}
	return p.wrap(out)
}

// Sort reorders the entries by the comparator and reconstructs a new
// instance from the resulting pair sequence.
func (p *Parameters) Sort(less func(aKey string, a *Item, bKey string, b *Item) bool) *Parameters {
	if len(p.members) < 2 {
		return p
	}
	sorted := sortedPairs(p.members, func(a, b pair[*Item]) bool {
		return less(a.key, a.value, b.key, b.value)
	})
	if pairsEqual(p.members, sorted, itemEq) {
		return p
	}
	return p.wrap(sorted)
}

// Render returns the canonical text form under the given dialect: each
// entry prefixed by ';', boolean-true values rendered as the bare key.
func (p *Parameters) Render(d Dialect) (string, error) {
	var sb strings.Builder
	if err := p.render(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *Parameters) render(sb *strings.Builder, d Dialect) error {
	for _, m := range p.members {
		sb.WriteByte(';')
		sb.WriteString(m.key)
		if b, ok := m.value.value.(Boolean); ok && b.Bool() {
			continue
		}
		sb.WriteByte('=')
		if err := m.value.value.render(sb, d); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports structural equality: equal RFC 9651 canonical text.
func (p *Parameters) Equal(other *Parameters) bool {
	if p == other {
		return true
	}
	if other == nil {
		return false
	}
	return pairsEqual(p.members, other.members, itemEq)
}

func typeName(v any) string {
	switch v.(type) {
	case *InnerList:
		return "inner list"
	case *List:
		return "list"
	case *Dictionary:
		return "dictionary"
	case *Parameters:
		return "parameters"
	default:
		return "value"
	}
}
