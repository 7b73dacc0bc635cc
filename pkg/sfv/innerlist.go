package sfv

import (
	"iter"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// InnerList is an ordered sequence of Items nested one level inside a
// List or Dictionary value, carrying its own parameter map. Inner lists
// are persistent values like every other container.
type InnerList struct {
	items  []*Item
	params *Parameters
}

var emptyInnerList = &InnerList{params: emptyParameters}

// NewInnerList builds an inner list from Items with no parameters attached.
func NewInnerList(items ...*Item) *InnerList {
	if len(items) == 0 {
		return emptyInnerList
	}
	return &InnerList{items: cloneSeq(items), params: emptyParameters}
}

// InnerListFromValues builds an inner list by coercing each value to an
// Item. Nested sequences are rejected; the grammar allows exactly one
// level of nesting.
func InnerListFromValues(values ...any) (*InnerList, error) {
	items := make([]*Item, 0, len(values))
	for _, v := range values {
		item, err := coerceInnerValue(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return emptyInnerList, nil
	}
	return &InnerList{items: items, params: emptyParameters}, nil
}

// coerceInnerValue turns a candidate into an inner-list member. Items may
// carry parameters here, unlike parameter values.
func coerceInnerValue(v any) (*Item, error) {
	switch val := v.(type) {
	case *Item:
		if val == nil {
			return nil, errors.New("ARG-0005", map[string]any{"Type": "nil item", "Where": "inner list"})
		}
		return val, nil
	case *InnerList, *List, *Dictionary, *Parameters, []any:
		return nil, errors.New("ARG-0005", map[string]any{"Type": typeName(v), "Where": "inner list"})
	default:
		return ItemFrom(v)
	}
}

func (l *InnerList) wrap(items []*Item, params *Parameters) *InnerList {
	if len(items) == 0 && params.IsEmpty() {
		return emptyInnerList
	}
	return &InnerList{items: items, params: params}
}

// Len returns the number of items.
func (l *InnerList) Len() int { return len(l.items) }

// IsEmpty reports whether the list has no items.
func (l *InnerList) IsEmpty() bool { return len(l.items) == 0 }

// Parameters returns the attached parameter map, never nil.
func (l *InnerList) Parameters() *Parameters { return l.params }

// ParameterByKey returns the bare value of the parameter with the given key.
func (l *InnerList) ParameterByKey(key string) (BareItem, error) {
	return l.params.valueByKey(key)
}

// ParameterByIndex returns the key and bare value of the parameter at the
// given (possibly negative) position.
func (l *InnerList) ParameterByIndex(i int) (string, BareItem, error) {
	return l.params.valueByIndex(i)
}

// WithParameters returns an inner list carrying the same items and the
// given parameters.
func (l *InnerList) WithParameters(params *Parameters) *InnerList {
	if params == nil {
		params = NewParameters()
	}
	if l.params.Equal(params) {
		return l
	}
	return &InnerList{items: l.items, params: params}
}

// ByIndex returns the Item at the given (possibly negative) position.
func (l *InnerList) ByIndex(i int, checks ...Validator) (*Item, error) {
	pos, ok := FilterIndex(i, len(l.items))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.items)})
	}
	item := l.items[pos]
	if err := runValidators(item, "", pos, false, checks); err != nil {
		return nil, err
	}
	return item, nil
}

// HasIndices reports whether every index resolves to an item.
func (l *InnerList) HasIndices(indices ...int) bool {
	for _, i := range indices {
		if _, ok := FilterIndex(i, len(l.items)); !ok {
			return false
		}
	}
	return true
}

// First returns the first item.
func (l *InnerList) First() (*Item, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[0], true
}

// Last returns the last item.
func (l *InnerList) Last() (*Item, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[len(l.items)-1], true
}

// All iterates the items in order.
func (l *InnerList) All() iter.Seq2[int, *Item] {
	return func(yield func(int, *Item) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Push appends values coerced to Items.
func (l *InnerList) Push(values ...any) (*InnerList, error) {
	extra, err := coerceInnerValues(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withPushSeq(l.items, extra), l.params), nil
}

// Unshift prepends values coerced to Items.
func (l *InnerList) Unshift(values ...any) (*InnerList, error) {
	extra, err := coerceInnerValues(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withUnshiftSeq(l.items, extra), l.params), nil
}

// Insert splices values at the resolved index; 0 behaves as Unshift and
// the list length behaves as Push. An unresolvable index is an offset
// error.
func (l *InnerList) Insert(i int, values ...any) (*InnerList, error) {
	pos, ok := spliceBounds(i, len(l.items))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.items)})
	}
	extra, err := coerceInnerValues(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withInsertSeq(l.items, pos, extra), l.params), nil
}

// Replace swaps the item at the resolved index. The receiver is returned
// unchanged when the replacement is structurally identical.
func (l *InnerList) Replace(i int, value any) (*InnerList, error) {
	pos, ok := FilterIndex(i, len(l.items))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.items)})
	}
	item, err := coerceInnerValue(value)
	if err != nil {
		return nil, err
	}
	items, changed := withReplaceSeq(l.items, pos, item, itemEq)
	if !changed {
		return l, nil
	}
	return l.wrap(items, l.params), nil
}

// RemoveByIndices resolves every index first, then removes all resolved
// positions in one pass. Unresolvable indices are ignored.
func (l *InnerList) RemoveByIndices(indices ...int) *InnerList {
	items, changed := withoutSeqPositions(l.items, resolveIndices(indices, len(l.items)))
	if !changed {
		return l
	}
	return l.wrap(items, l.params)
}

// Filter keeps the items the predicate accepts.
func (l *InnerList) Filter(keep func(i int, item *Item) bool) *InnerList {
	items, changed := filteredSeq(l.items, keep)
	if !changed {
		return l
	}
	return l.wrap(items, l.params)
}

// Sort reorders the items by the comparator.
func (l *InnerList) Sort(less func(a, b *Item) bool) *InnerList {
	if len(l.items) < 2 {
		return l
	}
	sorted := sortedSeq(l.items, less)
	if seqEqual(l.items, sorted, itemEq) {
		return l
	}
	return l.wrap(sorted, l.params)
}

// Render returns the canonical text form under the given dialect:
// space-separated items inside parentheses followed by the inner list's
// own parameters.
func (l *InnerList) Render(d Dialect) (string, error) {
	var sb strings.Builder
	if err := l.render(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (l *InnerList) render(sb *strings.Builder, d Dialect) error {
	sb.WriteByte('(')
	for i, item := range l.items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if err := item.render(sb, d); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return l.params.render(sb, d)
}

// Equal reports structural equality: equal RFC 9651 canonical text.
func (l *InnerList) Equal(other Member) bool {
	o, ok := other.(*InnerList)
	if !ok || o == nil {
		return false
	}
	return seqEqual(l.items, o.items, itemEq) && l.params.Equal(o.params)
}

func (l *InnerList) isMember() {}

func coerceInnerValues(values []any) ([]*Item, error) {
	items := make([]*Item, 0, len(values))
	for _, v := range values {
		item, err := coerceInnerValue(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
