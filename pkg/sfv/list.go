package sfv

import (
	"iter"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// List is a top-level ordered sequence of Items and InnerLists. Lists are
// persistent values: every structural operation returns a new instance,
// or the receiver when nothing changed.
type List struct {
	members []Member
}

var emptyList = &List{}

// NewList returns the canonical empty list.
func NewList() *List { return emptyList }

// ListFromMembers builds a list by coercing each value to a member: Items
// and InnerLists are used as-is, []any becomes an InnerList, anything
// else goes through bare-item coercion.
func ListFromMembers(values ...any) (*List, error) {
	members, err := coerceMembers(values)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return emptyList, nil
	}
	return &List{members: members}, nil
}

func (l *List) wrap(members []Member) *List {
	if len(members) == 0 {
		return emptyList
	}
	return &List{members: members}
}

// Len returns the number of members.
func (l *List) Len() int { return len(l.members) }

// IsEmpty reports whether the list has no members.
func (l *List) IsEmpty() bool { return len(l.members) == 0 }

// ByIndex returns the member at the given (possibly negative) position.
func (l *List) ByIndex(i int, checks ...Validator) (Member, error) {
	pos, ok := FilterIndex(i, len(l.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.members)})
	}
	m := l.members[pos]
	if err := runValidators(m, "", pos, false, checks); err != nil {
		return nil, err
	}
	return m, nil
}

// HasIndices reports whether every index resolves to a member.
func (l *List) HasIndices(indices ...int) bool {
	for _, i := range indices {
		if _, ok := FilterIndex(i, len(l.members)); !ok {
			return false
		}
	}
	return true
}

// First returns the first member.
func (l *List) First() (Member, bool) {
	if len(l.members) == 0 {
		return nil, false
	}
	return l.members[0], true
}

// Last returns the last member.
func (l *List) Last() (Member, bool) {
	if len(l.members) == 0 {
		return nil, false
	}
	return l.members[len(l.members)-1], true
}

// All iterates the members in order.
func (l *List) All() iter.Seq2[int, Member] {
	return func(yield func(int, Member) bool) {
		for i, m := range l.members {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Push appends values coerced to members.
func (l *List) Push(values ...any) (*List, error) {
	extra, err := coerceMembers(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withPushSeq(l.members, extra)), nil
}

// Unshift prepends values coerced to members.
func (l *List) Unshift(values ...any) (*List, error) {
	extra, err := coerceMembers(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withUnshiftSeq(l.members, extra)), nil
}

// Insert splices values at the resolved index; 0 behaves as Unshift and
// the list length behaves as Push. An unresolvable index is an offset
// error, never silently clamped.
func (l *List) Insert(i int, values ...any) (*List, error) {
	pos, ok := spliceBounds(i, len(l.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.members)})
	}
	extra, err := coerceMembers(values)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return l, nil
	}
	return l.wrap(withInsertSeq(l.members, pos, extra)), nil
}

// Replace swaps the member at the resolved index. The receiver is
// returned unchanged when the replacement is structurally identical.
func (l *List) Replace(i int, value any) (*List, error) {
	pos, ok := FilterIndex(i, len(l.members))
	if !ok {
		return nil, errors.New("OFFSET-0002", map[string]any{"Index": i, "Length": len(l.members)})
	}
	m, err := toMember(value)
	if err != nil {
		return nil, err
	}
	members, changed := withReplaceSeq(l.members, pos, m, memberEqual)
	if !changed {
		return l, nil
	}
	return l.wrap(members), nil
}

// RemoveByIndices resolves every index first, then removes all resolved
// positions in one pass. Unresolvable indices are ignored; removing every
// member yields the canonical empty list.
func (l *List) RemoveByIndices(indices ...int) *List {
	members, changed := withoutSeqPositions(l.members, resolveIndices(indices, len(l.members)))
	if !changed {
		return l
	}
	return l.wrap(members)
}

// Filter keeps the members the predicate accepts.
func (l *List) Filter(keep func(i int, m Member) bool) *List {
	members, changed := filteredSeq(l.members, keep)
	if !changed {
		return l
	}
	return l.wrap(members)
}

// Sort reorders the members by the comparator.
func (l *List) Sort(less func(a, b Member) bool) *List {
	if len(l.members) < 2 {
		return l
	}
	sorted := sortedSeq(l.members, less)
	if seqEqual(l.members, sorted, memberEqual) {
		return l
	}
	return l.wrap(sorted)
}

// Render returns the canonical text form under the given dialect: members
// joined by ", ".
func (l *List) Render(d Dialect) (string, error) {
	var sb strings.Builder
	for i, m := range l.members {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := m.render(&sb, d); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Equal reports structural equality: equal RFC 9651 canonical text.
func (l *List) Equal(other *List) bool {
	if l == other {
		return true
	}
	if other == nil {
		return false
	}
	return seqEqual(l.members, other.members, memberEqual)
}

func coerceMembers(values []any) ([]Member, error) {
	members := make([]Member, 0, len(values))
	for _, v := range values {
		m, err := toMember(v)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}
