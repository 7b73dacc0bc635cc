package sfv

import (
	"fmt"
	"iter"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// Member is a value that can appear inside a List or Dictionary: an Item
// or an InnerList. The union is closed; the grammar guarantees nesting is
// exactly two levels deep, so no general recursive type is needed.
type Member interface {
	HasParameters

	// Render returns the canonical text form under the given dialect.
	Render(d Dialect) (string, error)

	// Equal reports structural equality with another member, defined as
	// equal RFC 9651 canonical text.
	Equal(other Member) bool

	render(sb *strings.Builder, d Dialect) error
	isMember()
}

// HasParameters is implemented by every parameterized value: Items and
// InnerLists. Both forward to the same Parameters container, so parameter
// access behaves identically regardless of the carrier.
type HasParameters interface {
	// Parameters returns the attached parameter map, never nil.
	Parameters() *Parameters

	// ParameterByKey returns the bare value of the parameter with the
	// given key.
	ParameterByKey(key string) (BareItem, error)

	// ParameterByIndex returns the key and bare value of the parameter at
	// the given (possibly negative) position.
	ParameterByIndex(i int) (string, BareItem, error)
}

// Validator inspects a candidate member during a query. A nil return
// accepts the member; any other return rejects it with that error.
// Rejections that are not already FieldError violations are wrapped in the
// templated default message carrying the key or index that failed.
type Validator func(value Member, key string) error

// runValidators applies each validator in order and wraps plain rejections
// in the catalog's default violation message. keyed selects the
// key-addressed template; otherwise the index-addressed one is used.
func runValidators(value Member, key string, index int, keyed bool, checks []Validator) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		err := check(value, key)
		if err == nil {
			continue
		}
		var fe *errors.FieldError
		if errors.As(err, &fe) && fe.Class == errors.ClassViolation {
			return err
		}
		if keyed {
			return errors.New("VIOL-0001", map[string]any{"Key": key, "Reason": err.Error()})
		}
		return errors.New("VIOL-0002", map[string]any{"Index": index, "Reason": err.Error()})
	}
	return nil
}

// memberEqual is the equality function threaded through the shared algebra.
func memberEqual(a, b Member) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

// toMember coerces a value into a List or Dictionary member:
//
//	*Item / *InnerList   used as-is
//	*Parameters          rejected
//	[]any                InnerList of coerced items
//	anything else        bare-item coercion wrapped in an Item
func toMember(v any) (Member, error) {
	switch val := v.(type) {
	case *Item:
		if val == nil {
			return nil, errors.New("ARG-0005", map[string]any{"Type": "nil item", "Where": "container"})
		}
		return val, nil
	case *InnerList:
		if val == nil {
			return nil, errors.New("ARG-0005", map[string]any{"Type": "nil inner list", "Where": "container"})
		}
		return val, nil
	case *Parameters, *List, *Dictionary:
		return nil, errors.New("ARG-0005", map[string]any{"Type": fmt.Sprintf("%T", v), "Where": "container"})
	case []any:
		return InnerListFromValues(val...)
	default:
		bare, err := toBareItem(v)
		if err != nil {
			return nil, err
		}
		return NewItem(bare), nil
	}
}

// Map applies fn to every entry of a container traversal and collects the
// results. It is a read-only traversal producing an external slice, not a
// new container.
func Map[K comparable, V, T any](seq iter.Seq2[K, V], fn func(K, V) T) []T {
	var out []T
	for k, v := range seq {
		out = append(out, fn(k, v))
	}
	return out
}

// Reduce folds a container traversal into a single external result.
func Reduce[K comparable, V, A any](seq iter.Seq2[K, V], fn func(acc A, k K, v V) A, seed A) A {
	acc := seed
	for k, v := range seq {
		acc = fn(acc, k, v)
	}
	return acc
}
