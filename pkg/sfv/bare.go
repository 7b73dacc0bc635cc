package sfv

import (
	"fmt"
	"strings"
	"time"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// ValueType identifies the concrete type of a bare value.
type ValueType string

const (
	TypeInteger       ValueType = "integer"
	TypeDecimal       ValueType = "decimal"
	TypeString        ValueType = "string"
	TypeToken         ValueType = "token"
	TypeByteSequence  ValueType = "bytesequence"
	TypeBoolean       ValueType = "boolean"
	TypeDate          ValueType = "date"
	TypeDisplayString ValueType = "displaystring"
)

// BareItem is a scalar structured-field value: one of Token, String,
// ByteSequence, Boolean, Integer, Decimal, Date, or DisplayString.
// The set is closed; only this package's types implement it.
type BareItem interface {
	// Type identifies the concrete value type.
	Type() ValueType

	// render appends the canonical text form under the given dialect.
	render(sb *strings.Builder, d Dialect) error

	isBareItem()
}

// canonicalBare returns the RFC 9651 canonical text of a bare value.
// Every validly constructed value renders under RFC 9651, so this is total.
func canonicalBare(b BareItem) string {
	var sb strings.Builder
	_ = b.render(&sb, RFC9651)
	return sb.String()
}

// bareEqual reports structural equality of two bare values, defined as
// equal canonical text. Two Decimals with different stored magnitudes that
// canonicalize identically compare equal.
func bareEqual(a, b BareItem) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type() == b.Type() && canonicalBare(a) == canonicalBare(b)
}

// Boolean is a bare boolean value, serialized as ?1 or ?0.
type Boolean struct {
	value bool
}

// NewBoolean returns a Boolean bare value.
func NewBoolean(v bool) Boolean {
	return Boolean{value: v}
}

// Bool returns the underlying value.
func (b Boolean) Bool() bool { return b.value }

// Type identifies the value as a boolean.
func (b Boolean) Type() ValueType { return TypeBoolean }

func (b Boolean) render(sb *strings.Builder, _ Dialect) error {
	if b.value {
		sb.WriteString("?1")
	} else {
		sb.WriteString("?0")
	}
	return nil
}

func (b Boolean) isBareItem() {}

// toBareItem coerces a native Go value into a bare value:
//
//	BareItem    used as-is
//	bool        Boolean
//	string      String (use NewToken for tokens)
//	int kinds   Integer
//	float64     Decimal
//	[]byte      ByteSequence
//	time.Time   Date (seconds precision)
//
// Anything else is an argument error.
func toBareItem(v any) (BareItem, error) {
	switch val := v.(type) {
	case BareItem:
		return val, nil
	case bool:
		return NewBoolean(val), nil
	case string:
		return NewString(val)
	case int:
		return NewInteger(int64(val))
	case int8:
		return NewInteger(int64(val))
	case int16:
		return NewInteger(int64(val))
	case int32:
		return NewInteger(int64(val))
	case int64:
		return NewInteger(val)
	case uint:
		return NewInteger(int64(val))
	case uint8:
		return NewInteger(int64(val))
	case uint16:
		return NewInteger(int64(val))
	case uint32:
		return NewInteger(int64(val))
	case uint64:
		if val > maxNumeric {
			return nil, errors.New("SYNTAX-0015", map[string]any{"Type": "integer"})
		}
		return NewInteger(int64(val))
	case float32:
		return NewDecimal(float64(val))
	case float64:
		return NewDecimal(val)
	case []byte:
		return NewByteSequence(val), nil
	case time.Time:
		return NewDate(val.Unix())
	default:
		return nil, errors.New("ARG-0002", map[string]any{"Type": fmt.Sprintf("%T", v)})
	}
}
