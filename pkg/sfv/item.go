package sfv

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// Item is a bare scalar value with an attached parameter map, possibly
// empty. Items are immutable: the With* methods return new instances.
type Item struct {
	value  BareItem
	params *Parameters
}

// NewItem wraps a bare value in an Item with no parameters.
func NewItem(value BareItem) *Item {
	return &Item{value: value, params: NewParameters()}
}

// ItemFrom coerces a native Go value into an Item with no parameters.
// See the package documentation for the coercion table.
func ItemFrom(v any) (*Item, error) {
	if it, ok := v.(*Item); ok {
		return it, nil
	}
	bare, err := toBareItem(v)
	if err != nil {
		return nil, err
	}
	return NewItem(bare), nil
}

// ItemFromTimestamp builds a Date item from seconds since the Unix epoch.
func ItemFromTimestamp(seconds int64) (*Item, error) {
	d, err := NewDate(seconds)
	if err != nil {
		return nil, err
	}
	return NewItem(d), nil
}

// ItemFromDateString builds a Date item from a free-form, human-readable
// date string such as "2022-08-04 18:37:13" or "May 8, 2009 5:57:51 PM".
func ItemFromDateString(s string) (*Item, error) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, errors.New("ARG-0003", map[string]any{"Expected": "date", "Got": s})
	}
	return ItemFromTimestamp(t.Unix())
}

// ItemFromDecodedBytes builds a ByteSequence item from raw bytes.
func ItemFromDecodedBytes(v []byte) *Item {
	return NewItem(NewByteSequence(v))
}

// ItemFromEncodedBytes builds a ByteSequence item from base64 text.
func ItemFromEncodedBytes(encoded string) (*Item, error) {
	b, err := ByteSequenceFromEncoded(encoded)
	if err != nil {
		return nil, err
	}
	return NewItem(b), nil
}

// Value returns the bare scalar value.
func (it *Item) Value() BareItem { return it.value }

// Type identifies the concrete type of the bare value.
func (it *Item) Type() ValueType { return it.value.Type() }

// Parameters returns the attached parameter map, never nil.
func (it *Item) Parameters() *Parameters { return it.params }

// ParameterByKey returns the bare value of the parameter with the given key.
func (it *Item) ParameterByKey(key string) (BareItem, error) {
	return it.params.valueByKey(key)
}

// ParameterByIndex returns the key and bare value of the parameter at the
// given (possibly negative) position.
func (it *Item) ParameterByIndex(i int) (string, BareItem, error) {
	return it.params.valueByIndex(i)
}

// WithParameters returns an Item carrying the same value and the given
// parameters. The receiver is returned unchanged when the parameter maps
// are structurally equal.
func (it *Item) WithParameters(params *Parameters) *Item {
	if params == nil {
		params = NewParameters()
	}
	if it.params.Equal(params) {
		return it
	}
	return &Item{value: it.value, params: params}
}

// WithValue returns an Item carrying the given bare value and the same
// parameters. The receiver is returned unchanged when the values are
// structurally equal.
func (it *Item) WithValue(value BareItem) *Item {
	if bareEqual(it.value, value) {
		return it
	}
	return &Item{value: value, params: it.params}
}

// isBare reports whether the item carries no parameters, the invariant
// required of parameter values and of bare dictionary entries.
func (it *Item) isBare() bool { return it.params.Len() == 0 }

// Render returns the canonical text form under the given dialect.
func (it *Item) Render(d Dialect) (string, error) {
	var sb strings.Builder
	if err := it.render(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (it *Item) render(sb *strings.Builder, d Dialect) error {
	if err := it.value.render(sb, d); err != nil {
		return err
	}
	return it.params.render(sb, d)
}

// Equal reports structural equality: equal RFC 9651 canonical text.
func (it *Item) Equal(other Member) bool {
	o, ok := other.(*Item)
	if !ok || o == nil {
		return false
	}
	return bareEqual(it.value, o.value) && it.params.Equal(o.params)
}

func (it *Item) isMember() {}

// Typed accessors. Each returns an argument error when the bare value is
// of a different type, so callers can distinguish "wrong type" from
// "absent" (an offset error) in query chains.

func (it *Item) TokenValue() (string, error) {
	if v, ok := it.value.(Token); ok {
		return v.Value(), nil
	}
	return "", it.typeMismatch(TypeToken)
}

func (it *Item) StringValue() (string, error) {
	if v, ok := it.value.(String); ok {
		return v.Value(), nil
	}
	return "", it.typeMismatch(TypeString)
}

func (it *Item) IntValue() (int64, error) {
	if v, ok := it.value.(Integer); ok {
		return v.Int64(), nil
	}
	return 0, it.typeMismatch(TypeInteger)
}

func (it *Item) DecimalValue() (float64, error) {
	if v, ok := it.value.(Decimal); ok {
		return v.Float64(), nil
	}
	return 0, it.typeMismatch(TypeDecimal)
}

func (it *Item) BoolValue() (bool, error) {
	if v, ok := it.value.(Boolean); ok {
		return v.Bool(), nil
	}
	return false, it.typeMismatch(TypeBoolean)
}

func (it *Item) DateValue() (time.Time, error) {
	if v, ok := it.value.(Date); ok {
		return time.Unix(v.Unix(), 0).UTC(), nil
	}
	return time.Time{}, it.typeMismatch(TypeDate)
}

func (it *Item) DisplayStringValue() (string, error) {
	if v, ok := it.value.(DisplayString); ok {
		return v.Value(), nil
	}
	return "", it.typeMismatch(TypeDisplayString)
}

func (it *Item) ByteSequenceValue() ([]byte, error) {
	if v, ok := it.value.(ByteSequence); ok {
		return v.Bytes(), nil
	}
	return nil, it.typeMismatch(TypeByteSequence)
}

func (it *Item) typeMismatch(want ValueType) error {
	return errors.New("ARG-0003", map[string]any{"Expected": string(want), "Got": string(it.value.Type())})
}
