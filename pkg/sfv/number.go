package sfv

import (
	"math"
	"strconv"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// maxNumeric is the largest magnitude an Integer or Date can carry:
// fifteen decimal digits. It is also the post-rounding magnitude ceiling
// for a Decimal scaled by a thousand (twelve integral plus three
// fractional digits).
const maxNumeric = 999_999_999_999_999

// Integer is a signed whole number with at most fifteen decimal digits.
type Integer struct {
	value int64
}

// NewInteger validates the range and returns an Integer bare value.
// Magnitudes of 10^15 or greater are a grammar violation, not a
// representable value.
func NewInteger(v int64) (Integer, error) {
	if v > maxNumeric || v < -maxNumeric {
		return Integer{}, errors.New("SYNTAX-0015", map[string]any{"Type": "integer"})
	}
	return Integer{value: v}, nil
}

// Int64 returns the underlying value.
func (i Integer) Int64() int64 { return i.value }

// Type identifies the value as an integer.
func (i Integer) Type() ValueType { return TypeInteger }

func (i Integer) render(sb *strings.Builder, _ Dialect) error {
	sb.WriteString(strconv.FormatInt(i.value, 10))
	return nil
}

func (i Integer) isBareItem() {}

// Decimal is a signed number with at most twelve integral and three
// fractional digits. The stored magnitude is the nearest IEEE-754 double;
// canonical serialization rounds to three fractional digits (round half
// to even) and never emits more precision than the grammar encodes.
type Decimal struct {
	value float64
}

// NewDecimal validates the range and returns a Decimal bare value.
func NewDecimal(v float64) (Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Decimal{}, errors.New("SYNTAX-0015", map[string]any{"Type": "decimal"})
	}
	scaled := math.RoundToEven(v * 1000)
	if scaled > maxNumeric || scaled < -maxNumeric {
		return Decimal{}, errors.New("SYNTAX-0005", nil)
	}
	return Decimal{value: v}, nil
}

// Float64 returns the underlying value.
func (d Decimal) Float64() float64 { return d.value }

// Type identifies the value as a decimal.
func (d Decimal) Type() ValueType { return TypeDecimal }

func (d Decimal) render(sb *strings.Builder, _ Dialect) error {
	n := int64(math.RoundToEven(d.value * 1000))
	if n < 0 {
		sb.WriteByte('-')
		n = -n
	}
	sb.WriteString(strconv.FormatInt(n/1000, 10))
	sb.WriteByte('.')
	frac := strconv.FormatInt(n%1000, 10)
	frac = strings.Repeat("0", 3-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	sb.WriteString(frac)
	return nil
}

func (d Decimal) isBareItem() {}

// Date is a count of seconds relative to the Unix epoch, with the same
// numeric range as Integer. Dates require RFC 9651.
type Date struct {
	value int64
}

// NewDate validates the range and returns a Date bare value.
func NewDate(seconds int64) (Date, error) {
	if seconds > maxNumeric || seconds < -maxNumeric {
		return Date{}, errors.New("SYNTAX-0015", map[string]any{"Type": "date"})
	}
	return Date{value: seconds}, nil
}

// Unix returns the underlying seconds-since-epoch value.
func (d Date) Unix() int64 { return d.value }

// Type identifies the value as a date.
func (d Date) Type() ValueType { return TypeDate }

func (d Date) render(sb *strings.Builder, dialect Dialect) error {
	if !dialect.supports(TypeDate) {
		return errors.New("ARG-0004", map[string]any{"Type": "date"})
	}
	sb.WriteByte('@')
	sb.WriteString(strconv.FormatInt(d.value, 10))
	return nil
}

func (d Date) isBareItem() {}
