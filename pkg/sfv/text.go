package sfv

import (
	"strings"
	"unicode/utf8"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// String is a sequence of printable ASCII characters (0x20-0x7E).
// Quote and backslash are escaped in the text form.
type String struct {
	value string
}

// NewString validates that every character is printable ASCII and returns
// a String bare value.
func NewString(v string) (String, error) {
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7e {
			return String{}, errors.New("SYNTAX-0002", map[string]any{"Char": string(v[i]), "In": "string"})
		}
	}
	return String{value: v}, nil
}

// Value returns the underlying (unescaped) text.
func (s String) Value() string { return s.value }

// Type identifies the value as a string.
func (s String) Type() ValueType { return TypeString }

func (s String) render(sb *strings.Builder, _ Dialect) error {
	sb.WriteByte('"')
	for i := 0; i < len(s.value); i++ {
		c := s.value[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return nil
}

func (s String) isBareItem() {}

// Token is a short textual word matching the token grammar: a letter or
// '*' followed by token characters, ':' or '/'.
type Token struct {
	value string
}

// NewToken validates the token grammar and returns a Token bare value.
func NewToken(v string) (Token, error) {
	if len(v) == 0 || !isTokenStart(v[0]) {
		return Token{}, errors.New("SYNTAX-0002", map[string]any{"Char": firstChar(v), "In": "token"})
	}
	for i := 1; i < len(v); i++ {
		if !isTokenChar(v[i]) {
			return Token{}, errors.New("SYNTAX-0002", map[string]any{"Char": string(v[i]), "In": "token"})
		}
	}
	return Token{value: v}, nil
}

// Value returns the token text.
func (t Token) Value() string { return t.value }

// Type identifies the value as a token.
func (t Token) Type() ValueType { return TypeToken }

func (t Token) render(sb *strings.Builder, _ Dialect) error {
	sb.WriteString(t.value)
	return nil
}

func (t Token) isBareItem() {}

// DisplayString is a Unicode string, serialized as %"..." with
// percent-encoded UTF-8 bytes for anything outside printable ASCII.
// Display strings require RFC 9651.
type DisplayString struct {
	value string
}

// NewDisplayString validates that the text is well-formed UTF-8 and
// returns a DisplayString bare value.
func NewDisplayString(v string) (DisplayString, error) {
	if !utf8.ValidString(v) {
		return DisplayString{}, errors.New("SYNTAX-0014", nil)
	}
	return DisplayString{value: v}, nil
}

// Value returns the underlying Unicode text.
func (d DisplayString) Value() string { return d.value }

// Type identifies the value as a display string.
func (d DisplayString) Type() ValueType { return TypeDisplayString }

func (d DisplayString) render(sb *strings.Builder, dialect Dialect) error {
	if !dialect.supports(TypeDisplayString) {
		return errors.New("ARG-0004", map[string]any{"Type": "display string"})
	}
	sb.WriteString(`%"`)
	for i := 0; i < len(d.value); i++ {
		c := d.value[i]
		if c == '%' || c == '"' || c < 0x20 || c > 0x7e {
			sb.WriteByte('%')
			sb.WriteByte(lowerHex[c>>4])
			sb.WriteByte(lowerHex[c&0xf])
		} else {
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return nil
}

func (d DisplayString) isBareItem() {}

const lowerHex = "0123456789abcdef"

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isTokenStart(c byte) bool {
	return isAlpha(c) || c == '*'
}

// isTokenChar reports whether c may appear after the first character of a
// token: tchar from RFC 9110 plus ':' and '/'.
func isTokenChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~', ':', '/':
		return true
	}
	return false
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}
	return string(s[0])
}
