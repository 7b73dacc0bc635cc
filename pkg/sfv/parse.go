package sfv

import (
	"strconv"
	"unicode/utf8"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// ParseList parses a top-level list of Items and InnerLists. An empty
// input yields the empty list.
func ParseList(input string, d Dialect) (*List, error) {
	p := &parser{input: input, dialect: d}
	p.skipSP()
	var members []Member
	for !p.eof() {
		m, err := p.parseItemOrInnerList()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		p.skipOWS()
		if p.eof() {
			break
		}
		if p.peek() != ',' {
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(p.peek()), "In": "list"})
		}
		p.pos++
		p.skipOWS()
		if p.eof() {
			return nil, p.syntax("SYNTAX-0001", map[string]any{"Expected": "list member after ','"})
		}
	}
	if len(members) == 0 {
		return emptyList, nil
	}
	return &List{members: members}, nil
}

// ParseDictionary parses a top-level dictionary. A bare key is read as a
// boolean-true Item carrying the parameters that follow it. A duplicate
// key overwrites the value but keeps the key's original position. An
// empty input yields the empty dictionary.
func ParseDictionary(input string, d Dialect) (*Dictionary, error) {
	p := &parser{input: input, dialect: d}
	p.skipSP()
	var members []pair[Member]
	for !p.eof() {
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		var m Member
		if p.peek() == '=' {
			p.pos++
			m, err = p.parseItemOrInnerList()
		} else {
			var params *Parameters
			params, err = p.parseParameters()
			if err == nil {
				m = NewItem(NewBoolean(true)).WithParameters(params)
			}
		}
		if err != nil {
			return nil, err
		}
		members, _ = withAdd(members, key, m, memberEqual)
		p.skipOWS()
		if p.eof() {
			break
		}
		if p.peek() != ',' {
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(p.peek()), "In": "dictionary"})
		}
		p.pos++
		p.skipOWS()
		if p.eof() {
			return nil, p.syntax("SYNTAX-0001", map[string]any{"Expected": "dictionary member after ','"})
		}
	}
	if len(members) == 0 {
		return emptyDictionary, nil
	}
	return &Dictionary{members: members}, nil
}

// ParseItem parses a single Item: a bare value with optional parameters.
func ParseItem(input string, d Dialect) (*Item, error) {
	p := &parser{input: input, dialect: d}
	p.skipSP()
	item, err := p.parseItem()
	if err != nil {
		return nil, err
	}
	if err := p.finish("item"); err != nil {
		return nil, err
	}
	return item, nil
}

// ParseParameters parses a standalone parameter run (";key" or
// ";key=value", repeated). An empty input yields the empty map.
func ParseParameters(input string, d Dialect) (*Parameters, error) {
	p := &parser{input: input, dialect: d}
	p.skipSP()
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	if err := p.finish("parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

// parser is a single-pass, non-backtracking scanner over the input with
// one character of lookahead. The dialect only gates which bare-value
// productions are legal; the container grammar is identical in both.
type parser struct {
	input   string
	pos     int
	dialect Dialect
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

// peek returns the current character, or 0 at end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSP() {
	for !p.eof() && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// skipOWS discards optional whitespace: space and horizontal tab.
func (p *parser) skipOWS() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// finish discards trailing SP and fails on any unconsumed input.
func (p *parser) finish(structure string) error {
	p.skipSP()
	if !p.eof() {
		return p.syntax("SYNTAX-0003", map[string]any{"Structure": structure})
	}
	return nil
}

func (p *parser) syntax(code string, data map[string]any) error {
	return errors.NewWithOffset(code, p.pos, data)
}

func (p *parser) parseItemOrInnerList() (Member, error) {
	if p.peek() == '(' {
		return p.parseInnerList()
	}
	return p.parseItem()
}

func (p *parser) parseInnerList() (*InnerList, error) {
	p.pos++ // consume '('
	var items []*Item
	for {
		p.skipSP()
		if p.eof() {
			return nil, p.syntax("SYNTAX-0008", map[string]any{"Structure": "inner list"})
		}
		if p.peek() == ')' {
			p.pos++
			params, err := p.parseParameters()
			if err != nil {
				return nil, err
			}
			if len(items) == 0 && params.IsEmpty() {
				return emptyInnerList, nil
			}
			return &InnerList{items: items, params: params}, nil
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if c := p.peek(); c != ' ' && c != ')' {
			if p.eof() {
				return nil, p.syntax("SYNTAX-0008", map[string]any{"Structure": "inner list"})
			}
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(c), "In": "inner list"})
		}
	}
}

func (p *parser) parseItem() (*Item, error) {
	bare, err := p.parseBareItem()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	return NewItem(bare).WithParameters(params), nil
}

// parseBareItem dispatches on one character of lookahead.
func (p *parser) parseBareItem() (BareItem, error) {
	if p.eof() {
		return nil, p.syntax("SYNTAX-0001", map[string]any{"Expected": "a bare item"})
	}
	c := p.peek()
	switch {
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == '"':
		return p.parseString()
	case isTokenStart(c):
		return p.parseToken()
	case c == ':':
		return p.parseByteSequence()
	case c == '?':
		return p.parseBoolean()
	case c == '@':
		if !p.dialect.supports(TypeDate) {
			return nil, p.syntax("SYNTAX-0012", map[string]any{"Type": "date"})
		}
		return p.parseDate()
	case c == '%':
		if !p.dialect.supports(TypeDisplayString) {
			return nil, p.syntax("SYNTAX-0012", map[string]any{"Type": "display string"})
		}
		return p.parseDisplayString()
	default:
		return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(c), "In": "bare item"})
	}
}

func (p *parser) parseParameters() (*Parameters, error) {
	var members []pair[*Item]
	for p.peek() == ';' {
		p.pos++
		p.skipSP()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		var bare BareItem = NewBoolean(true)
		if p.peek() == '=' {
			p.pos++
			bare, err = p.parseBareItem()
			if err != nil {
				return nil, err
			}
		}
		// A repeated key overwrites the value but keeps its position.
		members, _ = withAdd(members, key, NewItem(bare), itemEq)
	}
	if len(members) == 0 {
		return emptyParameters, nil
	}
	return &Parameters{members: members}, nil
}

func (p *parser) parseKey() (string, error) {
	if p.eof() || !isKeyStart(p.peek()) {
		return "", p.syntax("SYNTAX-0011", map[string]any{"Key": string(p.peek())})
	}
	start := p.pos
	for !p.eof() && isKeyChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos], nil
}

// parseNumber scans an integer or decimal, enforcing digit-count limits
// during the scan: fifteen digits for integers, twelve integral and three
// fractional for decimals.
func (p *parser) parseNumber() (BareItem, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	if p.eof() || !isDigit(p.peek()) {
		return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(p.peek()), "In": "number"})
	}
	digits := 0
	dot := -1 // digit count at the decimal point
	for !p.eof() {
		c := p.input[p.pos]
		switch {
		case isDigit(c):
			digits++
		case c == '.' && dot < 0:
			if digits > 12 {
				return nil, p.syntax("SYNTAX-0005", nil)
			}
			dot = digits
		default:
			goto scanned
		}
		if dot < 0 && digits > 15 {
			return nil, p.syntax("SYNTAX-0004", nil)
		}
		if dot >= 0 && digits-dot > 3 {
			return nil, p.syntax("SYNTAX-0006", nil)
		}
		p.pos++
	}
scanned:
	text := p.input[start:p.pos]
	if dot >= 0 {
		if text[len(text)-1] == '.' {
			return nil, p.syntax("SYNTAX-0007", nil)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": text, "In": "decimal"})
		}
		return NewDecimal(f)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.syntax("SYNTAX-0004", nil)
	}
	return NewInteger(n)
}

func (p *parser) parseDate() (BareItem, error) {
	p.pos++ // consume '@'
	num, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	n, ok := num.(Integer)
	if !ok {
		return nil, p.syntax("SYNTAX-0016", nil)
	}
	return NewDate(n.Int64())
}

func (p *parser) parseString() (BareItem, error) {
	p.pos++ // consume opening '"'
	var out []byte
	for {
		if p.eof() {
			return nil, p.syntax("SYNTAX-0008", map[string]any{"Structure": "string"})
		}
		c := p.input[p.pos]
		p.pos++
		switch {
		case c == '\\':
			if p.eof() {
				return nil, p.syntax("SYNTAX-0008", map[string]any{"Structure": "string"})
			}
			n := p.input[p.pos]
			if n != '"' && n != '\\' {
				return nil, p.syntax("SYNTAX-0009", nil)
			}
			out = append(out, n)
			p.pos++
		case c == '"':
			return String{value: string(out)}, nil
		case c < 0x20 || c > 0x7e:
			p.pos--
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(c), "In": "string"})
		default:
			out = append(out, c)
		}
	}
}

func (p *parser) parseToken() (BareItem, error) {
	start := p.pos
	p.pos++ // first character already validated by the dispatch
	for !p.eof() && isTokenChar(p.input[p.pos]) {
		p.pos++
	}
	return Token{value: p.input[start:p.pos]}, nil
}

func (p *parser) parseByteSequence() (BareItem, error) {
	start := p.pos
	p.pos++ // consume opening ':'
	for !p.eof() && p.input[p.pos] != ':' {
		p.pos++
	}
	if p.eof() {
		return nil, errors.NewWithOffset("SYNTAX-0008", start, map[string]any{"Structure": "byte sequence"})
	}
	encoded := p.input[start+1 : p.pos]
	p.pos++ // consume closing ':'
	b, err := ByteSequenceFromEncoded(encoded)
	if err != nil {
		var fe *errors.FieldError
		if errors.As(err, &fe) {
			return nil, fe.WithOffset(start)
		}
		return nil, err
	}
	return b, nil
}

func (p *parser) parseBoolean() (BareItem, error) {
	p.pos++ // consume '?'
	switch p.peek() {
	case '0':
		p.pos++
		return NewBoolean(false), nil
	case '1':
		p.pos++
		return NewBoolean(true), nil
	default:
		if p.eof() {
			return nil, p.syntax("SYNTAX-0001", map[string]any{"Expected": "'0' or '1'"})
		}
		return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(p.peek()), "In": "boolean"})
	}
}

func (p *parser) parseDisplayString() (BareItem, error) {
	p.pos++ // consume '%'
	if p.peek() != '"' {
		if p.eof() {
			return nil, p.syntax("SYNTAX-0001", map[string]any{"Expected": "'\"' after '%'"})
		}
		return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(p.peek()), "In": "display string"})
	}
	p.pos++
	var out []byte
	for {
		if p.eof() {
			return nil, p.syntax("SYNTAX-0008", map[string]any{"Structure": "display string"})
		}
		c := p.input[p.pos]
		p.pos++
		switch {
		case c < 0x20 || c > 0x7e:
			p.pos--
			return nil, p.syntax("SYNTAX-0002", map[string]any{"Char": string(c), "In": "display string"})
		case c == '%':
			if p.pos+2 > len(p.input) {
				return nil, p.syntax("SYNTAX-0013", nil)
			}
			hi, okHi := lowerHexValue(p.input[p.pos])
			lo, okLo := lowerHexValue(p.input[p.pos+1])
			if !okHi || !okLo {
				return nil, p.syntax("SYNTAX-0013", nil)
			}
			out = append(out, hi<<4|lo)
			p.pos += 2
		case c == '"':
			if !utf8.Valid(out) {
				return nil, p.syntax("SYNTAX-0014", nil)
			}
			return DisplayString{value: string(out)}, nil
		default:
			out = append(out, c)
		}
	}
}

// lowerHexValue decodes one lowercase hexadecimal digit. Uppercase digits
// are invalid in display-string percent escapes.
func lowerHexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
