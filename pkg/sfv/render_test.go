package sfv

import (
	"testing"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

func TestRenderCanonicalList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "a, b;q=0.5, c;foo=bar", "a, b;q=0.5, c;foo=bar"},
		{"no space after comma", "a,b,c", "a, b, c"},
		{"extra whitespace", "a  ,\t b", "a, b"},
		{"integer leading zeros", "007", "7"},
		{"negative zero decimal", "-0.0", "0.0"},
		{"decimal trailing zeros", "1.500", "1.5"},
		{"decimal whole", "2.000", "2.0"},
		{"inner list spacing", "( 1  2 )", "(1 2)"},
		{"empty inner list", "()", "()"},
		{"inner list params", "(a b);v=1;w", "(a b);v=1;w"},
		{"boolean member", "?1, ?0", "?1, ?0"},
		{"byte sequence", ":YQ==:", ":YQ==:"},
		{"date member", "@1659578233", "@1659578233"},
		{"display string", `%"f%c3%bc%c3%bcber"`, `%"f%c3%bc%c3%bcber"`},
		{"string escapes", `"say \"hi\""`, `"say \"hi\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ParseList(tt.input, RFC9651)
			if err != nil {
				t.Fatalf("ParseList(%q) error: %v", tt.input, err)
			}
			got, err := list.Render(RFC9651)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCanonicalDictionary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "a=1, b=2", "a=1, b=2"},
		{"whitespace", " a=1 ,  b=2 ", "a=1, b=2"},
		{"bare true key", "a=?1, b=?0", "a, b=?0"},
		{"bare key with params", "a;x=1;y", "a;x=1;y"},
		{"duplicate key keeps position", "a=1, b=2, a=3", "a=3, b=2"},
		{"inner list value", "a=( 1 2 );q=3", "a=(1 2);q=3"},
		{"string value", `a="x"`, `a="x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := ParseDictionary(tt.input, RFC9651)
			if err != nil {
				t.Fatalf("ParseDictionary(%q) error: %v", tt.input, err)
			}
			got, err := dict.Render(RFC9651)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBooleanTrueShortcut(t *testing.T) {
	// The bare-key shortcut applies to dictionary members and parameter
	// values, never to top-level items or list members.
	item := NewItem(NewBoolean(true))
	out, err := item.Render(RFC9651)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "?1" {
		t.Errorf("item render = %q, want ?1", out)
	}

	list, err := ListFromMembers(true)
	if err != nil {
		t.Fatalf("ListFromMembers: %v", err)
	}
	if out, _ := list.Render(RFC9651); out != "?1" {
		t.Errorf("list render = %q, want ?1", out)
	}

	dict, err := DictionaryFromPairs(Pair{"a", true})
	if err != nil {
		t.Fatalf("DictionaryFromPairs: %v", err)
	}
	if out, _ := dict.Render(RFC9651); out != "a" {
		t.Errorf("dictionary render = %q, want a", out)
	}

	params, err := ParametersFromPairs(Pair{"x", true}, Pair{"y", 1})
	if err != nil {
		t.Fatalf("ParametersFromPairs: %v", err)
	}
	if out, _ := params.Render(RFC9651); out != ";x;y=1" {
		t.Errorf("parameters render = %q, want ;x;y=1", out)
	}
}

func TestRenderRoundTripIdempotent(t *testing.T) {
	inputs := []string{
		"a, b;q=0.5, c;foo=bar",
		"sugar, tea, rum",
		"(a b), (c d);x, ()",
		`"hello", token, 42, -17, 4.5, ?1, ?0, :YQ==:, @1659578233, %"a%22b"`,
	}

	for _, input := range inputs {
		list, err := ParseList(input, RFC9651)
		if err != nil {
			t.Fatalf("ParseList(%q) error: %v", input, err)
		}
		once, err := list.Render(RFC9651)
		if err != nil {
			t.Fatalf("render %q: %v", input, err)
		}
		again, err := MustList(once).Render(RFC9651)
		if err != nil {
			t.Fatalf("second render of %q: %v", once, err)
		}
		if once != again {
			t.Errorf("round trip of %q not stable: %q vs %q", input, once, again)
		}
	}
}

func TestRenderDialectErrors(t *testing.T) {
	date, err := ItemFromTimestamp(1659578233)
	if err != nil {
		t.Fatalf("ItemFromTimestamp: %v", err)
	}
	if _, err := date.Render(RFC8941); err == nil || !errors.IsArgument(err) {
		t.Errorf("date render under RFC 8941 = %v, want argument error", err)
	}
	if out, err := date.Render(RFC9651); err != nil || out != "@1659578233" {
		t.Errorf("date render = %q (%v), want @1659578233", out, err)
	}

	ds, err := NewDisplayString("füüber")
	if err != nil {
		t.Fatalf("NewDisplayString: %v", err)
	}
	item := NewItem(ds)
	if _, err := item.Render(RFC8941); err == nil || !errors.IsArgument(err) {
		t.Errorf("display string render under RFC 8941 = %v, want argument error", err)
	}

	// Containers surface the same error from nested values.
	list, err := ListFromMembers(item)
	if err != nil {
		t.Fatalf("ListFromMembers: %v", err)
	}
	if _, err := list.Render(RFC8941); err == nil || !errors.IsArgument(err) {
		t.Errorf("list render under RFC 8941 = %v, want argument error", err)
	}
}

func TestRenderDecimalForms(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.0"},
		{0.5, "0.5"},
		{-0.5, "-0.5"},
		{1.125, "1.125"},
		{10.0, "10.0"},
		{0.0015, "0.002"},     // round half to even, up
		{0.0025, "0.002"},     // round half to even, down
		{123456789.499, "123456789.499"},
	}

	for _, tt := range tests {
		dec, err := NewDecimal(tt.value)
		if err != nil {
			t.Fatalf("NewDecimal(%v): %v", tt.value, err)
		}
		got, err := NewItem(dec).Render(RFC9651)
		if err != nil {
			t.Fatalf("render %v: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("Decimal(%v) renders %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestRenderDisplayStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"ascii", "hello", `%"hello"`},
		{"percent", "100%", `%"100%25"`},
		{"double quote", `say "hi"`, `%"say %22hi%22"`},
		{"non-ascii", "füüber", `%"f%c3%bc%c3%bcber"`},
		{"control char", "a\tb", `%"a%09b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDisplayString(tt.value)
			if err != nil {
				t.Fatalf("NewDisplayString(%q): %v", tt.value, err)
			}
			got, err := NewItem(ds).Render(RFC9651)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}
