package sfv

import (
	"testing"
	"time"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

func TestItemFrom(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"bool", true, "?1"},
		{"string", "hi", `"hi"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 4.5, "4.5"},
		{"bytes", []byte("a"), ":YQ==:"},
		{"time", time.Unix(1659578233, 0), "@1659578233"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := ItemFrom(tt.value)
			if err != nil {
				t.Fatalf("ItemFrom(%v): %v", tt.value, err)
			}
			out, err := item.Render(RFC9651)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if out != tt.want {
				t.Errorf("ItemFrom(%v) renders %q, want %q", tt.value, out, tt.want)
			}
		})
	}

	tok, err := NewToken("gzip")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	item, err := ItemFrom(tok)
	if err != nil {
		t.Fatalf("ItemFrom(Token): %v", err)
	}
	if out, _ := item.Render(RFC9651); out != "gzip" {
		t.Errorf("token item renders %q, want gzip", out)
	}

	if _, err := ItemFrom(struct{}{}); err == nil || !errors.IsArgument(err) {
		t.Errorf("unsupported type accepted (%v), want argument error", err)
	}
}

func TestItemFromDateString(t *testing.T) {
	item, err := ItemFromDateString("2022-08-04T01:57:13Z")
	if err != nil {
		t.Fatalf("ItemFromDateString: %v", err)
	}
	if out, _ := item.Render(RFC9651); out != "@1659578233" {
		t.Errorf("render = %q, want @1659578233", out)
	}

	if _, err := ItemFromDateString("not a date"); err == nil || !errors.IsArgument(err) {
		t.Errorf("garbage date accepted (%v), want argument error", err)
	}
}

func TestItemBytes(t *testing.T) {
	item := ItemFromDecodedBytes([]byte("pretend"))
	if out, _ := item.Render(RFC9651); out != ":cHJldGVuZA==:" {
		t.Errorf("render = %q", out)
	}

	fromEncoded, err := ItemFromEncodedBytes("cHJldGVuZA==")
	if err != nil {
		t.Fatalf("ItemFromEncodedBytes: %v", err)
	}
	if !item.Equal(fromEncoded) {
		t.Error("decoded and encoded constructors disagree")
	}

	if _, err := ItemFromEncodedBytes("not!base64"); err == nil || !errors.IsSyntax(err) {
		t.Errorf("bad base64 accepted (%v), want syntax error", err)
	}
}

func TestItemTypedAccessors(t *testing.T) {
	item := MustItem("42")

	if v, err := item.IntValue(); err != nil || v != 42 {
		t.Errorf("IntValue = %d (%v), want 42", v, err)
	}
	if _, err := item.StringValue(); err == nil || !errors.IsArgument(err) {
		t.Errorf("StringValue on integer = %v, want argument error", err)
	}
	if _, err := item.BoolValue(); err == nil {
		t.Error("BoolValue on integer should fail")
	}

	date := MustItem("@1659578233")
	when, err := date.DateValue()
	if err != nil {
		t.Fatalf("DateValue: %v", err)
	}
	if !when.Equal(time.Unix(1659578233, 0)) {
		t.Errorf("DateValue = %v, want 2022-08-04T01:57:13Z", when)
	}

	bytes := MustItem(":YQ==:")
	if v, err := bytes.ByteSequenceValue(); err != nil || string(v) != "a" {
		t.Errorf("ByteSequenceValue = %q (%v), want a", v, err)
	}

	ds := MustItem(`%"f%c3%bc%c3%bcber"`)
	if v, err := ds.DisplayStringValue(); err != nil || v != "füüber" {
		t.Errorf("DisplayStringValue = %q (%v), want füüber", v, err)
	}
}

func TestItemWithValueAndParameters(t *testing.T) {
	base := MustItem("a;x=1")

	tok, err := NewToken("b")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	swapped := base.WithValue(tok)
	if out, _ := swapped.Render(RFC9651); out != "b;x=1" {
		t.Errorf("render after WithValue = %q, want b;x=1", out)
	}
	if out, _ := base.Render(RFC9651); out != "a;x=1" {
		t.Errorf("receiver mutated: %q", out)
	}

	stripped := base.WithParameters(NewParameters())
	if out, _ := stripped.Render(RFC9651); out != "a" {
		t.Errorf("render after stripping parameters = %q, want a", out)
	}

	// Structurally identical updates return the receiver.
	if got := base.WithValue(base.Value()); got != base {
		t.Error("WithValue with the same value returned a new instance")
	}
	if got := base.WithParameters(base.Parameters()); got != base {
		t.Error("WithParameters with the same parameters returned a new instance")
	}
}

func TestItemEqual(t *testing.T) {
	if !MustItem("1.500").Equal(MustItem("1.5")) {
		t.Error("decimals with the same canonical form not equal")
	}
	if !MustItem("0042").Equal(MustItem("42")) {
		t.Error("integers with leading zeros not equal to canonical form")
	}
	if MustItem("a").Equal(MustItem(`"a"`)) {
		t.Error("token and string with the same text compared equal")
	}
	if MustItem("a;x=1").Equal(MustItem("a")) {
		t.Error("parameters should participate in equality")
	}
	if MustItem("1").Equal(MustItem("1.0")) {
		t.Error("integer and decimal compared equal")
	}
}
