package sfv

import (
	"testing"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

func TestInnerListFromValues(t *testing.T) {
	inner, err := InnerListFromValues("a", 1, MustItem("b;x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Len() != 3 {
		t.Fatalf("length = %d, want 3", inner.Len())
	}
	out, err := inner.Render(RFC9651)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `("a" 1 b;x)` {
		t.Errorf("render = %q", out)
	}
}

func TestInnerListRejectsNesting(t *testing.T) {
	if _, err := InnerListFromValues(NewInnerList()); err == nil || !errors.IsArgument(err) {
		t.Errorf("nested inner list accepted (%v), want argument error", err)
	}
	if _, err := InnerListFromValues([]any{1}); err == nil || !errors.IsArgument(err) {
		t.Errorf("nested sequence accepted (%v), want argument error", err)
	}
	if _, err := InnerListFromValues(MustList("a")); err == nil || !errors.IsArgument(err) {
		t.Errorf("list member accepted (%v), want argument error", err)
	}
}

func TestInnerListParameters(t *testing.T) {
	params, err := ParametersFromPairs(Pair{"q", 0.5}, Pair{"x", true})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	inner, err := InnerListFromValues("a", "b")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	inner = inner.WithParameters(params)

	out, err := inner.Render(RFC9651)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `("a" "b");q=0.5;x` {
		t.Errorf("render = %q", out)
	}

	q, err := inner.ParameterByKey("q")
	if err != nil {
		t.Fatalf("ParameterByKey: %v", err)
	}
	if dec, ok := q.(Decimal); !ok || dec.Float64() != 0.5 {
		t.Errorf("q = %v, want decimal 0.5", q)
	}

	key, _, err := inner.ParameterByIndex(-1)
	if err != nil || key != "x" {
		t.Errorf("ParameterByIndex(-1) = %q (%v), want x", key, err)
	}
}

func TestInnerListMutators(t *testing.T) {
	base := MustList("(a b)")
	inner, _ := base.ByIndex(0)
	il := inner.(*InnerList)

	pushed, err := il.Push("c")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if out, _ := pushed.Render(RFC9651); out != "(a b c)" {
		t.Errorf("render after Push = %q, want (a b c)", out)
	}

	replaced, err := il.Replace(-2, MustItem("z"))
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if out, _ := replaced.Render(RFC9651); out != "(z b)" {
		t.Errorf("render after Replace = %q, want (z b)", out)
	}

	removed := il.RemoveByIndices(0, 1)
	if !removed.IsEmpty() {
		t.Error("removing every item should leave an empty inner list")
	}
	if out, _ := removed.Render(RFC9651); out != "()" {
		t.Errorf("empty inner list renders %q, want ()", out)
	}

	// Parameters survive positional edits.
	withParams := MustList("(a b);v=1")
	inner2, _ := withParams.ByIndex(0)
	edited, err := inner2.(*InnerList).Push("c")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if out, _ := edited.Render(RFC9651); out != "(a b c);v=1" {
		t.Errorf("render = %q, want (a b c);v=1", out)
	}
}

func TestInnerListNoOpIdentity(t *testing.T) {
	inner, err := InnerListFromValues("a", "b")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := inner.RemoveByIndices(9); got != inner {
		t.Error("RemoveByIndices out of range returned a new instance")
	}
	if got := inner.Filter(func(int, *Item) bool { return true }); got != inner {
		t.Error("Filter keeping everything returned a new instance")
	}
	if got := inner.WithParameters(NewParameters()); got != inner {
		t.Error("WithParameters with equal parameters returned a new instance")
	}
}

func TestInnerListEqual(t *testing.T) {
	a := MustList("(1 2);q").members[0]
	b := MustList("( 1  2 );q").members[0]
	c := MustList("(2 1);q").members[0]

	if !a.Equal(b) {
		t.Error("inner lists with the same canonical form not equal")
	}
	if a.Equal(c) {
		t.Error("item order should matter for equality")
	}
	if a.Equal(MustItem("1")) {
		t.Error("inner list should never equal an item")
	}
}
