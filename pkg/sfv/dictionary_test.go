package sfv

import (
	"strings"
	"testing"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

func TestDictionaryFromPairs(t *testing.T) {
	dict, err := DictionaryFromPairs(
		Pair{"a", 1},
		Pair{"b", MustItem("x")},
		Pair{"c", []any{1, 2, 3}},
		Pair{"a", "last"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dict.Len() != 3 {
		t.Fatalf("length = %d, want 3", dict.Len())
	}
	if keys := dict.Keys(); keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("keys = %v, want [a b c]", dict.Keys())
	}

	a, _ := dict.ByKey("a")
	if s, err := a.(*Item).StringValue(); err != nil || s != "last" {
		t.Errorf("a = %q (%v), want last", s, err)
	}

	// Plain slices coerce to inner lists.
	c, _ := dict.ByKey("c")
	if inner, ok := c.(*InnerList); !ok || inner.Len() != 3 {
		t.Errorf("c = %T, want inner list of three", c)
	}
}

func TestDictionaryRejectsNestedContainers(t *testing.T) {
	_, err := DictionaryFromPairs(Pair{"a", MustDictionary("x=1")})
	if err == nil || !errors.IsArgument(err) {
		t.Errorf("dictionary value accepted (%v), want argument error", err)
	}
	_, err = DictionaryFromPairs(Pair{"a", []any{[]any{1}}})
	if err == nil || !errors.IsArgument(err) {
		t.Errorf("nested sequence accepted (%v), want argument error", err)
	}
}

func TestDictionaryQueries(t *testing.T) {
	dict := MustDictionary("a=1, b=(x y), c;p=2")

	if !dict.HasKeys("a", "c") {
		t.Error("HasKeys should find a and c")
	}
	if dict.HasKeys("a", "zzz") {
		t.Error("HasKeys should reject when any key is missing")
	}

	if _, err := dict.ByKey("zzz"); err == nil || !errors.IsOffset(err) {
		t.Errorf("ByKey(zzz) = %v, want offset error", err)
	}

	if i, ok := dict.IndexByKey("b"); !ok || i != 1 {
		t.Errorf("IndexByKey(b) = %d/%v, want 1/true", i, ok)
	}
	if key, ok := dict.KeyByIndex(-1); !ok || key != "c" {
		t.Errorf("KeyByIndex(-1) = %q/%v, want c/true", key, ok)
	}

	key, _, ok := dict.First()
	if !ok || key != "a" {
		t.Errorf("First = %q, want a", key)
	}
	key, member, ok := dict.Last()
	if !ok || key != "c" {
		t.Errorf("Last = %q, want c", key)
	}
	if v, err := member.(*Item).BoolValue(); err != nil || !v {
		t.Errorf("last member = %v, want boolean true", member)
	}

	if _, _, ok := NewDictionary().First(); ok {
		t.Error("First on empty dictionary should report absence")
	}
}

func TestDictionaryAll(t *testing.T) {
	dict := MustDictionary("a=1, b=2, c=3")

	var seen []string
	for key, member := range dict.All() {
		n, _ := member.(*Item).IntValue()
		if int64(len(seen)+1) != n {
			t.Errorf("member %s out of order", key)
		}
		seen = append(seen, key)
	}
	if strings.Join(seen, "") != "abc" {
		t.Errorf("traversal order = %v, want [a b c]", seen)
	}

	total := Reduce(dict.All(), func(acc int64, _ string, m Member) int64 {
		n, _ := m.(*Item).IntValue()
		return acc + n
	}, 0)
	if total != 6 {
		t.Errorf("Reduce sum = %d, want 6", total)
	}

	upper := Map(dict.All(), func(key string, _ Member) string {
		return strings.ToUpper(key)
	})
	if len(upper) != 3 || upper[0] != "A" {
		t.Errorf("Map result = %v, want [A B C]", upper)
	}
}

func TestDictionaryMutators(t *testing.T) {
	base := MustDictionary("a=1, b=2")

	pushed, err := base.Push(Pair{"c", 3}, Pair{"a", 9})
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	// Push rebuilds from the full pair stream: first position, last value.
	if keys := pushed.Keys(); len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("keys after Push = %v, want [a b c]", pushed.Keys())
	}
	a, _ := pushed.ByKey("a")
	if v, _ := a.(*Item).IntValue(); v != 9 {
		t.Errorf("a = %d, want 9", v)
	}

	unshifted, err := base.Unshift(Pair{"z", 0})
	if err != nil {
		t.Fatalf("Unshift: %v", err)
	}
	if key, _ := unshifted.KeyByIndex(0); key != "z" {
		t.Errorf("first key after Unshift = %q, want z", key)
	}

	inserted, err := base.Insert(-1, Pair{"m", 5})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if keys := inserted.Keys(); keys[0] != "a" || keys[1] != "m" || keys[2] != "b" {
		t.Errorf("keys after Insert(-1) = %v, want [a m b]", inserted.Keys())
	}

	replaced, err := base.Replace(0, Pair{"x", 7})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if keys := replaced.Keys(); keys[0] != "x" || keys[1] != "b" {
		t.Errorf("keys after Replace = %v, want [x b]", replaced.Keys())
	}

	removed := base.RemoveByKeys("a", "zzz")
	if removed.Len() != 1 || !removed.HasKeys("b") {
		t.Errorf("RemoveByKeys left %v, want [b]", removed.Keys())
	}

	byIdx := base.RemoveByIndices(-1)
	if byIdx.Len() != 1 || !byIdx.HasKeys("a") {
		t.Errorf("RemoveByIndices(-1) left %v, want [a]", byIdx.Keys())
	}

	if keys := base.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("receiver mutated: %v", keys)
	}
}

func TestDictionaryMergePolicy(t *testing.T) {
	base := MustDictionary("a=1, b=2")
	merged := base.MergeAssociative(MustDictionary("b=9, c=3"))

	if keys := merged.Keys(); len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("keys = %v, want [a b c]", merged.Keys())
	}
	b, _ := merged.ByKey("b")
	if v, _ := b.(*Item).IntValue(); v != 9 {
		t.Errorf("b = %d, want 9", v)
	}

	out, err := merged.Render(RFC9651)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "a=1, b=9, c=3" {
		t.Errorf("render = %q, want a=1, b=9, c=3", out)
	}
}

func TestDictionaryNoOpIdentity(t *testing.T) {
	base := MustDictionary("a=1, b=2")

	if got, err := base.Add("a", 1); err != nil || got != base {
		t.Error("Add with identical entry returned a new instance")
	}
	if got := base.RemoveByKeys("zzz"); got != base {
		t.Error("RemoveByKeys with absent key returned a new instance")
	}
	if got := base.MergeAssociative(NewDictionary()); got != base {
		t.Error("merge with empty returned a new instance")
	}
	if got := base.Filter(func(string, Member) bool { return true }); got != base {
		t.Error("Filter keeping everything returned a new instance")
	}

	sorted := base.Sort(func(aKey string, _ Member, bKey string, _ Member) bool {
		return aKey < bKey
	})
	if sorted != base {
		t.Error("Sort of an already-sorted dictionary returned a new instance")
	}
}

func TestDictionaryFilterSort(t *testing.T) {
	dict := MustDictionary("c=3, a=1, b=2")

	small := dict.Filter(func(_ string, m Member) bool {
		n, err := m.(*Item).IntValue()
		return err == nil && n < 3
	})
	if keys := small.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("filtered keys = %v, want [a b]", small.Keys())
	}

	sorted := dict.Sort(func(aKey string, _ Member, bKey string, _ Member) bool {
		return aKey < bKey
	})
	if keys := sorted.Keys(); keys[0] != "a" || keys[2] != "c" {
		t.Errorf("sorted keys = %v, want [a b c]", sorted.Keys())
	}
}

func TestDictionaryEqual(t *testing.T) {
	a := MustDictionary("a=1, b=(x y);q=0.5")
	b := MustDictionary("a=1,   b=( x  y );q=0.5")
	c := MustDictionary("b=(x y);q=0.5, a=1")

	if !a.Equal(b) {
		t.Error("dictionaries with the same canonical form not equal")
	}
	if a.Equal(c) {
		t.Error("member order should matter for equality")
	}
}
