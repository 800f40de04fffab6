package records

import "testing"

func TestSeqOf_ValidatesElements(t *testing.T) {
	fs := SeqOf(KindInt)
	v, err := runFieldPipeline(fs, []any{int64(1), int64(2), int64(3)}, "Test", "Test.nums")
	assertNoErr(t, err)
	seq, ok := v.(*Seq)
	if !ok {
		t.Fatalf("expected *Seq, got %T", v)
	}
	if seq.Len() != 3 || seq.At(1) != int64(2) {
		t.Fatalf("unexpected seq contents: %v", seq.Items())
	}
}

func TestSeqOf_RejectsBadElement(t *testing.T) {
	fs := SeqOf(KindInt)
	_, err := runFieldPipeline(fs, []any{int64(1), "nope"}, "Test", "Test.nums")
	assertErrContains(t, err, "should be of type int")
}

func TestSeqOf_DistinctTypesPerCallSite(t *testing.T) {
	a := SeqOf(KindInt)
	b := SeqOf(KindInt)
	if a.Type() == b.Type() {
		t.Fatal("two independent SeqOf(KindInt) calls must mint distinct nominal types")
	}
}

func TestPairOf_RequiresExactlyTwo(t *testing.T) {
	fs := PairOf(KindInt)
	_, err := runFieldPipeline(fs, []any{int64(1), int64(2), int64(3)}, "Test", "Test.pair")
	assertErrContains(t, err, "must have exactly 2 elements")

	v, err := runFieldPipeline(fs, []any{int64(1), int64(2)}, "Test", "Test.pair")
	assertNoErr(t, err)
	if v.(*Seq).Len() != 2 {
		t.Fatal("expected a 2-element pair")
	}
}

func TestSetOf_DedupsAndSorts(t *testing.T) {
	fs := SetOf(KindInt)
	v, err := runFieldPipeline(fs, []any{int64(3), int64(1), int64(2), int64(1)}, "Test", "Test.set")
	assertNoErr(t, err)
	set := v.(*Set)
	if set.Len() != 3 {
		t.Fatalf("expected 3 distinct elements, got %d", set.Len())
	}
	items := set.Items()
	if items[0] != int64(1) || items[1] != int64(2) || items[2] != int64(3) {
		t.Fatalf("expected sorted order, got %v", items)
	}
}

func TestSetOf_Equality(t *testing.T) {
	fs := SetOf(KindInt)
	a, _ := runFieldPipeline(fs, []any{int64(1), int64(2)}, "Test", "Test.set")
	b, _ := runFieldPipeline(fs, []any{int64(2), int64(1)}, "Test", "Test.set")
	if !valuesEqual(a, b) {
		t.Fatal("sets with the same elements in different input order should be equal")
	}
}

func TestDictOf_ValidatesKeysAndValues(t *testing.T) {
	fs := DictOf(KindText, KindInt)
	v, err := runFieldPipeline(fs, map[string]any{"a": int64(1), "b": int64(2)}, "Test", "Test.dict")
	assertNoErr(t, err)
	d := v.(*Dict)
	if d.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", d.Len())
	}
	val, ok := d.Get("a")
	if !ok || val != int64(1) {
		t.Fatalf("expected a=1, got %#v (ok=%v)", val, ok)
	}
}

func TestDictOf_RejectsBadValue(t *testing.T) {
	fs := DictOf(KindText, KindInt)
	_, err := runFieldPipeline(fs, map[string]any{"a": "not an int"}, "Test", "Test.dict")
	assertErrContains(t, err, "should be of type int")
}

func TestCollections_NullableAbsentStaysNull(t *testing.T) {
	fs := SeqOf(KindInt, WithNullable(true))
	v, err := runFieldPipeline(fs, nil, "Test", "Test.nums")
	assertNoErr(t, err)
	if v != nil {
		t.Fatalf("expected nil, got %#v", v)
	}
}
