package records

import "testing"

var builderTestPoint = NewRecordType("BuilderTestPoint", map[string]any{
	"x": KindInt,
	"y": KindInt,
})

type builderTestPointMarker struct{}

func (builderTestPointMarker) RecordType() *RecordType { return builderTestPoint }

func TestBuilder_SetThenBuild(t *testing.T) {
	rec, err := NewBuilder(builderTestPoint).
		Set("x", int64(1)).
		Set("y", int64(2)).
		Build()
	assertNoErr(t, err)
	x, _ := rec.Get("x")
	y, _ := rec.Get("y")
	if x != int64(1) || y != int64(2) {
		t.Fatalf("unexpected built record: x=%#v y=%#v", x, y)
	}
}

func TestBuilder_FromDoesNotOverrideExplicitSet(t *testing.T) {
	rec, err := NewBuilder(builderTestPoint).
		Set("x", int64(99)).
		From(FromMap(map[string]any{"x": int64(1), "y": int64(2)})).
		Build()
	assertNoErr(t, err)
	x, _ := rec.Get("x")
	y, _ := rec.Get("y")
	if x != int64(99) {
		t.Fatalf("expected explicit Set to win, got x=%#v", x)
	}
	if y != int64(2) {
		t.Fatalf("expected y sourced from map, got %#v", y)
	}
}

func TestBuild_Generic(t *testing.T) {
	rec, err := Build[builderTestPointMarker](FromMap(map[string]any{"x": int64(3), "y": int64(4)}))
	assertNoErr(t, err)
	x, _ := rec.Get("x")
	if x != int64(3) {
		t.Fatalf("expected x=3, got %#v", x)
	}
}
