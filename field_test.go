package records

import (
	"strings"
	"testing"
)

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error containing %q, got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %q", substr, err.Error())
	}
}

func TestCompile_IdentityWhenAlreadyCompiled(t *testing.T) {
	fs := Compile(KindInt)
	again := Compile(fs)
	if fs != again {
		t.Fatal("Compile on an already-compiled *FieldSpec with no options should return it unchanged")
	}
}

func TestCompile_DeriveAppliesOptions(t *testing.T) {
	fs := Compile(KindInt)
	nullableFs := Compile(fs, WithNullable(true), WithDefault(int64(7)))
	if fs.Nullable() {
		t.Fatal("original spec should be unaffected")
	}
	if !nullableFs.Nullable() || nullableFs.Default() != int64(7) {
		t.Fatal("derived spec should carry the new options")
	}
}

func TestRunFieldPipeline_NonNullableRejectsNull(t *testing.T) {
	spec := Compile(KindInt)
	_, err := runFieldPipeline(spec, nil, "Point", "Point.x")
	assertErrContains(t, err, "cannot be null")
}

func TestRunFieldPipeline_NullableUsesDefault(t *testing.T) {
	spec := Compile(KindInt, WithNullable(true), WithDefault(int64(42)))
	v, err := runFieldPipeline(spec, nil, "Point", "Point.x")
	assertNoErr(t, err)
	if v != int64(42) {
		t.Fatalf("expected default 42, got %#v", v)
	}
}

func TestRunFieldPipeline_NullableWithoutDefaultStaysNull(t *testing.T) {
	spec := Compile(KindInt, WithNullable(true))
	v, err := runFieldPipeline(spec, nil, "Point", "Point.x")
	assertNoErr(t, err)
	if v != nil {
		t.Fatalf("expected nil, got %#v", v)
	}
}

func TestRunFieldPipeline_IdentityCoercionSkipsTypeCheck(t *testing.T) {
	spec := Compile(KindInt, WithFieldCoerce(CoerceInt))
	v, err := runFieldPipeline(spec, "123", "Point", "Point.x")
	assertNoErr(t, err)
	if v != int64(123) {
		t.Fatalf("expected coerced int64(123), got %#v", v)
	}
}

func TestRunFieldPipeline_TypeMismatchFails(t *testing.T) {
	spec := Compile(KindInt)
	_, err := runFieldPipeline(spec, "not an int", "Point", "Point.x")
	assertErrContains(t, err, "should be of type int")
}

func TestRunFieldPipeline_PredicateCheckFails(t *testing.T) {
	spec := Compile(KindInt, WithCheck(StrictlyPositive))
	_, err := runFieldPipeline(spec, int64(-1), "Point", "Point.x")
	assertErrContains(t, err, "not a valid value")
}

func TestRunFieldPipeline_FloatPromotesFromInt(t *testing.T) {
	spec := Compile(KindFloat)
	v, err := runFieldPipeline(spec, int64(3), "Point", "Point.x")
	assertNoErr(t, err)
	if v != float64(3) {
		t.Fatalf("expected promoted float64(3), got %#v", v)
	}
}

func TestFieldSpec_String(t *testing.T) {
	fs := Compile(KindText, WithNullable(true), WithDefault("hi"))
	s := fs.String()
	if !strings.Contains(s, "text") || !strings.Contains(s, "nullable=true") {
		t.Fatalf("unexpected String() rendering: %s", s)
	}
}
