package records

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestMarshaller_DateRoundTrip(t *testing.T) {
	m := lookupMarshaller(KindDate)
	d := DateOf(time.Date(2026, 7, 31, 15, 4, 5, 0, time.UTC))
	text, err := m.ToText(d)
	assertNoErr(t, err)
	if text != "2026-07-31" {
		t.Fatalf("unexpected date text: %s", text)
	}
	back, err := m.FromText(text)
	assertNoErr(t, err)
	if back.(Date) != d {
		t.Fatalf("expected round trip to recover %v, got %v", d, back)
	}
}

func TestRegisterMarshaller_ShadowsStandard(t *testing.T) {
	custom := &Marshaller{
		ToText:   func(v any) (string, error) { return "CUSTOM:" + v.(string), nil },
		FromText: func(s string) (any, error) { return s[len("CUSTOM:"):], nil },
	}
	h := RegisterMarshaller(KindText, custom)
	defer UnregisterMarshaller(h)

	text, err := lookupMarshaller(KindText).ToText("hi")
	assertNoErr(t, err)
	if text != "CUSTOM:hi" {
		t.Fatalf("expected custom marshaller to be used, got %s", text)
	}
}

func TestUnregisterMarshaller_RejectsStaleHandle(t *testing.T) {
	m1 := &Marshaller{ToText: func(v any) (string, error) { return "", nil }, FromText: func(string) (any, error) { return nil, nil }}
	m2 := &Marshaller{ToText: func(v any) (string, error) { return "", nil }, FromText: func(string) (any, error) { return nil, nil }}

	h1 := RegisterMarshaller(KindDuration, m1)
	h2 := RegisterMarshaller(KindDuration, m2)

	if err := UnregisterMarshaller(h1); err == nil {
		t.Fatal("expected stale handle h1 to be rejected once h2 replaced it")
	}
	assertNoErr(t, UnregisterMarshaller(h2))

	standard := lookupMarshaller(KindDuration)
	if standard == m1 || standard == m2 {
		t.Fatal("expected the standard duration marshaller to be restored")
	}
}

type marshalTestCelsius struct{ degrees float64 }

func (c marshalTestCelsius) MarshallToText() (string, error) {
	return strconv.FormatFloat(c.degrees, 'f', -1, 64) + "C", nil
}

func (c *marshalTestCelsius) UnmarshallFromText(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "C"), 64)
	if err != nil {
		return err
	}
	c.degrees = v
	return nil
}

func TestMarshallerForDuckType_RoundTrip(t *testing.T) {
	m := MarshallerForDuckType(func() any { return &marshalTestCelsius{} })
	h := RegisterMarshaller(KindDecimal, m)
	defer UnregisterMarshaller(h)

	text, err := lookupMarshaller(KindDecimal).ToText(marshalTestCelsius{degrees: 19.5})
	assertNoErr(t, err)
	if text != "19.5C" {
		t.Fatalf("unexpected duck-typed text: %s", text)
	}

	back, err := lookupMarshaller(KindDecimal).FromText(text)
	assertNoErr(t, err)
	got, ok := back.(*marshalTestCelsius)
	if !ok || got.degrees != 19.5 {
		t.Fatalf("expected round trip to recover 19.5 degrees, got %#v", back)
	}
}

func TestWithTemporaryMarshaller_RestoresOnPanic(t *testing.T) {
	before := lookupMarshaller(KindBool)
	func() {
		defer func() { recover() }()
		_ = WithTemporaryMarshaller(KindBool, &Marshaller{
			ToText:   func(any) (string, error) { return "", nil },
			FromText: func(string) (any, error) { return nil, nil },
		}, func() error {
			panic("boom")
		})
	}()
	if lookupMarshaller(KindBool) != before {
		t.Fatal("expected temporary marshaller to be deregistered even after a panic")
	}
}
