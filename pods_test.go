package records

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"testing"
)

var podsTestEvent = NewRecordType("PodsTestEvent", map[string]any{
	"title":    KindText,
	"at":       KindDateTime,
	"tags":     SeqOf(KindText, WithNullable(true)),
	"price":    KindDecimal,
	"duration": KindDuration,
	"payload":  KindBytes,
})

var podsTestAddress = NewRecordType("PodsTestAddress", map[string]any{
	"city": KindText,
})

var podsTestPerson = NewRecordType("PodsTestPerson", map[string]any{
	"name":    KindText,
	"address": Compile(podsTestAddress, WithNullable(true)),
	"scores":  DictOf(KindText, KindInt, WithNullable(true)),
})

func TestToPlainFromPlain_ScalarRoundTrip(t *testing.T) {
	ev, err := podsTestEvent.New(map[string]any{
		"title":    "launch",
		"at":       DateTimeOf(time.Date(2026, 7, 31, 9, 30, 0, 0, time.UTC)),
		"tags":     []any{"a", "b"},
		"price":    decimal.NewFromFloat(19.99),
		"duration": 90 * time.Second,
		"payload":  []byte{0xDE, 0xAD, 0xBE, 0xEF},
	})
	assertNoErr(t, err)

	plain, err := ToPlain(ev)
	assertNoErr(t, err)

	back, err := podsTestEvent.FromPlain(plain)
	assertNoErr(t, err)

	if !ev.Equal(back) {
		t.Fatalf("round trip mismatch:\noriginal: %s\ndecoded:  %s", ev, back)
	}
}

func TestToPlain_NullFieldsAreOmitted(t *testing.T) {
	p, err := podsTestPerson.New(map[string]any{"name": "Ada"})
	assertNoErr(t, err)
	plain, err := ToPlain(p)
	assertNoErr(t, err)
	m := plain.(map[string]any)
	if _, present := m["address"]; present {
		t.Fatalf("expected null address to be omitted from plain tree, got %#v", m["address"])
	}
}

func TestFromPlain_NestedRecordAndDict(t *testing.T) {
	tree := map[string]any{
		"name": "Ada",
		"address": map[string]any{
			"city": "London",
		},
		"scores": map[string]any{"math": int64(100), "art": int64(80)},
	}
	p, err := podsTestPerson.FromPlain(tree)
	assertNoErr(t, err)

	back, err := ToPlain(p)
	assertNoErr(t, err)

	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("round trip tree mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPlain_UnknownFieldRejected(t *testing.T) {
	_, err := podsTestPerson.FromPlain(map[string]any{"name": "Ada", "nickname": "Ady"})
	assertErrContains(t, err, `unknown field "nickname"`)
}

func TestDictOf_SerializationRequiresMarshallableKey(t *testing.T) {
	weird := NewRecordType("PodsTestWeirdDict", map[string]any{
		"m": DictOf(recTestPoint, KindInt),
	})
	fs := weird.fields["m"]
	ct := fs.Type().(*CollectionType)
	rec, _ := recTestPoint.New(map[string]any{"x": int64(1), "y": int64(2)})
	d := &Dict{typ: ct, entries: []dictEntry{{key: rec, value: int64(1)}}}
	_, err := collectionToPlain(ct, d)
	assertErrContains(t, err, "marshallable scalar kind")
}
