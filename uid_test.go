package records

import (
	"testing"

	"github.com/cloudxsgmbh/records-go/internal/uid"
)

var uidTestTicket = NewRecordType("UidTestTicket", map[string]any{
	"id":    Compile(KindText, WithCheck(Nonempty)),
	"label": KindText,
})

func TestRecord_RoundTrip_WithGeneratedIdentifiers(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := uid.UID(12)
		if seen[id] {
			t.Fatalf("expected distinct identifiers, got a repeat: %s", id)
		}
		seen[id] = true

		rec, err := uidTestTicket.New(map[string]any{"id": id, "label": "ticket"})
		assertNoErr(t, err)

		plain, err := ToPlain(rec)
		assertNoErr(t, err)
		back, err := uidTestTicket.FromPlain(plain)
		assertNoErr(t, err)

		if !rec.Equal(back) {
			t.Fatalf("round trip mismatch for identifier %s", id)
		}
	}
}

func TestRecord_UUIDShapedIdentifier(t *testing.T) {
	id := uid.UUID()
	rec, err := NewRecordType("UidTestUUIDHolder", map[string]any{
		"uuid": KindText,
	}).New(map[string]any{"uuid": id})
	assertNoErr(t, err)
	v, _ := rec.Get("uuid")
	if v != id {
		t.Fatalf("expected stored uuid to equal generated one, got %#v", v)
	}
}
