package records

import "testing"

var cleanerTestAddress = NewRecordType("CleanerTestAddress", map[string]any{
	"city": KindText,
})

var cleanerTestPerson = NewRecordType("CleanerTestPerson", map[string]any{
	"name":    KindText,
	"email":   Compile(KindText, WithNullable(true)),
	"address": Compile(cleanerTestAddress, WithNullable(true)),
})

func TestCleaner_TrimsWhitespace(t *testing.T) {
	c := NewCleaner(cleanerTestPerson)
	rec, err := c.Clean(map[string]any{"name": "  Ada Lovelace  "})
	assertNoErr(t, err)
	name, _ := rec.Get("name")
	if name != "Ada Lovelace" {
		t.Fatalf("expected trimmed name, got %#v", name)
	}
}

func TestCleaner_BlankBecomesNullOnNullableField(t *testing.T) {
	c := NewCleaner(cleanerTestPerson)
	rec, err := c.Clean(map[string]any{"name": "Ada", "email": "   "})
	assertNoErr(t, err)
	email, _ := rec.Get("email")
	if email != nil {
		t.Fatalf("expected blank email to become nil, got %#v", email)
	}
}

func TestCleaner_DropsUnknownKeysInNestedRecord(t *testing.T) {
	c := NewCleaner(cleanerTestPerson)
	rec, err := c.Clean(map[string]any{
		"name": "Ada",
		"address": map[string]any{
			"city":    "London",
			"country": "UK",
		},
	})
	assertNoErr(t, err)
	addr, _ := rec.Get("address")
	_ = addr.(*Record)
}
