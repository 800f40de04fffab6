/*
Package records – scalar value helpers: Go-side representations for the
marshalled scalar kinds (date, datetime, duration, decimal), type-check
and promotion plumbing, and the structural equality/ordering/hash used by
Record and the collection types.
*/
package records

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Date represents a marshalled KindDate value: a calendar date with no
// time-of-day or zone component.
type Date struct {
	Year, Month, Day int
}

// DateOf truncates t to a calendar date in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DateTime represents a marshalled KindDateTime value truncated to whole
// seconds with no timezone.
type DateTime struct {
	Year, Month, Day, Hour, Minute, Second int
}

// DateTimeOf truncates t to whole seconds in its own location, dropping
// any timezone / fractional-second information.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

func (dt DateTime) toTime() time.Time {
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second, 0, time.UTC)
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
}

// --- type-check plumbing -----------------------------------------------------

// typeMatches reports whether value is a valid instance of the declared
// (already-resolved) type.
func typeMatches(typ TypeID, value any) bool {
	switch t := typ.(type) {
	case Kind:
		return kindMatches(t, value)
	case *RecordType:
		rec, ok := value.(*Record)
		return ok && rec.typ == t
	case *CollectionType:
		switch t.collKind {
		case collSeq, collPair:
			s, ok := value.(*Seq)
			return ok && s.typ == t
		case collSet:
			s, ok := value.(*Set)
			return ok && s.typ == t
		case collDict:
			d, ok := value.(*Dict)
			return ok && d.typ == t
		}
		return false
	case *recursiveCell:
		if t.resolved == nil {
			return false
		}
		return typeMatches(t.resolved, value)
	default:
		return false
	}
}

func kindMatches(k Kind, value any) bool {
	switch k {
	case KindInt:
		_, ok := value.(int64)
		return ok
	case KindFloat:
		_, ok := value.(float64)
		return ok
	case KindBool:
		_, ok := value.(bool)
		return ok
	case KindText:
		_, ok := value.(string)
		return ok
	case KindBytes:
		_, ok := value.([]byte)
		return ok
	case KindDate:
		_, ok := value.(Date)
		return ok
	case KindDateTime:
		_, ok := value.(DateTime)
		return ok
	case KindDuration:
		_, ok := value.(time.Duration)
		return ok
	case KindDecimal:
		_, ok := value.(decimal.Decimal)
		return ok
	default:
		return false
	}
}

func goKindName(value any) string {
	return fmt.Sprintf("%T", value)
}

// toInt64 converts an int64, int, int32, float64 (truncated toward
// zero), or decimal-integer string to int64, for use by the built-in int
// coercion.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		var out int64
		if _, err := fmt.Sscanf(n, "%d", &out); err != nil {
			return 0, newFieldTypeError(fmt.Sprintf("cannot coerce %#v to int", v))
		}
		return out, nil
	default:
		return 0, newFieldTypeError(fmt.Sprintf("cannot coerce %#v to int", v))
	}
}

// asFloatFromInt reports whether v is one of Go's native integer kinds
// and, if so, its float64 widening: the one implicit scalar promotion
// allowed, an int value on a float-typed field.
func asFloatFromInt(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		var out float64
		if _, err := fmt.Sscanf(n, "%g", &out); err != nil {
			return 0, newFieldTypeError(fmt.Sprintf("cannot coerce %#v to float", v))
		}
		return out, nil
	default:
		return 0, newFieldTypeError(fmt.Sprintf("cannot coerce %#v to float", v))
	}
}

// --- structural equality & ordering ------------------------------------------

// valuesEqual is the structural equality used by Record.Equal and by Set
// deduplication / Dict key lookup. nil == nil; any other pairing of
// different dynamic types is unequal.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case *Record:
		bv, ok := b.(*Record)
		return ok && av.Equal(bv)
	case *Seq:
		bv, ok := b.(*Seq)
		return ok && av.equal(bv)
	case *Set:
		bv, ok := b.(*Set)
		return ok && av.equal(bv)
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av.equal(bv)
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

// valuesCompare provides the total ordering used by Record.Compare and by
// Set's sorted textual/codec form. Values are assumed to be of the same
// dynamic type (callers only ever compare same-Kind/same-class values).
func valuesCompare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case int64:
		bv := b.(int64)
		return cmpOrdered(av, bv)
	case float64:
		bv := b.(float64)
		return cmpOrdered(av, bv)
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case string:
		bv := b.(string)
		return cmpOrdered(av, bv)
	case []byte:
		return bytes.Compare(av, b.([]byte))
	case Date:
		return cmpOrdered(av.toTime().Unix(), b.(Date).toTime().Unix())
	case DateTime:
		return cmpOrdered(av.toTime().Unix(), b.(DateTime).toTime().Unix())
	case time.Duration:
		return cmpOrdered(int64(av), int64(b.(time.Duration)))
	case decimal.Decimal:
		return av.Cmp(b.(decimal.Decimal))
	case *Record:
		return av.Compare(b.(*Record))
	case *Seq:
		return av.compare(b.(*Seq))
	default:
		if valuesEqual(a, b) {
			return 0
		}
		return -1
	}
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
