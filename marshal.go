/*
Package records – marshaller registry.

A Marshaller pairs a ToText/FromText function for one Kind. A standard
set covers the built-in marshalled kinds (date, datetime, duration,
decimal); RegisterMarshaller/UnregisterMarshaller/WithTemporaryMarshaller
let callers shadow or extend that set, including for custom duck-typed
scalar types via DuckTyped/DuckTypedPtr.
*/
package records

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Marshaller converts a scalar value to and from its canonical textual
// form, for the scalar Kinds whose wire form is a string.
type Marshaller struct {
	ToText   func(any) (string, error)
	FromText func(string) (any, error)
}

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02T15:04:05"
)

var standardMarshallers = map[Kind]*Marshaller{
	KindInt: {
		ToText:   func(v any) (string, error) { return strconv.FormatInt(v.(int64), 10), nil },
		FromText: func(s string) (any, error) { return strconv.ParseInt(s, 10, 64) },
	},
	KindFloat: {
		ToText:   func(v any) (string, error) { return strconv.FormatFloat(v.(float64), 'g', -1, 64), nil },
		FromText: func(s string) (any, error) { return strconv.ParseFloat(s, 64) },
	},
	KindBool: {
		ToText:   func(v any) (string, error) { return strconv.FormatBool(v.(bool)), nil },
		FromText: func(s string) (any, error) { return strconv.ParseBool(s) },
	},
	KindText: {
		ToText:   func(v any) (string, error) { return v.(string), nil },
		FromText: func(s string) (any, error) { return s, nil },
	},
	KindDate: {
		ToText: func(v any) (string, error) { return v.(Date).String(), nil },
		FromText: func(s string) (any, error) {
			t, err := time.Parse(dateFormat, s)
			if err != nil {
				return nil, err
			}
			return DateOf(t), nil
		},
	},
	KindDateTime: {
		ToText: func(v any) (string, error) { return v.(DateTime).String(), nil },
		FromText: func(s string) (any, error) {
			t, err := time.Parse(dateTimeFormat, s)
			if err != nil {
				return nil, err
			}
			return DateTimeOf(t), nil
		},
	},
	KindDuration: {
		ToText: func(v any) (string, error) {
			s := strconv.FormatFloat(v.(time.Duration).Seconds(), 'f', -1, 64)
			if !strings.Contains(s, ".") {
				s += ".0"
			}
			return s, nil
		},
		FromText: func(s string) (any, error) {
			secs, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, err
			}
			return time.Duration(secs * float64(time.Second)), nil
		},
	},
	KindDecimal: {
		ToText:   func(v any) (string, error) { return v.(decimal.Decimal).String(), nil },
		FromText: func(s string) (any, error) { return decimal.NewFromString(s) },
	},
}

// customMarshallers holds user-registered marshallers, keyed by Kind.
// Record fields of the primitive scalar Kinds pass through the codec
// untouched and never consult this registry; the marshalled kinds
// (date/datetime/duration/decimal, or a user's own Kind-like
// registration) always do, and so do non-text scalar dict keys.
var customMarshallers = map[Kind]*Marshaller{}

// marshallerHandle is the token returned by RegisterMarshaller, so
// UnregisterMarshaller can verify it is removing the same registration it
// was handed.
type marshallerHandle struct {
	kind Kind
	m    *Marshaller
}

// RegisterMarshaller installs a custom marshaller for kind, shadowing any
// standard one, and returns a handle for later removal.
func RegisterMarshaller(kind Kind, m *Marshaller) *marshallerHandle {
	customMarshallers[kind] = m
	return &marshallerHandle{kind: kind, m: m}
}

// UnregisterMarshaller removes h's registration, but only if it is still
// the one currently installed.
func UnregisterMarshaller(h *marshallerHandle) error {
	if customMarshallers[h.kind] != h.m {
		return newCannotMarshalTypeError("records: marshaller for " + h.kind.typeName() + " was already replaced or removed")
	}
	delete(customMarshallers, h.kind)
	return nil
}

// WithTemporaryMarshaller registers m for kind for the duration of fn,
// guaranteeing deregistration on every exit path including panic.
func WithTemporaryMarshaller(kind Kind, m *Marshaller, fn func() error) error {
	h := RegisterMarshaller(kind, m)
	defer func() { _ = UnregisterMarshaller(h) }()
	return fn()
}

// lookupMarshaller resolves the marshaller for kind, preferring a custom
// registration over the standard one.
func lookupMarshaller(kind Kind) *Marshaller {
	if m, ok := customMarshallers[kind]; ok {
		return m
	}
	return standardMarshallers[kind]
}

// DuckTyped is the interface a Go value's type may implement to have a
// Marshaller synthesized from it for encoding.
type DuckTyped interface {
	MarshallToText() (string, error)
}

// DuckTypedPtr is the pointer-receiver counterpart DuckTyped values must
// also support, for decoding: a fresh zero value's UnmarshallFromText
// populates it from wire text.
type DuckTypedPtr interface {
	UnmarshallFromText(string) error
}

// MarshallerForDuckType synthesizes a Marshaller for a custom scalar
// Kind from newZero, a factory returning a fresh instance of the
// concrete type: the instance must implement DuckTyped for ToText and,
// as a pointer, DuckTypedPtr for FromText. Register the result with
// RegisterMarshaller under the Kind declared for that field.
func MarshallerForDuckType(newZero func() any) *Marshaller {
	return &Marshaller{
		ToText: func(v any) (string, error) {
			dt, ok := v.(DuckTyped)
			if !ok {
				return "", newCannotMarshalTypeError("records: value does not implement DuckTyped")
			}
			return dt.MarshallToText()
		},
		FromText: func(s string) (any, error) {
			z := newZero()
			dtp, ok := z.(DuckTypedPtr)
			if !ok {
				return nil, newCannotMarshalTypeError("records: zero value does not implement DuckTypedPtr")
			}
			if err := dtp.UnmarshallFromText(s); err != nil {
				return nil, err
			}
			return z, nil
		},
	}
}
