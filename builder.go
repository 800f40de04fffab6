/*
Package records – generic record builder.

A staged way to assemble a record's fields from one or more sources
before binding them all at once. The Typed interface associates a marker
type with its target RecordType explicitly, and Build is a generic
function parameterized on that marker type.
*/
package records

// FieldSource supplies a named field's raw value, used by Build and by
// Builder.From to pull values from something other than a plain map
// (e.g. another record, a form object, a row scanner).
type FieldSource interface {
	FieldValue(name string) (any, bool)
}

type mapSource map[string]any

func (m mapSource) FieldValue(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// FromMap adapts a plain map into a FieldSource.
func FromMap(m map[string]any) FieldSource { return mapSource(m) }

// Builder accumulates field values from one or more sources before
// producing a record in a single New call.
type Builder struct {
	rt     *RecordType
	values map[string]any
}

// NewBuilder starts building a record of type rt.
func NewBuilder(rt *RecordType) *Builder {
	return &Builder{rt: rt, values: map[string]any{}}
}

// Set stages a single field value, overriding anything staged for name
// so far.
func (b *Builder) Set(name string, value any) *Builder {
	b.values[name] = value
	return b
}

// From stages every field rt declares that src can supply, without
// overriding fields already staged by an earlier Set or From call.
func (b *Builder) From(src FieldSource) *Builder {
	for name := range b.rt.fields {
		if _, already := b.values[name]; already {
			continue
		}
		if v, ok := src.FieldValue(name); ok {
			b.values[name] = v
		}
	}
	return b
}

// Build runs the full per-field pipeline over everything staged so far.
func (b *Builder) Build() (*Record, error) {
	return b.rt.New(b.values)
}

// Typed is implemented by a Go marker type that knows which RecordType
// it builds, letting Build infer the schema from its type parameter
// instead of a value passed at the call site.
type Typed interface {
	RecordType() *RecordType
}

// Build constructs a record of the type described by T (which must
// implement Typed on its zero value) by pulling every declared field
// out of src.
func Build[T Typed](src FieldSource) (*Record, error) {
	var zero T
	rt := zero.RecordType()
	values := make(map[string]any, len(rt.fields))
	for name := range rt.fields {
		if v, ok := src.FieldValue(name); ok {
			values[name] = v
		}
	}
	return rt.New(values)
}
