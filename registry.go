/*
Package records – global type registry and rehydration.

A process-wide name → class map populated at compile time, used to
resolve recursive references across compilation boundaries and to
reconstruct instances from their type name. Two classes sharing a simple
name collide; last registration wins, a documented limitation.
*/
package records

import "sync"

// registry is the process-wide name → class map. Class compilation is
// expected to happen during program initialization; this module makes
// no concurrency guarantee for concurrent registrations.
var registry sync.Map // string -> any (*RecordType | *CollectionType)

// Register adds (or overwrites) a name → class entry in the global type
// registry. Called automatically by NewRecordType and the collection
// constructors; exposed for callers building their own rehydration paths.
func Register(name string, class any) {
	registry.Store(name, class)
}

// Lookup resolves a previously registered class by its simple name.
func Lookup(name string) (any, bool) {
	v, ok := registry.Load(name)
	return v, ok
}

// Unpickler returns the rehydration hook for className: a callable that,
// given field values in field order, looks up the class and forwards the
// values to its constructor. This indirection exists because compiled
// record/collection types are not anchored to any source module a
// deserializer could import by path.
func Unpickler(className string) func(values ...any) (*Record, error) {
	return func(values ...any) (*Record, error) {
		class, ok := Lookup(className)
		if !ok {
			return nil, newFieldTypeError("records: no class registered under name " + className)
		}
		rt, ok := class.(*RecordType)
		if !ok {
			return nil, newFieldTypeError("records: class " + className + " is not a record type")
		}
		if len(values) != len(rt.order) {
			return nil, newFieldValueError("records: wrong number of values to rehydrate " + className)
		}
		m := make(map[string]any, len(values))
		for i, name := range rt.order {
			m[name] = values[i]
		}
		return rt.New(m)
	}
}
