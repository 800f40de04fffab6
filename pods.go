/*
Package records – the plain-data ("pods") codec.

ToPlain and RecordType.FromPlain convert between a *Record and a tree of
plain JSON-shaped values (maps, slices, and scalars). The codec walks a
record's declared field types rather than its dynamic Go types, so a
record's plain-data tree is entirely determined by its RecordType.
*/
package records

import (
	"encoding/base64"
	"fmt"
)

func (rt *RecordType) buildCodec() {
	rt.toPlainFn = func(r *Record) (any, error) { return recordToPlain(rt, r) }
	rt.fromPlainFn = func(tree any) (*Record, error) { return recordFromPlain(rt, tree) }
}

// ToPlain renders r as a plain-data tree: nested map[string]any / []any /
// string / float64 / int64 / bool / nil, suitable for json.Marshal or any
// other tree-shaped encoder.
func ToPlain(r *Record) (any, error) { return r.typ.toPlainFn(r) }

// FromPlain reconstructs a record of type rt from a previously-produced
// plain-data tree, re-running the full validation pipeline on every
// field.
func (rt *RecordType) FromPlain(tree any) (*Record, error) { return rt.fromPlainFn(tree) }

func recordToPlain(rt *RecordType, r *Record) (any, error) {
	if r.typ != rt {
		return nil, newCannotBeSerializedToPlainError("record is not an instance of " + rt.name)
	}
	out := make(map[string]any, len(rt.order))
	for i, name := range rt.order {
		spec := rt.fields[name]
		if spec.Nullable() && r.values[i] == nil {
			continue
		}
		pv, err := fieldToPlain(spec, r.values[i])
		if err != nil {
			return nil, wrapCause(err, rt.name+"."+name)
		}
		out[name] = pv
	}
	return out, nil
}

func recordFromPlain(rt *RecordType, tree any) (*Record, error) {
	m, ok := tree.(map[string]any)
	if !ok {
		return nil, newFieldTypeError("expected an object to decode " + rt.name)
	}
	for k := range m {
		if _, ok := rt.fields[k]; !ok {
			return nil, newFieldValueError(fmt.Sprintf("unknown field %q", k), WithField(rt.name, k))
		}
	}
	values := make(map[string]any, len(rt.fields))
	for name, spec := range rt.fields {
		raw, present := m[name]
		if !present || raw == nil {
			continue
		}
		v, err := valueFromPlain(resolvedTypeID(spec.Type()), raw)
		if err != nil {
			return nil, wrapCause(err, rt.name+"."+name)
		}
		values[name] = v
	}
	return rt.New(values)
}

func fieldToPlain(spec *FieldSpec, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return valueToPlain(resolvedTypeID(spec.Type()), value)
}

// valueToPlain encodes value, declared as typ, into its plain-data form.
// nil always maps to nil regardless of typ: nullability is a per-field
// concern, not a per-kind one.
func valueToPlain(typ TypeID, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch t := typ.(type) {
	case Kind:
		return scalarToPlain(t, value)
	case *RecordType:
		rec, ok := value.(*Record)
		if !ok {
			return nil, newCannotBeSerializedToPlainError("expected a " + t.name + " record")
		}
		return recordToPlain(t, rec)
	case *CollectionType:
		return collectionToPlain(t, value)
	case *recursiveCell:
		return valueToPlain(resolvedTypeID(t), value)
	default:
		return nil, newCannotBeSerializedToPlainError("cannot serialize a value of unrecognized type")
	}
}

func scalarToPlain(k Kind, value any) (any, error) {
	if k.isScalar() {
		if k == KindBytes {
			b, ok := value.([]byte)
			if !ok {
				return nil, newCannotBeSerializedToPlainError("expected []byte for a bytes field")
			}
			// The plain-data tree is JSON-shaped, which has no raw-bytes
			// primitive, so bytes travel as base64 text on the wire.
			return base64.StdEncoding.EncodeToString(b), nil
		}
		return value, nil
	}
	m := lookupMarshaller(k)
	if m == nil {
		return nil, newCannotMarshalTypeError("records: no marshaller registered for " + k.typeName())
	}
	return m.ToText(value)
}

func collectionToPlain(ct *CollectionType, value any) (any, error) {
	switch ct.collKind {
	case collSeq, collPair:
		s, ok := value.(*Seq)
		if !ok {
			return nil, newCannotBeSerializedToPlainError("expected a " + ct.name)
		}
		out := make([]any, s.Len())
		for i, it := range s.items {
			pv, err := valueToPlain(resolvedTypeID(ct.elem.Type()), it)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case collSet:
		s, ok := value.(*Set)
		if !ok {
			return nil, newCannotBeSerializedToPlainError("expected a " + ct.name)
		}
		out := make([]any, s.Len())
		for i, it := range s.items {
			pv, err := valueToPlain(resolvedTypeID(ct.elem.Type()), it)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case collDict:
		d, ok := value.(*Dict)
		if !ok {
			return nil, newCannotBeSerializedToPlainError("expected a " + ct.name)
		}
		out := make(map[string]any, d.Len())
		for _, e := range d.entries {
			ks, err := dictKeyToText(ct.key.Type(), e.key)
			if err != nil {
				return nil, err
			}
			vp, err := valueToPlain(resolvedTypeID(ct.value.Type()), e.value)
			if err != nil {
				return nil, err
			}
			out[ks] = vp
		}
		return out, nil
	default:
		return nil, newCannotBeSerializedToPlainError("collection of unrecognized kind")
	}
}

// dictKeyToText renders a dict key to wire text: text keys pass through,
// any other marshallable scalar kind goes through its Marshaller, and a
// key type with neither fails loudly rather than silently stringifying.
func dictKeyToText(keyTyp TypeID, keyValue any) (string, error) {
	k, ok := resolvedTypeID(keyTyp).(Kind)
	if !ok {
		return "", newCannotBeSerializedToPlainError("dict keys must be of a marshallable scalar kind")
	}
	if k == KindText {
		s, ok := keyValue.(string)
		if !ok {
			return "", newCannotBeSerializedToPlainError("expected a text dict key")
		}
		return s, nil
	}
	m := lookupMarshaller(k)
	if m == nil {
		return "", newCannotBeSerializedToPlainError("dict keys of kind " + k.typeName() + " have no marshaller")
	}
	return m.ToText(keyValue)
}

func dictKeyFromText(keyTyp TypeID, s string) (any, error) {
	k, ok := resolvedTypeID(keyTyp).(Kind)
	if !ok {
		return nil, newCannotBeSerializedToPlainError("dict keys must be of a marshallable scalar kind")
	}
	if k == KindText {
		return s, nil
	}
	m := lookupMarshaller(k)
	if m == nil {
		return nil, newCannotBeSerializedToPlainError("dict keys of kind " + k.typeName() + " have no marshaller")
	}
	return m.FromText(s)
}

func valueFromPlain(typ TypeID, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch t := typ.(type) {
	case Kind:
		return scalarFromPlain(t, raw)
	case *RecordType:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, newFieldTypeError("expected an object for " + t.name)
		}
		return t.FromPlain(m)
	case *CollectionType:
		return collectionFromPlain(t, raw)
	case *recursiveCell:
		return valueFromPlain(resolvedTypeID(t), raw)
	default:
		return nil, newFieldTypeError("cannot decode a value of unrecognized type")
	}
}

func scalarFromPlain(k Kind, raw any) (any, error) {
	if k.isScalar() {
		if k == KindBytes {
			s, ok := raw.(string)
			if !ok {
				return nil, newFieldTypeError("expected base64 text for a bytes field")
			}
			return base64.StdEncoding.DecodeString(s)
		}
		return raw, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, newFieldTypeError(fmt.Sprintf("expected text for a marshalled %s field", k.typeName()))
	}
	m := lookupMarshaller(k)
	if m == nil {
		return nil, newCannotMarshalTypeError("records: no marshaller registered for " + k.typeName())
	}
	return m.FromText(s)
}

func collectionFromPlain(ct *CollectionType, raw any) (any, error) {
	switch ct.collKind {
	case collSeq, collPair:
		items, ok := raw.([]any)
		if !ok {
			return nil, newFieldTypeError("expected an array for " + ct.name)
		}
		out := make([]any, len(items))
		for i, it := range items {
			v, err := valueFromPlain(resolvedTypeID(ct.elem.Type()), it)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case collSet:
		items, ok := raw.([]any)
		if !ok {
			return nil, newFieldTypeError("expected an array for " + ct.name)
		}
		out := make([]any, len(items))
		for i, it := range items {
			v, err := valueFromPlain(resolvedTypeID(ct.elem.Type()), it)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case collDict:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, newFieldTypeError("expected an object for " + ct.name)
		}
		out := make(map[any]any, len(m))
		for ks, v := range m {
			k, err := dictKeyFromText(ct.key.Type(), ks)
			if err != nil {
				return nil, err
			}
			vv, err := valueFromPlain(resolvedTypeID(ct.value.Type()), v)
			if err != nil {
				return nil, err
			}
			out[k] = vv
		}
		return out, nil
	default:
		return nil, newFieldTypeError("collection of unrecognized kind")
	}
}
