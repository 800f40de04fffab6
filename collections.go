/*
Package records – typed collection constructors.

SeqOf, PairOf, SetOf, and DictOf each mint their own nominal
*CollectionType at the call site (two SeqOf(KindInt) calls are distinct
types), named from their element/key/value Kinds: "IntSeq", "IntPair",
"IntSet", "TextToIntDict".
*/
package records

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

type collKindT int

const (
	collSeq collKindT = iota
	collPair
	collSet
	collDict
)

// CollectionType is the compiled schema for one call to SeqOf, PairOf,
// SetOf, or DictOf.
type CollectionType struct {
	name     string
	collKind collKindT
	elem     *FieldSpec
	key      *FieldSpec
	value    *FieldSpec
}

func (t *CollectionType) typeName() string { return t.name }

// Name returns the collection type's synthesized name.
func (t *CollectionType) Name() string { return t.name }

// ElementField returns the element spec for Seq/Pair/Set collections.
func (t *CollectionType) ElementField() *FieldSpec { return t.elem }

// KeyField returns the key spec for a Dict collection.
func (t *CollectionType) KeyField() *FieldSpec { return t.key }

// ValueField returns the value spec for a Dict collection.
func (t *CollectionType) ValueField() *FieldSpec { return t.value }

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func collectionTypeName(kind collKindT, elemName, keyName, valName string) string {
	switch kind {
	case collSeq:
		return ucfirst(elemName) + "Seq"
	case collPair:
		return ucfirst(elemName) + "Pair"
	case collSet:
		return ucfirst(elemName) + "Set"
	case collDict:
		return ucfirst(keyName) + "To" + ucfirst(valName) + "Dict"
	default:
		return "Collection"
	}
}

// applyCollectionOptions applies nullable/default/check options directly
// to fs, and composes any user-supplied WithFieldCoerce coercion to run
// *before* build, so a caller can e.g. accept a comma-separated string and
// split it before the collection is assembled.
func applyCollectionOptions(fs *FieldSpec, build CoerceFunc, opts []FieldOption) {
	tmp := &FieldSpec{}
	for _, o := range opts {
		o(tmp)
	}
	fs.nullable = tmp.nullable
	fs.def = tmp.def
	fs.check = tmp.check
	if userCoerce := tmp.coerce; userCoerce != nil {
		fs.coerce = CoerceWith(func(v any) (any, error) {
			uv, err := userCoerce.Fn(v)
			if err != nil {
				return nil, err
			}
			return build(uv)
		})
	} else {
		fs.coerce = CoerceWith(build)
	}
}

func toAnySlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case *Seq:
		return s.items, nil
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, newFieldTypeError(fmt.Sprintf("expected a sequence, got %#v", v))
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
}

func toAnyMap(v any) (map[any]any, error) {
	switch m := v.(type) {
	case map[any]any:
		return m, nil
	case map[string]any:
		out := make(map[any]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	case *Dict:
		out := make(map[any]any, len(m.entries))
		for _, e := range m.entries {
			out[e.key] = e.value
		}
		return out, nil
	default:
		return nil, newFieldTypeError(fmt.Sprintf("expected a mapping, got %#v", v))
	}
}

// Seq is the runtime value for both SeqOf and PairOf fields (a Pair is a
// Seq of fixed length 2, sharing storage and comparison logic).
type Seq struct {
	typ   *CollectionType
	items []any
}

// Len returns the number of elements.
func (s *Seq) Len() int { return len(s.items) }

// At returns the element at index i.
func (s *Seq) At(i int) any { return s.items[i] }

// Items returns a copy of the element slice.
func (s *Seq) Items() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Seq) equal(o *Seq) bool {
	if s.typ != o.typ || len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !valuesEqual(s.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

func (s *Seq) compare(o *Seq) int {
	n := len(s.items)
	if len(o.items) < n {
		n = len(o.items)
	}
	for i := 0; i < n; i++ {
		if c := valuesCompare(s.items[i], o.items[i]); c != 0 {
			return c
		}
	}
	return cmpOrdered(int64(len(s.items)), int64(len(o.items)))
}

func (s *Seq) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = fmt.Sprintf("%#v", it)
	}
	return fmt.Sprintf("%s(%s)", s.typ.name, strings.Join(parts, ", "))
}

func coerceSeqLike(ct *CollectionType, elemSpec *FieldSpec, v any, wantLen int) (*Seq, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(*Seq); ok && s.typ == ct {
		return s, nil
	}
	items, err := toAnySlice(v)
	if err != nil {
		return nil, err
	}
	if wantLen >= 0 && len(items) != wantLen {
		return nil, newFieldValueError(fmt.Sprintf("%s must have exactly %d elements, got %d", ct.name, wantLen, len(items)))
	}
	out := make([]any, len(items))
	for i, it := range items {
		ev, err := runFieldPipeline(elemSpec, it, ct.name, fmt.Sprintf("%s[%d]", ct.name, i))
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return &Seq{typ: ct, items: out}, nil
}

// SeqOf declares a homogeneous, ordered, variable-length sequence field
// whose elements each run elem's full per-field pipeline.
func SeqOf(elem any, opts ...FieldOption) *FieldSpec {
	elemSpec := Compile(elem)
	ct := &CollectionType{collKind: collSeq, elem: elemSpec}
	ct.name = collectionTypeName(collSeq, elemSpec.Type().typeName(), "", "")
	Register(ct.name, ct)
	fs := &FieldSpec{typ: ct, subfields: []*FieldSpec{elemSpec}}
	applyCollectionOptions(fs, func(v any) (any, error) {
		s, err := coerceSeqLike(ct, elemSpec, v, -1)
		if err != nil || s == nil {
			return nil, err
		}
		return s, nil
	}, opts)
	return fs
}

// PairOf declares an ordered, exactly-2-element sequence field.
func PairOf(elem any, opts ...FieldOption) *FieldSpec {
	elemSpec := Compile(elem)
	ct := &CollectionType{collKind: collPair, elem: elemSpec}
	ct.name = collectionTypeName(collPair, elemSpec.Type().typeName(), "", "")
	Register(ct.name, ct)
	fs := &FieldSpec{typ: ct, subfields: []*FieldSpec{elemSpec}}
	applyCollectionOptions(fs, func(v any) (any, error) {
		s, err := coerceSeqLike(ct, elemSpec, v, 2)
		if err != nil || s == nil {
			return nil, err
		}
		return s, nil
	}, opts)
	return fs
}

// Set is the runtime value for a SetOf field: a deduplicated collection
// held in sorted canonical order, so equality reduces to slice-wise
// equality and iteration order is deterministic.
type Set struct {
	typ   *CollectionType
	items []any
}

func newSet(typ *CollectionType, items []any) *Set {
	out := make([]any, 0, len(items))
	for _, it := range items {
		dup := false
		for _, ex := range out {
			if valuesEqual(ex, it) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return valuesCompare(out[i], out[j]) < 0 })
	return &Set{typ: typ, items: out}
}

// Len returns the number of distinct elements.
func (s *Set) Len() int { return len(s.items) }

// Items returns a copy of the elements in canonical sorted order.
func (s *Set) Items() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether v (already of the element type) is a member.
func (s *Set) Contains(v any) bool {
	for _, it := range s.items {
		if valuesEqual(it, v) {
			return true
		}
	}
	return false
}

func (s *Set) equal(o *Set) bool {
	if s.typ != o.typ || len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !valuesEqual(s.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = fmt.Sprintf("%#v", it)
	}
	return fmt.Sprintf("%s{%s}", s.typ.name, strings.Join(parts, ", "))
}

// SetOf declares a deduplicated, canonically-ordered set field.
func SetOf(elem any, opts ...FieldOption) *FieldSpec {
	elemSpec := Compile(elem)
	ct := &CollectionType{collKind: collSet, elem: elemSpec}
	ct.name = collectionTypeName(collSet, elemSpec.Type().typeName(), "", "")
	Register(ct.name, ct)
	fs := &FieldSpec{typ: ct, subfields: []*FieldSpec{elemSpec}}
	applyCollectionOptions(fs, func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if s, ok := v.(*Set); ok && s.typ == ct {
			return s, nil
		}
		items, err := toAnySlice(v)
		if err != nil {
			return nil, err
		}
		validated := make([]any, len(items))
		for i, it := range items {
			ev, err := runFieldPipeline(elemSpec, it, ct.name, fmt.Sprintf("%s{%d}", ct.name, i))
			if err != nil {
				return nil, err
			}
			validated[i] = ev
		}
		return newSet(ct, validated), nil
	}, opts)
	return fs
}

type dictEntry struct {
	key   any
	value any
}

// Dict is the runtime value for a DictOf field: key/value pairs held
// sorted by key, so equality and iteration are both deterministic.
type Dict struct {
	typ     *CollectionType
	entries []dictEntry
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.entries) }

// Get looks up value by key using structural equality.
func (d *Dict) Get(key any) (any, bool) {
	for _, e := range d.entries {
		if valuesEqual(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// Keys returns the keys in sorted canonical order.
func (d *Dict) Keys() []any {
	out := make([]any, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.key
	}
	return out
}

func (d *Dict) equal(o *Dict) bool {
	if d.typ != o.typ || len(d.entries) != len(o.entries) {
		return false
	}
	for i := range d.entries {
		if !valuesEqual(d.entries[i].key, o.entries[i].key) || !valuesEqual(d.entries[i].value, o.entries[i].value) {
			return false
		}
	}
	return true
}

func (d *Dict) String() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = fmt.Sprintf("%#v: %#v", e.key, e.value)
	}
	return fmt.Sprintf("%s{%s}", d.typ.name, strings.Join(parts, ", "))
}

// DictOf declares a field whose key and value each run their own full
// per-field pipeline; keys must additionally be text or a marshallable
// scalar (checked by pods.go, since it is a plain-data codec constraint
// rather than an in-memory one).
func DictOf(key, value any, opts ...FieldOption) *FieldSpec {
	keySpec := Compile(key)
	valSpec := Compile(value)
	ct := &CollectionType{collKind: collDict, key: keySpec, value: valSpec}
	ct.name = collectionTypeName(collDict, "", keySpec.Type().typeName(), valSpec.Type().typeName())
	Register(ct.name, ct)
	fs := &FieldSpec{typ: ct, subfields: []*FieldSpec{keySpec, valSpec}}
	applyCollectionOptions(fs, func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if d, ok := v.(*Dict); ok && d.typ == ct {
			return d, nil
		}
		m, err := toAnyMap(v)
		if err != nil {
			return nil, err
		}
		entries := make([]dictEntry, 0, len(m))
		for k, val := range m {
			kv, err := runFieldPipeline(keySpec, k, ct.name, ct.name+"<key>")
			if err != nil {
				return nil, err
			}
			vv, err := runFieldPipeline(valSpec, val, ct.name, ct.name+"<value>")
			if err != nil {
				return nil, err
			}
			entries = append(entries, dictEntry{key: kv, value: vv})
		}
		sort.Slice(entries, func(i, j int) bool { return valuesCompare(entries[i].key, entries[j].key) < 0 })
		return &Dict{typ: ct, entries: entries}, nil
	}, opts)
	return fs
}
