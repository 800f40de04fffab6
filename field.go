/*
Package records – field specification model.

A FieldSpec describes one field's constraints: its declared type,
nullability, default, coercion, and predicate check. Compile turns a bare
type (or an already-compiled spec) into a FieldSpec; the constructor
pipeline below runs a fixed sequence of steps over a raw value to
produce the bound value a Record stores.
*/
package records

import "fmt"

// Kind identifies a primitive or marshalled scalar type.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindText
	KindBytes
	KindDate
	KindDateTime
	KindDuration
	KindDecimal
)

func (k Kind) typeName() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// isScalar reports whether k is a bare primitive scalar kind (integer,
// float, boolean, text, bytes) as opposed to a marshalled scalar kind.
func (k Kind) isScalar() bool {
	switch k {
	case KindInt, KindFloat, KindBool, KindText, KindBytes:
		return true
	default:
		return false
	}
}

// TypeID identifies the declared type of a field: a Kind, a *RecordType,
// a *CollectionType, or the Recursive sentinel (via *recursiveCell).
type TypeID interface {
	typeName() string
}

// recursiveCell is the single-write indirection cell backing a
// RecursiveType placeholder. It starts out unresolved (resolved == nil)
// and is patched exactly once, by NewRecordType, after the enclosing
// class has finished compiling. This is the sole mutation the system
// performs.
type recursiveCell struct {
	resolved *RecordType
}

func (c *recursiveCell) typeName() string {
	if c.resolved != nil {
		return c.resolved.Name()
	}
	return "RecursiveType"
}

// Recursive is the sentinel TypeID indicating that a field's type is the
// enclosing record class, resolved once that class exists.
var Recursive TypeID = recursiveTypeSentinel{}

// recursiveTypeSentinel is the value users pass to Compile to mean
// "the RecursiveType placeholder"; Compile turns it into a fresh
// *recursiveCell so each field gets its own cell.
type recursiveTypeSentinel struct{}

func (recursiveTypeSentinel) typeName() string { return "RecursiveType" }

// resolvedTypeID unwraps a recursiveCell to its resolved type, if any;
// any other TypeID is returned unchanged.
func resolvedTypeID(t TypeID) TypeID {
	if c, ok := t.(*recursiveCell); ok && c.resolved != nil {
		return c.resolved
	}
	return t
}

// CoerceFunc replaces a raw input value with a new one. It may observe
// null (it runs before the null check).
type CoerceFunc func(any) (any, error)

// CheckFunc is a per-field predicate, invoked after coercion and the null
// check on non-null values; it must return true for the value to be
// accepted. Its own errors bubble up verbatim, uncaught.
type CheckFunc func(any) (bool, error)

// Coercion wraps a CoerceFunc with the two pieces of side information the
// constructor pipeline needs: whether this coercion is known to never
// return nil (skips the null check), and whether it is the identity cast
// for its field's declared scalar Kind (skips the type check too).
type Coercion struct {
	Fn         CoerceFunc
	neverNil   bool
	identityOf Kind
	isIdentity bool
}

// CoerceWith wraps an arbitrary coercion function. The result is not
// treated as a known non-nil or identity-cast coercion.
func CoerceWith(fn CoerceFunc) *Coercion {
	return &Coercion{Fn: fn}
}

// Built-in identity-cast coercions: the string/integer/float/bool type
// constructors, known to never return nil, used directly as `coerce`.
// Declaring a field
// with Coerce == one of these both skips the null check (the coercion
// never returns nil) and, when the field's declared Type is the matching
// Kind, skips the type check too (the coercion already guarantees type).
var (
	CoerceInt   = &Coercion{Fn: coerceToInt, neverNil: true, identityOf: KindInt, isIdentity: true}
	CoerceFloat = &Coercion{Fn: coerceToFloat, neverNil: true, identityOf: KindFloat, isIdentity: true}
	CoerceBool  = &Coercion{Fn: coerceToBool, neverNil: true, identityOf: KindBool, isIdentity: true}
	CoerceText  = &Coercion{Fn: coerceToText, neverNil: true, identityOf: KindText, isIdentity: true}
)

func coerceToInt(v any) (any, error) {
	if v == nil {
		return int64(0), nil
	}
	return toInt64(v)
}

func coerceToFloat(v any) (any, error) {
	if v == nil {
		return float64(0), nil
	}
	return toFloat64(v)
}

func coerceToBool(v any) (any, error) {
	if v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, newFieldTypeError(fmt.Sprintf("cannot coerce %#v to bool", v))
	}
	return b, nil
}

func coerceToText(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", v), nil
}

// isKnownNonNilCoercion reports whether c is one of the built-in
// coercions known to never return nil, so the null check may be skipped
// even for a nullable=false field.
func isKnownNonNilCoercion(c *Coercion) bool {
	return c != nil && c.neverNil
}

// isIdentityCast reports whether coerce is exactly the identity cast for
// typ's Kind, i.e. "coerce == type" in spec terms, which skips the type
// check (the coercion already guarantees the result's type).
func isIdentityCast(typ TypeID, c *Coercion) bool {
	if c == nil || !c.isIdentity {
		return false
	}
	k, ok := resolvedTypeID(typ).(Kind)
	return ok && k == c.identityOf
}

// FieldSpec is the immutable (bar the one RecursiveType patch)
// declarative description of a field's constraints.
type FieldSpec struct {
	typ       TypeID
	nullable  bool
	def       any
	coerce    *Coercion
	check     CheckFunc
	subfields []*FieldSpec
}

// Type returns the field's declared type, resolving any pending
// RecursiveType patch.
func (f *FieldSpec) Type() TypeID { return resolvedTypeID(f.typ) }

// Nullable reports whether the field may be null/absent.
func (f *FieldSpec) Nullable() bool { return f.nullable }

// Default returns the default value consulted when Nullable is true.
func (f *FieldSpec) Default() any { return f.def }

// Coerce returns the configured coercion, or nil.
func (f *FieldSpec) Coerce() *Coercion { return f.coerce }

// Check returns the configured predicate, or nil.
func (f *FieldSpec) Check() CheckFunc { return f.check }

// Subfields returns the ordered child specs for collection types: the
// element spec for SeqOf/PairOf/SetOf, or [key, value] for DictOf.
func (f *FieldSpec) Subfields() []*FieldSpec { return f.subfields }

// resolveRecursive patches the field's *recursiveCell to rt if it is
// still unresolved, recursing into any collection subfields. onResolve,
// if non-nil, is called once for each cell this call actually resolves.
func (f *FieldSpec) resolveRecursive(rt *RecordType, onResolve func()) {
	if c, ok := f.typ.(*recursiveCell); ok && c.resolved == nil {
		c.resolved = rt
		if onResolve != nil {
			onResolve()
		}
	}
	for _, sub := range f.subfields {
		sub.resolveRecursive(rt, onResolve)
	}
}

// FieldOption mutates a FieldSpec under construction, via Compile or
// Derive.
type FieldOption func(*FieldSpec)

// WithNullable sets whether the field may be null.
func WithNullable(nullable bool) FieldOption {
	return func(f *FieldSpec) { f.nullable = nullable }
}

// WithDefault sets the default value, consulted only when Nullable.
func WithDefault(def any) FieldOption {
	return func(f *FieldSpec) { f.def = def }
}

// WithFieldCoerce sets the coercion.
func WithFieldCoerce(c *Coercion) FieldOption {
	return func(f *FieldSpec) { f.coerce = c }
}

// WithCheck sets the predicate.
func WithCheck(check CheckFunc) FieldOption {
	return func(f *FieldSpec) { f.check = check }
}

// Compile is the Go name for spec's compile_field: given either an
// already-compiled *FieldSpec or a bare TypeID, returns a *FieldSpec. If
// x is already a *FieldSpec and no options are given, it is returned
// unchanged (not copied), matching compile_field's early return.
func Compile(x any, opts ...FieldOption) *FieldSpec {
	if fs, ok := x.(*FieldSpec); ok {
		if len(opts) == 0 {
			return fs
		}
		return fs.Derive(opts...)
	}
	var typ TypeID
	switch t := x.(type) {
	case TypeID:
		if _, isSentinel := t.(recursiveTypeSentinel); isSentinel {
			typ = &recursiveCell{}
		} else {
			typ = t
		}
	case Kind:
		typ = t
	default:
		panic(fmt.Sprintf("records: cannot compile %#v into a FieldSpec", x))
	}
	fs := &FieldSpec{typ: typ}
	for _, o := range opts {
		o(fs)
	}
	return fs
}

// Derive returns a new FieldSpec with the given overrides applied; Type
// can never be overridden via Derive.
func (f *FieldSpec) Derive(opts ...FieldOption) *FieldSpec {
	nf := &FieldSpec{
		typ:       f.typ,
		nullable:  f.nullable,
		def:       f.def,
		coerce:    f.coerce,
		check:     f.check,
		subfields: f.subfields,
	}
	for _, o := range opts {
		o(nf)
	}
	return nf
}

func (f *FieldSpec) String() string {
	s := fmt.Sprintf("FieldSpec(%s", f.Type().typeName())
	if f.nullable {
		s += ", nullable=true"
	}
	if f.def != nil {
		s += fmt.Sprintf(", default=%#v", f.def)
	}
	return s + ")"
}

// runFieldPipeline executes the fixed seven-step sequence (default →
// promote → coerce → null-check → predicate → type-check → bind) on a
// single raw value. description identifies the offending location for
// error messages, e.g. "Point.x", "IntSeq[0]", "TextToIntDict<key>",
// "TextToIntDict<value>".
func runFieldPipeline(spec *FieldSpec, value any, class, description string) (any, error) {
	// 1. default injection
	if spec.Nullable() && spec.Default() != nil && value == nil {
		value = spec.Default()
	}

	// 2. promotion
	value = promoteValue(spec.Type(), value)
	if rt, ok := spec.Type().(*RecordType); ok {
		if m, isMap := value.(map[string]any); isMap {
			// A map here is treated as a plain-data tree (marshalled
			// scalars as text), so it promotes through rt.FromPlain.
			rec, err := rt.FromPlain(m)
			if err != nil {
				return nil, wrapCause(err, description+": promoting map to "+rt.Name())
			}
			value = rec
		}
	}

	// 3. coercion
	if c := spec.Coerce(); c != nil {
		v, err := c.Fn(value)
		if err != nil {
			return nil, wrapCause(err, description+": coercion failed")
		}
		value = v
	}

	// 4. null check
	if !spec.Nullable() && !isKnownNonNilCoercion(spec.Coerce()) && value == nil {
		return nil, newFieldNotNullableError(description+" cannot be null", WithField(class, description))
	}

	// 5. predicate check
	if chk := spec.Check(); chk != nil && value != nil {
		ok, err := chk(value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newFieldValueError(description+" is not a valid value", WithField(class, description), WithValue(value))
		}
	}

	// 6. type check
	if !isIdentityCast(spec.Type(), spec.Coerce()) && value != nil {
		declared := resolvedTypeID(spec.Type())
		if !typeMatches(declared, value) {
			return nil, newFieldTypeError(
				fmt.Sprintf("%s should be of type %s, not %s", description, declared.typeName(), goKindName(value)),
				WithField(class, description), WithValue(value),
			)
		}
	}

	// 7. bind
	return value, nil
}

// promoteValue performs the one implicit scalar promotion allowed:
// widening an integer to float64 when the declared type is KindFloat.
func promoteValue(typ TypeID, value any) any {
	if k, ok := resolvedTypeID(typ).(Kind); ok && k == KindFloat {
		if f, isInt := asFloatFromInt(value); isInt {
			return f
		}
	}
	return value
}
