/*
Package records – the record compiler.

NewRecordType builds a *RecordType schema object once, in two steps:
gather and order fields, then register the type. RecordType.New then
runs the fixed per-field pipeline over a map of raw values to produce an
immutable *Record.
*/
package records

import (
	"fmt"
	"hash/maphash"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordType is the compiled schema for a record class: the sorted field
// ordering, the field specs, and any declared properties/methods. It is
// built once by NewRecordType and is safe to share across goroutines
// thereafter; compilation itself makes no concurrency guarantee.
type RecordType struct {
	name       string
	fields     map[string]*FieldSpec
	order      []string
	indexOf    map[string]int
	properties map[string]func(*Record) any
	methods    map[string]any
	logger     Logger
	verbose    bool

	toPlainFn   func(*Record) (any, error)
	fromPlainFn func(any) (*Record, error)
}

// Name returns the record type's simple name, used for registry lookup,
// String() rendering, and rehydration.
func (rt *RecordType) Name() string { return rt.name }

func (rt *RecordType) typeName() string { return rt.name }

// Order returns the fixed field ordering: non-nullable fields first, then
// lexicographic by name. This defines constructor positional order,
// textual representation, hash, and total ordering.
func (rt *RecordType) Order() []string {
	out := make([]string, len(rt.order))
	copy(out, rt.order)
	return out
}

// RecordFields returns the field-name → FieldSpec mapping for this
// record type, including inherited fields.
func (rt *RecordType) RecordFields() map[string]*FieldSpec {
	out := make(map[string]*FieldSpec, len(rt.fields))
	for k, v := range rt.fields {
		out[k] = v
	}
	return out
}

type recordTypeConfig struct {
	bases      []*RecordType
	logger     Logger
	verbose    bool
	properties map[string]func(*Record) any
	methods    map[string]any
}

// RecordTypeOption configures NewRecordType.
type RecordTypeOption func(*recordTypeConfig)

// WithBase declares one or more super-records whose fields are gathered
// into the new type. Field-name collisions across bases, or an attempt
// to override an inherited field, panic at compile time (a programmer
// error, caught as early as possible).
func WithBase(bases ...*RecordType) RecordTypeOption {
	return func(c *recordTypeConfig) { c.bases = append(c.bases, bases...) }
}

// WithLogger supplies a Logger that receives Trace lines for
// recursive-type resolution and, when WithVerbose is also given, for
// class compilation.
func WithLogger(l Logger) RecordTypeOption {
	return func(c *recordTypeConfig) { c.logger = l }
}

// WithStandardLogging installs the default stdlib-backed logger.
func WithStandardLogging() RecordTypeOption {
	return func(c *recordTypeConfig) { c.logger = defaultLogger{} }
}

// WithVerbose enables Trace-level diagnostic logging of the compiled
// pipeline.
func WithVerbose() RecordTypeOption {
	return func(c *recordTypeConfig) { c.verbose = true }
}

// WithProperty attaches a read-only computed property, the Go analogue
// of a Python @property on a Record subclass.
func WithProperty(name string, fn func(*Record) any) RecordTypeOption {
	return func(c *recordTypeConfig) { c.properties[name] = fn }
}

// WithMethod attaches an instance method, reachable via Record.Call.
func WithMethod(name string, fn any) RecordTypeOption {
	return func(c *recordTypeConfig) { c.methods[name] = fn }
}

// NewRecordType compiles a new record class: name, a map of field name to
// either a bare type/Kind or an already-compiled *FieldSpec, and options
// for base records, logging, properties, and methods.
func NewRecordType(name string, fields map[string]any, opts ...RecordTypeOption) *RecordType {
	cfg := &recordTypeConfig{
		properties: map[string]func(*Record) any{},
		methods:    map[string]any{},
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.verbose {
		switch cfg.logger.(type) {
		case nil, defaultLogger:
			cfg.logger = verboseLogger{}
		}
	}
	if cfg.logger == nil {
		cfg.logger = nopLogger{}
	}

	merged := make(map[string]*FieldSpec, len(fields))
	for _, base := range cfg.bases {
		for fname, fspec := range base.fields {
			if _, exists := merged[fname]; exists {
				panic(fmt.Sprintf("records: multiple bases have a field called %q", fname))
			}
			merged[fname] = fspec
		}
	}
	for fname := range fields {
		if _, exists := merged[fname]; exists {
			panic(fmt.Sprintf("records: cannot override inherited field %q", fname))
		}
	}
	for fname, raw := range fields {
		merged[fname] = Compile(raw)
	}

	order := sortedFieldOrder(merged)
	indexOf := make(map[string]int, len(order))
	for i, n := range order {
		indexOf[n] = i
	}

	rt := &RecordType{
		name:       name,
		fields:     merged,
		order:      order,
		indexOf:    indexOf,
		properties: cfg.properties,
		methods:    cfg.methods,
		logger:     cfg.logger,
		verbose:    cfg.verbose,
	}
	rt.buildCodec()
	Register(name, rt)

	for fname, fspec := range merged {
		fspec.resolveRecursive(rt, func() {
			logTrace(rt.logger, "resolved RecursiveType", map[string]any{"field": name + "." + fname})
		})
	}

	if rt.verbose {
		logTrace(rt.logger, "compiled record type", map[string]any{"name": name, "fields": order})
	}
	return rt
}

// sortedFieldOrder computes the fixed field ordering: non-nullable
// fields first, then lexicographic by name.
func sortedFieldOrder(fields map[string]*FieldSpec) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		fi, fj := fields[names[i]], fields[names[j]]
		if fi.Nullable() != fj.Nullable() {
			return !fi.Nullable()
		}
		return names[i] < names[j]
	})
	return names
}

// New runs the fixed seven-step per-field pipeline over values (keyed by
// field name; a missing key means null) and returns a new immutable
// Record. Unknown keys fail with FieldValueError.
func (rt *RecordType) New(values map[string]any) (*Record, error) {
	for k := range values {
		if _, ok := rt.fields[k]; !ok {
			return nil, newFieldValueError(fmt.Sprintf("unknown field %q", k), WithField(rt.name, k))
		}
	}
	bound := make([]any, len(rt.order))
	for i, name := range rt.order {
		spec := rt.fields[name]
		v, err := runFieldPipeline(spec, values[name], rt.name, rt.name+"."+name)
		if err != nil {
			return nil, err
		}
		bound[i] = v
	}
	return &Record{typ: rt, values: bound}, nil
}

// Record is an immutable instance of a RecordType: a slot-like storage
// layout with no public mutators. Values only ever come from
// RecordType.New, RecordType.FromPlain, or Record.Derive.
type Record struct {
	typ    *RecordType
	values []any
}

// Type returns the record's compiled type.
func (r *Record) Type() *RecordType { return r.typ }

// Get returns the bound value for name and whether the field exists.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.typ.indexOf[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// MustGet is like Get but panics if name is not a field of this record's
// type; useful in generated-method-style code that already knows its own
// schema.
func (r *Record) MustGet(name string) any {
	v, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("records: %s has no field %q", r.typ.name, name))
	}
	return v
}

// Derive returns a new instance with the named overrides replaced and
// all other fields copied, re-running the full validation pipeline on
// every field (including the unchanged ones), matching record_derive's
// semantics of calling the constructor again.
func (r *Record) Derive(overrides map[string]any) (*Record, error) {
	values := make(map[string]any, len(r.typ.order))
	for i, name := range r.typ.order {
		if v, ok := overrides[name]; ok {
			values[name] = v
		} else {
			values[name] = r.values[i]
		}
	}
	for k := range overrides {
		if _, ok := r.typ.fields[k]; !ok {
			return nil, newFieldValueError(fmt.Sprintf("unknown field %q", k), WithField(r.typ.name, k))
		}
	}
	return r.typ.New(values)
}

// key returns the tuple of field values in field order, the same tuple
// that Equal, Compare, and Hash walk.
func (r *Record) key() []any { return r.values }

// Equal reports whether r and other are instances of the same RecordType
// with equal field-value tuples.
func (r *Record) Equal(other *Record) bool {
	if other == nil || r.typ != other.typ {
		return false
	}
	for i := range r.values {
		if !valuesEqual(r.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// Compare provides a total ordering, lexicographic on the field-value
// tuple. A nil *Record compares as less than any non-nil record (null <
// any record).
func (r *Record) Compare(other *Record) int {
	if other == nil {
		return 1
	}
	if r.typ != other.typ {
		return cmpOrdered(r.typ.name, other.typ.name)
	}
	for i := range r.values {
		if c := valuesCompare(r.values[i], other.values[i]); c != 0 {
			return c
		}
	}
	return 0
}

var hashSeed = maphash.MakeSeed()

// Hash returns a stable hash of the value tuple; all fields participate.
func (r *Record) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	_, _ = h.WriteString(r.typ.name)
	for _, v := range r.values {
		_, _ = h.WriteString("|")
		writeHashValue(&h, v)
	}
	return h.Sum64()
}

func writeHashValue(h *maphash.Hash, v any) {
	if v == nil {
		_, _ = h.WriteString("<nil>")
		return
	}
	switch t := v.(type) {
	case *Record:
		_, _ = h.WriteString(fmt.Sprintf("%x", t.Hash()))
	case *Seq:
		for _, it := range t.items {
			_, _ = h.WriteString(",")
			writeHashValue(h, it)
		}
	case *Set:
		for _, it := range t.items {
			_, _ = h.WriteString(",")
			writeHashValue(h, it)
		}
	case *Dict:
		for _, e := range t.entries {
			_, _ = h.WriteString(",")
			writeHashValue(h, e.key)
			_, _ = h.WriteString(":")
			writeHashValue(h, e.value)
		}
	case decimal.Decimal:
		_, _ = h.WriteString(t.String())
	default:
		_, _ = h.WriteString(fmt.Sprintf("%#v", v))
	}
}

// String renders "ClassName(f1=repr1, f2=repr2, ...)" in field order.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.name)
	b.WriteByte('(')
	for i, name := range r.typ.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", name, r.values[i])
	}
	b.WriteByte(')')
	return b.String()
}

// Call invokes a WithMethod-declared instance method by name.
func (r *Record) Call(name string, args ...any) (any, error) {
	fn, ok := r.typ.methods[name]
	if !ok {
		return nil, newFieldValueError(fmt.Sprintf("%s has no method %q", r.typ.name, name))
	}
	switch f := fn.(type) {
	case func(*Record) any:
		return f(r), nil
	case func(*Record, ...any) any:
		return f(r, args...), nil
	case func(*Record, ...any) (any, error):
		return f(r, args...)
	default:
		return nil, newFieldValueError(fmt.Sprintf("%s: method %q has an unsupported signature", r.typ.name, name))
	}
}

// Property evaluates a WithProperty-declared computed property by name.
func (r *Record) Property(name string) (any, bool) {
	fn, ok := r.typ.properties[name]
	if !ok {
		return nil, false
	}
	return fn(r), true
}

// Reduce returns the rehydration hook and the value tuple needed to
// reconstruct this record.
func (r *Record) Reduce() (func(values ...any) (*Record, error), []any) {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return Unpickler(r.typ.name), out
}
