/*
Package records – common field shortcuts.

value_check-style predicates (Nonempty, NonNegative, StrictlyPositive),
the RegexCheck family, OneOf, and Nullable: small composable conveniences
layered on top of Compile/FieldOption for the constraints that come up
often enough to deserve a name.
*/
package records

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Nullable derives spec into a nullable field, with the given default
// (nil means no default value).
func Nullable(spec any, def any) *FieldSpec {
	return Compile(spec).Derive(WithNullable(true), WithDefault(def))
}

func composeCheck(checks ...CheckFunc) CheckFunc {
	return func(v any) (bool, error) {
		for _, chk := range checks {
			if chk == nil {
				continue
			}
			ok, err := chk(v)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
}

func inferScalarKind(zero any) Kind {
	switch zero.(type) {
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	case string:
		return KindText
	default:
		panic("records: OneOf only supports int64, float64, bool, or string elements")
	}
}

// OneOf declares a field whose scalar Kind is inferred from T and whose
// value must equal one of values. It also accepts WithNullable/WithDefault
// options alongside the membership check.
func OneOf[T comparable](values []T, opts ...FieldOption) *FieldSpec {
	var zero T
	fs := Compile(inferScalarKind(any(zero)))

	allowed := make([]any, len(values))
	for i, v := range values {
		allowed[i] = any(v)
	}
	membership := func(v any) (bool, error) {
		for _, a := range allowed {
			if valuesEqual(a, v) {
				return true, nil
			}
		}
		return false, nil
	}

	tmp := &FieldSpec{}
	for _, o := range opts {
		o(tmp)
	}
	fs.nullable = tmp.nullable
	fs.def = tmp.def
	if tmp.coerce != nil {
		fs.coerce = tmp.coerce
	}
	fs.check = composeCheck(membership, tmp.check)
	return fs
}

// Nonempty checks that a text, Seq, Set, or Dict value has length > 0.
var Nonempty CheckFunc = func(v any) (bool, error) {
	switch t := v.(type) {
	case string:
		return len(t) > 0, nil
	case []byte:
		return len(t) > 0, nil
	case *Seq:
		return t.Len() > 0, nil
	case *Set:
		return t.Len() > 0, nil
	case *Dict:
		return t.Len() > 0, nil
	default:
		return false, nil
	}
}

// NonNegative checks that a numeric value is >= 0.
var NonNegative CheckFunc = func(v any) (bool, error) {
	switch n := v.(type) {
	case int64:
		return n >= 0, nil
	case float64:
		return n >= 0, nil
	case decimal.Decimal:
		return !n.IsNegative(), nil
	default:
		return false, nil
	}
}

// StrictlyPositive checks that a numeric value is > 0.
var StrictlyPositive CheckFunc = func(v any) (bool, error) {
	switch n := v.(type) {
	case int64:
		return n > 0, nil
	case float64:
		return n > 0, nil
	case decimal.Decimal:
		return n.IsPositive(), nil
	default:
		return false, nil
	}
}

// RegexCheck builds a CheckFunc requiring a text value to match pattern.
// The match is unanchored: a full match holds only where pattern itself
// starts with ^ and ends with $.
func RegexCheck(pattern string) CheckFunc {
	re := regexp.MustCompile(pattern)
	return func(v any) (bool, error) {
		s, ok := v.(string)
		if !ok {
			return false, nil
		}
		return re.MatchString(s), nil
	}
}

// UppercaseLetters requires one or more characters in A-Z.
var UppercaseLetters = RegexCheck(`^[A-Z]+$`)

// UppercaseHex requires one or more characters in 0-9A-F.
var UppercaseHex = RegexCheck(`^[0-9A-F]+$`)

// LowercaseLetters requires one or more characters in a-z.
var LowercaseLetters = RegexCheck(`^[a-z]+$`)
