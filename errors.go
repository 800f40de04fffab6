/*
Package records – error types.

A FieldError base (Code, Context map, optional wrapped Cause) underlies
the field/record error taxonomy: FieldTypeError, FieldValueError,
FieldNotNullableError, RecordsAreImmutableError,
CannotBeSerializedToPlainError, and CannotMarshalTypeError. Each is a
distinct wrapper type so callers can errors.As for the specific failure
they care about.
*/
package records

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is a well-known error category string.
type ErrorCode string

const (
	ErrFieldType       ErrorCode = "FieldTypeError"
	ErrFieldValue      ErrorCode = "FieldValueError"
	ErrNotNullable     ErrorCode = "FieldNotNullable"
	ErrImmutable       ErrorCode = "RecordsAreImmutable"
	ErrNotSerializable ErrorCode = "CannotBeSerializedToPlain"
	ErrNoMarshaller    ErrorCode = "CannotMarshalType"
	ErrArgument        ErrorCode = "ArgumentError"
)

// FieldError is the general runtime error. It carries an optional Code, a
// dotted Class.Field identifying the offending location, and a free-form
// Context map for extra debugging data, per the propagation policy: every
// error surfaces with the offending class, field, and value repr.
type FieldError struct {
	Message string
	Code    ErrorCode
	Class   string
	Field   string
	Value   any
	Context map[string]any
	Cause   error
}

func (e *FieldError) Error() string {
	prefix := ""
	switch {
	case e.Class != "" && e.Field != "":
		prefix = fmt.Sprintf("%s.%s: ", e.Class, e.Field)
	case e.Field != "":
		prefix = e.Field + ": "
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s%s", e.Code, prefix, e.Message)
	}
	return prefix + e.Message
}

func (e *FieldError) Unwrap() error { return e.Cause }

// ErrorOption mutates a FieldError at construction time.
type ErrorOption func(*FieldError)

// WithCode sets the error code.
func WithCode(c ErrorCode) ErrorOption {
	return func(e *FieldError) { e.Code = c }
}

// WithContext attaches a context map.
func WithContext(ctx map[string]any) ErrorOption {
	return func(e *FieldError) { e.Context = ctx }
}

// WithCause wraps an underlying error.
func WithCause(cause error) ErrorOption {
	return func(e *FieldError) { e.Cause = cause }
}

// WithField names the offending class and dotted field, e.g. ("Point", "x").
func WithField(class, field string) ErrorOption {
	return func(e *FieldError) {
		e.Class = class
		e.Field = field
	}
}

// WithValue attaches the offending value so its repr appears in Error().
func WithValue(v any) ErrorOption {
	return func(e *FieldError) { e.Value = v }
}

// NewFieldError constructs a FieldError.
func NewFieldError(msg string, opts ...ErrorOption) *FieldError {
	err := &FieldError{Message: msg}
	for _, o := range opts {
		o(err)
	}
	if err.Value != nil {
		err.Message = fmt.Sprintf("%s (got %#v)", err.Message, err.Value)
	}
	return err
}

// FieldTypeError reports that a value is of the wrong type for its field.
type FieldTypeError struct{ *FieldError }

func newFieldTypeError(msg string, opts ...ErrorOption) *FieldTypeError {
	opts = append(opts, WithCode(ErrFieldType))
	return &FieldTypeError{NewFieldError(msg, opts...)}
}

// FieldValueError reports a predicate or shape failure on an otherwise
// well-typed value.
type FieldValueError struct{ *FieldError }

func newFieldValueError(msg string, opts ...ErrorOption) *FieldValueError {
	opts = append(opts, WithCode(ErrFieldValue))
	return &FieldValueError{NewFieldError(msg, opts...)}
}

// FieldNotNullableError reports null supplied where forbidden. It is a
// subtype of FieldValueError: errors.As(err, &(*FieldValueError)(nil))
// matches it too, via Unwrap.
type FieldNotNullableError struct{ *FieldValueError }

func newFieldNotNullableError(msg string, opts ...ErrorOption) *FieldNotNullableError {
	opts = append(opts, WithCode(ErrNotNullable))
	return &FieldNotNullableError{newFieldValueError(msg, opts...)}
}

func (e *FieldNotNullableError) Unwrap() error { return e.FieldValueError }

// RecordsAreImmutableError reports an attempted post-construction
// mutation. Go has no setter trap to raise it from internally — Record
// has no exported mutator to begin with — so it exists for taxonomy
// completeness and for WithMethod-attached methods that want to reject
// a mutation attempt with the same error type callers already match on.
type RecordsAreImmutableError struct{ *FieldError }

func newRecordsAreImmutableError(msg string, opts ...ErrorOption) *RecordsAreImmutableError {
	opts = append(opts, WithCode(ErrImmutable))
	return &RecordsAreImmutableError{NewFieldError(msg, opts...)}
}

// CannotBeSerializedToPlainError reports that the codec cannot handle the
// declared field type. Raised lazily, at first codec call, never at
// NewRecordType time.
type CannotBeSerializedToPlainError struct{ *FieldError }

func newCannotBeSerializedToPlainError(msg string, opts ...ErrorOption) *CannotBeSerializedToPlainError {
	opts = append(opts, WithCode(ErrNotSerializable))
	return &CannotBeSerializedToPlainError{NewFieldError(msg, opts...)}
}

// CannotMarshalTypeError reports a marshaller lookup failure.
type CannotMarshalTypeError struct{ *FieldError }

func newCannotMarshalTypeError(msg string, opts ...ErrorOption) *CannotMarshalTypeError {
	opts = append(opts, WithCode(ErrNoMarshaller))
	return &CannotMarshalTypeError{NewFieldError(msg, opts...)}
}

// wrapCause attaches cause to msg using github.com/pkg/errors, preserving
// the original error chain for errors.Unwrap/errors.Is callers.
func wrapCause(cause error, msg string) error {
	if cause == nil {
		return errors.New(msg)
	}
	return errors.Wrap(cause, msg)
}
