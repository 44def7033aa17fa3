package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // schema type resolution
	PhaseEncode  Phase = "encode"  // typed value to call bytes
	PhaseDecode  Phase = "decode"  // call bytes to typed value
)

// Kind categorizes the error
type Kind string

const (
	KindUnresolvedGeneric Kind = "unresolved_generic"
	KindUnknownType       Kind = "unknown_type"
	KindMismatch          Kind = "value_descriptor_mismatch"
	KindOverflow          Kind = "encoding_overflow"
	KindDepthExceeded     Kind = "depth_exceeded"
	KindSizeExceeded      Kind = "size_exceeded"
	KindInsufficientBytes Kind = "insufficient_bytes"
	KindUnknownVariant    Kind = "unknown_variant"
	KindInvalidData       Kind = "invalid_data"
	KindRegistration      Kind = "registration"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // descriptor signature, e.g. "[u64; 3]"
	Detail string
	Path   []string
	Offset int // byte offset within the buffer, -1 if not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the descriptor path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the descriptor signature
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Offset sets the byte offset at which the error occurred
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnresolvedGeneric creates an error for a generic parameter with no binding
func UnresolvedGeneric(path []string, param string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedGeneric,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("generic parameter %q has no binding", param),
	}
}

// UnknownType creates an error for an undeclared type name
func UnknownType(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownType,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("type %q is not declared in the schema", name),
	}
}

// Mismatch creates an error for a value whose runtime shape does not match
// its descriptor
func Mismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMismatch,
		Path:   path,
		Type:   want,
		Offset: -1,
		Detail: fmt.Sprintf("value is %s", got),
	}
}

// Overflow creates an error for an offset or length that cannot be
// represented in a pointer word
func Overflow(path []string, what string, value uint64) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindOverflow,
		Path:   path,
		Offset: -1,
		Value:  value,
		Detail: fmt.Sprintf("%s %d does not fit in a word", what, value),
	}
}

// DepthExceeded creates an error for nesting beyond the configured limit
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("nesting depth exceeds limit %d", limit),
	}
}

// SizeExceeded creates an error for byte volume beyond the configured limit
func SizeExceeded(phase Phase, path []string, total, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSizeExceeded,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("%d bytes exceeds limit %d", total, limit),
	}
}

// InsufficientBytes creates an error for a bounds-checked read past the
// buffer end
func InsufficientBytes(path []string, sig string, offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInsufficientBytes,
		Path:   path,
		Type:   sig,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// UnknownVariant creates an error for an out-of-range enum discriminant
func UnknownVariant(path []string, sig string, offset int, disc, count uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownVariant,
		Path:   path,
		Type:   sig,
		Offset: offset,
		Value:  disc,
		Detail: fmt.Sprintf("discriminant %d out of range (%d variants)", disc, count),
	}
}

// Registration creates an error for an invalid custom codec registration
func Registration(sig, detail string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindRegistration,
		Type:   sig,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
