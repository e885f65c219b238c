package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the extraction pipeline the error occurred
type Phase string

const (
	PhaseDiscover Phase = "discover" // input enumeration and partitioning
	PhaseRead     Phase = "read"     // container file I/O
	PhaseDecrypt  Phase = "decrypt"  // key resolution and decryption
	PhaseParse    Phase = "parse"    // container layout parsing
	PhaseSplit    Phase = "split"    // module bundle splitting
	PhaseWrite    Phase = "write"    // project tree materialization
)

// Kind categorizes the error
type Kind string

const (
	KindFormat        Kind = "format"         // malformed or unsupported container layout
	KindKeyResolution Kind = "key_resolution" // application identifier unobtainable
	KindDecryption    Kind = "decryption"     // key invalid or post-decrypt validation failed
	KindCollision     Kind = "collision"      // two packages disagree on output bytes
	KindRecoverable   Kind = "recoverable"    // degraded output, processing continues
	KindOutOfBounds   Kind = "out_of_bounds"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
)

// Error is the structured error type used throughout the engine
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Pkg    string // container file name, when known
	Entry  string // relative entry path, when known
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Pkg != "" {
		b.WriteString(" in ")
		b.WriteString(e.Pkg)
	}
	if e.Entry != "" {
		b.WriteString(" at ")
		b.WriteString(e.Entry)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Container sets the container file name
func (b *Builder) Container(name string) *Builder {
	b.err.Pkg = name
	return b
}

// Entry sets the relative entry path
func (b *Builder) Entry(path string) *Builder {
	b.err.Entry = path
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

// Convenience constructors for common error patterns

// Format creates a malformed-container error
func Format(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindFormat,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// OutOfBounds creates an out-of-bounds error for a declared data range
func OutOfBounds(phase Phase, entry string, offset, length, limit uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Entry:  entry,
		Detail: fmt.Sprintf("range [%d, %d) exceeds limit %d", offset, offset+length, limit),
	}
}

// KeyResolution creates a key-resolution failure for the given input path
func KeyResolution(path string) *Error {
	return &Error{
		Phase:  PhaseDecrypt,
		Kind:   KindKeyResolution,
		Detail: fmt.Sprintf("no application identifier found on path %q", path),
	}
}

// Decryption creates a decryption failure
func Decryption(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecrypt,
		Kind:   KindDecryption,
		Detail: detail,
		Cause:  cause,
	}
}

// Collision creates a conflicting-output error for a relative path
func Collision(relPath, haveSum, wantSum string) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindCollision,
		Entry:  relPath,
		Detail: fmt.Sprintf("content hash %s conflicts with previously written %s", wantSum, haveSum),
	}
}

// Recoverable creates a non-fatal warning
func Recoverable(phase Phase, entry, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRecoverable,
		Entry:  entry,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with pipeline context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsRecoverable reports whether err is a non-fatal warning
func IsRecoverable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == KindRecoverable
	}
	return false
}

// IsCollision reports whether err signals conflicting output content,
// which is fatal for the whole run regardless of failure policy
func IsCollision(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == KindCollision
	}
	return false
}
