package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so layered surfaces (REST, SQL
// adapters) can map it to their own status categories without string
// matching.
type ErrorKind int

const (
	// KindNotFound marks a missing table or record id.
	KindNotFound ErrorKind = iota
	// KindInvalidFormat marks a magic mismatch, impossible header value,
	// or overlapping schema.
	KindInvalidFormat
	// KindTruncated marks fewer bytes available than a header or pointer
	// declared.
	KindTruncated
	// KindOutOfRange marks a record index at or past record_count.
	KindOutOfRange
	// KindSchemaInvalid marks an external schema that failed validation.
	KindSchemaInvalid
	// KindReadOnly marks a mutating call on a read-only engine.
	KindReadOnly
	// KindUnsupported marks an optional capability not provided by this
	// build.
	KindUnsupported
	// KindIO marks an underlying file-system failure.
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidFormat:
		return "invalid_format"
	case KindTruncated:
		return "truncated"
	case KindOutOfRange:
		return "out_of_range"
	case KindSchemaInvalid:
		return "schema_invalid"
	case KindReadOnly:
		return "read_only"
	case KindUnsupported:
		return "unsupported"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the engine's single error type. Every failure raised by the
// core carries a Kind so callers can branch on it with errors.As instead
// of matching message text.
type Error struct {
	Kind    ErrorKind
	Path    string
	Offset  int64
	Length  int64
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if e.Length != 0 || e.Offset != 0 {
		return fmt.Sprintf("%s: %s (path=%s offset=%d length=%d)", e.Kind, msg, e.Path, e.Offset, e.Length)
	}
	return fmt.Sprintf("%s: %s (path=%s)", e.Kind, msg, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &Error{Kind: KindNotFound}) style checks work by
// comparing against a sentinel *Error carrying only a Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...any) *Error {
	return newErr(KindNotFound, fmt.Sprintf(format, args...))
}

// InvalidFormatf builds a KindInvalidFormat error.
func InvalidFormatf(format string, args ...any) *Error {
	return newErr(KindInvalidFormat, fmt.Sprintf(format, args...))
}

// OutOfRangef builds a KindOutOfRange error.
func OutOfRangef(format string, args ...any) *Error {
	return newErr(KindOutOfRange, fmt.Sprintf(format, args...))
}

// SchemaInvalidf builds a KindSchemaInvalid error.
func SchemaInvalidf(format string, args ...any) *Error {
	return newErr(KindSchemaInvalid, fmt.Sprintf(format, args...))
}

// ReadOnlyf builds a KindReadOnly error.
func ReadOnlyf(format string, args ...any) *Error {
	return newErr(KindReadOnly, fmt.Sprintf(format, args...))
}

// Unsupportedf builds a KindUnsupported error.
func Unsupportedf(format string, args ...any) *Error {
	return newErr(KindUnsupported, fmt.Sprintf(format, args...))
}

// Truncated builds a KindTruncated error with file-position context.
func Truncated(path string, offset, length int64, err error) *Error {
	return &Error{Kind: KindTruncated, Path: path, Offset: offset, Length: length, Err: err}
}

// Truncatedf builds a KindTruncated error without file-position context,
// for callers (e.g. the decoder) that only know a record's bytes ran out,
// not the file path or absolute offset that produced them.
func Truncatedf(format string, args ...any) *Error {
	return newErr(KindTruncated, fmt.Sprintf(format, args...))
}

// IO builds a KindIO error with file-position context.
func IO(path string, offset, length int64, err error) *Error {
	return &Error{Kind: KindIO, Path: path, Offset: offset, Length: length, Err: err}
}

// KindOf reports the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
