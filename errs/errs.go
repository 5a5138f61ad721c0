// Package errs defines the typed error kinds surfaced by every top-level
// mscompress operation (§7 "Error Handling Design"). Errors raised by this
// module's own checks are *Error values: they can be inspected with
// errors.As and compared against a Kind with errors.Is(err, KindOf(k)).
// Errors passed up unchanged from elsewhere (descriptor validation, the
// partitioner, a block codec failing to decompress, a failed write to the
// output) are not wrapped and carry no Kind.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way §7 enumerates them.
type Kind uint8

const (
	// Unsupported: source declares a format the implementation does not
	// handle (unknown accession, incompatible transform for element type,
	// unknown container version).
	Unsupported Kind = iota + 1
	// MalformedSource: XML tokeniser rejects; spectrum count in markup does
	// not match number of binary pairs found; monotonicity of offsets
	// violated. The Position Scanner's "StructureViolation" failures (§4.2)
	// are reported under this kind, with Op identifying the scanner.
	MalformedSource
	// CorruptContainer: bad magic; trailer offsets out of range;
	// block-length table sum does not match stream length; compressed
	// block fails to decompress to declared original size.
	CorruptContainer
	// Io: read/write syscall failed; memory-map failed.
	Io
	// InvalidArgument: inconsistent configuration from the caller.
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case Unsupported:
		return "Unsupported"
	case MalformedSource:
		return "MalformedSource"
	case CorruptContainer:
		return "CorruptContainer"
	case Io:
		return "Io"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is the concrete type of the errors this module raises itself (see
// the package comment for those it passes through unwrapped).
type Error struct {
	Kind Kind
	// Op names the failing component, e.g. "scanner.Scan", "writer.Write".
	Op  string
	Msg string
	Err error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a KindOf sentinel of the same Kind, so
// callers can write errors.Is(err, errs.KindOf(errs.CorruptContainer)), or
// use errors.As to get at Op/Msg.
func (e *Error) Is(target error) bool {
	var k *kindSentinel
	if errors.As(target, &k) {
		return e.Kind == k.kind
	}

	return false
}

// kindSentinel lets a bare Kind be used with errors.Is(err, errs.KindOf(Unsupported)).
type kindSentinel struct{ kind Kind }

func (k *kindSentinel) Error() string { return k.kind.String() }

// KindOf returns a sentinel error suitable for errors.Is comparisons against
// a Kind, e.g. errors.Is(err, errs.KindOf(errs.Unsupported)).
func KindOf(k Kind) error { return &kindSentinel{kind: k} }

func newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// UnsupportedF builds an Unsupported error.
func UnsupportedF(op, format string, args ...any) error { return newf(Unsupported, op, format, args...) }

// MalformedF builds a MalformedSource error.
func MalformedF(op, format string, args ...any) error { return newf(MalformedSource, op, format, args...) }

// CorruptF builds a CorruptContainer error.
func CorruptF(op, format string, args ...any) error { return newf(CorruptContainer, op, format, args...) }

// InvalidArgF builds an InvalidArgument error.
func InvalidArgF(op, format string, args ...any) error { return newf(InvalidArgument, op, format, args...) }

// IOWrap wraps a syscall/I-O failure as an Io error.
func IOWrap(op string, cause error, format string, args ...any) error {
	return wrap(Io, op, cause, format, args...)
}

// CorruptWrap wraps a cause as a CorruptContainer error.
func CorruptWrap(op string, cause error, format string, args ...any) error {
	return wrap(CorruptContainer, op, cause, format, args...)
}

// MalformedWrap wraps a cause as a MalformedSource error.
func MalformedWrap(op string, cause error, format string, args ...any) error {
	return wrap(MalformedSource, op, cause, format, args...)
}
