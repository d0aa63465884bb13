package archive

import "fmt"

// Kind classifies an archive operation failure per the taxonomy this
// system's error handling design specifies.
type Kind int

const (
	// FormatError: the archive is empty, has an unknown trailer flag, a
	// bucket offset lies outside the file, an entry's declared size
	// would exceed the file, or a name is missing its NUL before EOF.
	FormatError Kind = iota
	// CodecError: compression or decompression returned a codec-specific
	// failure, or a frame lacks self-describing size.
	CodecError
	// IoError: the mapper could not open, resize, or map the backing
	// file, or a source file could not be read during build.
	IoError
	// UsageError: caller-side constraint violations — a duplicate entry
	// name at build, or calling a read operation (Retrieve,
	// DecompressedSize) on a write-mode entry or a write operation
	// (Populate, Append) on a read-mode one. Lookup itself never fails in
	// a write-mode archive. The CLI's own checks (a missing --onefile
	// target, an existing target without --force) return plain errors,
	// not *Error values.
	UsageError
)

func (k Kind) String() string {
	switch k {
	case FormatError:
		return "format error"
	case CodecError:
		return "codec error"
	case IoError:
		return "io error"
	case UsageError:
		return "usage error"
	default:
		return "unknown error"
	}
}

// Error is the archive package's error type. Every error the package
// returns can be inspected via errors.As to recover its Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("archive: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func formatErrorf(format string, args ...any) *Error {
	return &Error{Kind: FormatError, Msg: fmt.Sprintf(format, args...)}
}

func usageErrorf(format string, args ...any) *Error {
	return &Error{Kind: UsageError, Msg: fmt.Sprintf(format, args...)}
}

func ioErrorf(err error, format string, args ...any) *Error {
	return &Error{Kind: IoError, Msg: fmt.Sprintf(format, args...), Err: err}
}

func codecErrorf(err error, format string, args ...any) *Error {
	return &Error{Kind: CodecError, Msg: fmt.Sprintf(format, args...), Err: err}
}
