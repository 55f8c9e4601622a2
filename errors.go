package benc

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention).
//
// Syntax codes carry a byte offset; the remaining groups are offset-free
// (Offset stays -1) unless the failure point happens to be known.
const (
	// Syntax (decode-time)
	CodeUnexpectedToken = "unexpected_token"
	CodeUnexpectedEOF   = "unexpected_eof"
	CodeTrailingData    = "trailing_data"
	CodeDepthExceeded   = "depth_exceeded"
	// Text encoding
	CodeInvalidUTF8 = "invalid_utf8"
	// Serialization (encode-time)
	CodeUnsupportedType  = "unsupported_type"
	CodeNumberOutOfRange = "number_out_of_range"
	// I/O (underlying source or sink)
	CodeIO = "io_error"
)

// Error is the single error type returned by every decode and encode entry
// point. It is immutable once created; the first failure aborts the call and
// is returned verbatim.
type Error struct {
	Code    string // One of the codes listed above.
	Message string
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	Cause   error // Optional: underlying error (I/O failures, utf8, ...).
}

// Error renders "code at offset N: message"; the offset is omitted when
// unknown.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("benc: %s at offset %d: %s", e.Code, e.Offset, e.Message)
	}
	return fmt.Sprintf("benc: %s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts a *Error from an error using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsSyntax reports whether err is a decode-time syntax error (unexpected
// token, unexpected end of input, trailing data, or depth exceeded).
func IsSyntax(err error) bool {
	be, ok := AsError(err)
	if !ok {
		return false
	}
	switch be.Code {
	case CodeUnexpectedToken, CodeUnexpectedEOF, CodeTrailingData, CodeDepthExceeded:
		return true
	}
	return false
}

func syntaxErr(code string, offset int64, format string, args ...any) *Error {
	return &Error{Code: code, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func serErr(code, format string, args ...any) *Error {
	return &Error{Code: code, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

func ioErr(offset int64, cause error) *Error {
	return &Error{Code: CodeIO, Offset: offset, Message: cause.Error(), Cause: cause}
}
