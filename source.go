package benc

import (
	"io"

	"github.com/reoring/benc/internal/scan"
)

// Source abstracts over polymorphic byte inputs. Next returns the next byte,
// failing with io.EOF on clean exhaustion (call sites map that to "no value"
// or unexpected_eof as context demands) and with any other error on an I/O
// failure. Peek returns the byte the next Next call will yield without
// consuming it; ok is false at end of input. Pos reports the number of bytes
// consumed so far, used only for diagnostics.
//
// Every Source honors the same Peek contract, including the reader-backed
// one, which keeps a one-byte lookahead buffer to do so.
type Source interface {
	Next() (byte, error)
	Peek() (ch byte, ok bool)
	Pos() int64
}

// Bytes wraps an in-memory byte slice as a Source. The slice is not copied.
func Bytes(b []byte) Source { return scan.NewSlice(b) }

// Text wraps the UTF-8 bytes of an owned string as a Source.
func Text(s string) Source { return scan.NewString(s) }

// Reader wraps an arbitrary io.Reader as a Source, counting bytes consumed.
// Readers that do not implement io.ByteReader are buffered internally.
func Reader(r io.Reader) Source { return scan.NewStream(r) }
