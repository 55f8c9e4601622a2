// Package wire holds the stateless byte-emission rules for Bencode tokens.
// Each function renders exactly one token to the writer; composition and
// ordering concerns stay with the encoder.
package wire

import (
	"io"
	"strconv"
)

// String writes a length-prefixed string token: <len>:<bytes>. The length is
// the exact byte count of s.
func String(w io.Writer, s string) error {
	buf := strconv.AppendInt(nil, int64(len(s)), 10)
	buf = append(buf, ':')
	buf = append(buf, s...)
	_, err := w.Write(buf)
	return err
}

// Integer writes an integer token: i<decimal>e, with a sign only for
// negative values and no leading zeros.
func Integer(w io.Writer, v int64) error {
	buf := make([]byte, 0, 24)
	buf = append(buf, 'i')
	buf = strconv.AppendInt(buf, v, 10)
	buf = append(buf, 'e')
	_, err := w.Write(buf)
	return err
}

// ListOpen writes the list opening marker.
func ListOpen(w io.Writer) error { return writeByte(w, 'l') }

// ListClose writes the list terminator.
func ListClose(w io.Writer) error { return writeByte(w, 'e') }

// DictOpen writes the dict opening marker.
func DictOpen(w io.Writer) error { return writeByte(w, 'd') }

// DictClose writes the dict terminator.
func DictClose(w io.Writer) error { return writeByte(w, 'e') }

func writeByte(w io.Writer, ch byte) error {
	_, err := w.Write([]byte{ch})
	return err
}
