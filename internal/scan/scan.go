// Package scan supplies the byte sources consumed by the decoder: an
// in-memory slice, an owned string, and an arbitrary io.Reader. All three
// expose the same contract: Next yields the next byte (io.EOF when
// exhausted), Peek returns the byte the next Next call will yield without
// consuming it, and Pos reports how many bytes have been consumed so far.
package scan

import (
	"bufio"
	"io"
)

// SliceReader reads from an in-memory byte slice. Peek is a true one-byte
// lookahead; all operations are O(1).
type SliceReader struct {
	buf []byte
	pos int64
}

// NewSlice returns a SliceReader over b. The slice is not copied.
func NewSlice(b []byte) *SliceReader { return &SliceReader{buf: b} }

func (r *SliceReader) Next() (byte, error) {
	if r.pos >= int64(len(r.buf)) {
		return 0, io.EOF
	}
	ch := r.buf[r.pos]
	r.pos++
	return ch, nil
}

func (r *SliceReader) Peek() (byte, bool) {
	if r.pos >= int64(len(r.buf)) {
		return 0, false
	}
	return r.buf[r.pos], true
}

func (r *SliceReader) Pos() int64 { return r.pos }

// StringReader reads the UTF-8 bytes of an owned string without copying it
// into a slice.
type StringReader struct {
	s   string
	pos int64
}

// NewString returns a StringReader over s.
func NewString(s string) *StringReader { return &StringReader{s: s} }

func (r *StringReader) Next() (byte, error) {
	if r.pos >= int64(len(r.s)) {
		return 0, io.EOF
	}
	ch := r.s[r.pos]
	r.pos++
	return ch, nil
}

func (r *StringReader) Peek() (byte, bool) {
	if r.pos >= int64(len(r.s)) {
		return 0, false
	}
	return r.s[r.pos], true
}

func (r *StringReader) Pos() int64 { return r.pos }

// StreamReader reads from an arbitrary io.Reader one byte at a time,
// counting bytes consumed. Peek fills a one-byte lookahead buffer so that it
// always returns the next unread byte, matching the in-memory readers.
//
// A read failure observed during Peek is held and surfaced by the following
// Next call; Peek itself only reports "no byte available".
type StreamReader struct {
	br      io.ByteReader
	pos     int64
	la      byte
	haveLA  bool
	pending error
}

// NewStream returns a StreamReader over r. When r does not already implement
// io.ByteReader it is wrapped in a bufio.Reader.
func NewStream(r io.Reader) *StreamReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &StreamReader{br: br}
}

func (r *StreamReader) Next() (byte, error) {
	if r.haveLA {
		r.haveLA = false
		r.pos++
		return r.la, nil
	}
	if r.pending != nil {
		err := r.pending
		r.pending = nil
		return 0, err
	}
	ch, err := r.br.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return ch, nil
}

func (r *StreamReader) Peek() (byte, bool) {
	if r.haveLA {
		return r.la, true
	}
	if r.pending != nil {
		return 0, false
	}
	ch, err := r.br.ReadByte()
	if err != nil {
		r.pending = err
		return 0, false
	}
	r.la = ch
	r.haveLA = true
	return ch, true
}

func (r *StreamReader) Pos() int64 { return r.pos }
