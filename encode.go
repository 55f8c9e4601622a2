package benc

import (
	"bytes"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/reoring/benc/internal/wire"
)

// EncodeTo encodes the value walked by p as Bencode bytes written to w.
func EncodeTo(w io.Writer, p Producer, opts ...EncodeOpt) error {
	return p.Produce(NewEncoder(w, opts...))
}

// EncodeBytes encodes the value walked by p into an owned byte slice.
func EncodeBytes(p Producer, opts ...EncodeOpt) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, p, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeText encodes the value walked by p into a string, failing with
// invalid_utf8 when the encoded bytes are not valid UTF-8 text.
func EncodeText(p Producer, opts ...EncodeOpt) (string, error) {
	b, err := EncodeBytes(p, opts...)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", serErr(CodeInvalidUTF8, "encoded document is not valid UTF-8 text")
	}
	return string(b), nil
}

// Encoder writes Bencode tokens to an underlying sink. It implements
// Emitter; producers never touch the sink directly.
type Encoder struct {
	w        *countWriter
	depth    int
	maxDepth int
}

// NewEncoder returns an Encoder writing to w. Passing several options is
// allowed; the last one wins.
func NewEncoder(w io.Writer, opts ...EncodeOpt) *Encoder {
	var opt EncodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &Encoder{w: &countWriter{w: w}, maxDepth: effectiveDepth(opt.MaxDepth)}
}

func (e *Encoder) EmitString(s string) error {
	return e.wrapIO(wire.String(e.w, s))
}

func (e *Encoder) EmitInteger(v int64) error {
	return e.wrapIO(wire.Integer(e.w, v))
}

func (e *Encoder) EmitUnsigned(v uint64) error {
	if v > math.MaxInt64 {
		return serErr(CodeNumberOutOfRange, "number %d out of range", v)
	}
	return e.EmitInteger(int64(v))
}

func (e *Encoder) EmitFloat(f float64) error {
	t := math.Trunc(f)
	// 2^63 is exactly representable as a float64; anything at or beyond it
	// (or NaN) has no integer rendering.
	if math.IsNaN(t) || t >= 9223372036854775808.0 || t < -9223372036854775808.0 {
		return serErr(CodeNumberOutOfRange, "number %v out of range", f)
	}
	return e.EmitInteger(int64(t))
}

func (e *Encoder) EmitBool(b bool) error {
	return serErr(CodeUnsupportedType, "cannot encode bool %v", b)
}

func (e *Encoder) EmitBytes(b []byte) error {
	if err := e.push(); err != nil {
		return err
	}
	if err := wire.ListOpen(e.w); err != nil {
		return e.wrapIO(err)
	}
	for _, ch := range b {
		if err := wire.Integer(e.w, int64(ch)); err != nil {
			return e.wrapIO(err)
		}
	}
	if err := wire.ListClose(e.w); err != nil {
		return e.wrapIO(err)
	}
	e.depth--
	return nil
}

func (e *Encoder) EmitNothing() error { return nil }

func (e *Encoder) EmitList(n int) (*ListEncoder, error) {
	if err := e.push(); err != nil {
		return nil, err
	}
	if err := wire.ListOpen(e.w); err != nil {
		return nil, e.wrapIO(err)
	}
	le := &ListEncoder{e: e}
	if n == 0 {
		if err := wire.ListClose(e.w); err != nil {
			return nil, e.wrapIO(err)
		}
		e.depth--
		le.closed = true
	}
	return le, nil
}

func (e *Encoder) EmitDict(n int) (*DictEncoder, error) {
	if err := e.push(); err != nil {
		return nil, err
	}
	return &DictEncoder{e: e, entries: make(map[string][]byte, n)}, nil
}

func (e *Encoder) EmitUnitVariant(name string) error {
	return e.EmitString(name)
}

func (e *Encoder) EmitNewtypeVariant(name string, payload Producer) error {
	if err := e.push(); err != nil {
		return err
	}
	if err := wire.DictOpen(e.w); err != nil {
		return e.wrapIO(err)
	}
	if err := e.EmitString(name); err != nil {
		return err
	}
	before := e.w.n
	if err := payload.Produce(e); err != nil {
		return err
	}
	if e.w.n == before {
		return serErr(CodeUnsupportedType, "absent value cannot be a variant payload")
	}
	if err := wire.DictClose(e.w); err != nil {
		return e.wrapIO(err)
	}
	e.depth--
	return nil
}

func (e *Encoder) EmitTupleVariant(name string, n int) (*ListEncoder, error) {
	le, err := openVariant(e, name, func() (*ListEncoder, error) { return e.EmitList(n) })
	if err != nil {
		return nil, err
	}
	le.closeVariant = true
	return le, nil
}

func (e *Encoder) EmitStructVariant(name string, n int) (*DictEncoder, error) {
	de, err := openVariant(e, name, func() (*DictEncoder, error) { return e.EmitDict(n) })
	if err != nil {
		return nil, err
	}
	de.closeVariant = true
	return de, nil
}

// openVariant writes the one-entry wrapper dict's opening and tag, then
// opens the payload container.
func openVariant[T any](e *Encoder, name string, open func() (T, error)) (T, error) {
	var zero T
	if err := e.push(); err != nil {
		return zero, err
	}
	if err := wire.DictOpen(e.w); err != nil {
		return zero, e.wrapIO(err)
	}
	if err := e.EmitString(name); err != nil {
		return zero, err
	}
	return open()
}

// closeVariantDict writes the wrapper dict's terminator.
func (e *Encoder) closeVariantDict() error {
	if err := wire.DictClose(e.w); err != nil {
		return e.wrapIO(err)
	}
	e.depth--
	return nil
}

// subEncode renders a full encoder pass for p into an owned buffer,
// inheriting the current depth so the ceiling covers buffered subtrees too.
func (e *Encoder) subEncode(p Producer) ([]byte, error) {
	var buf bytes.Buffer
	sub := &Encoder{w: &countWriter{w: &buf}, depth: e.depth, maxDepth: e.maxDepth}
	if err := p.Produce(sub); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) push() error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return serErr(CodeDepthExceeded, "nesting depth exceeds %d", e.maxDepth)
	}
	return nil
}

func (e *Encoder) wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return ioErr(e.w.n, err)
}

// ListEncoder streams list elements in call order.
type ListEncoder struct {
	e            *Encoder
	closed       bool
	closeVariant bool
}

var errListClosed = errors.New("benc: Element called on a closed list")

// Element encodes one element. An element that produces zero bytes (an
// absent or unit value) is rejected: omitting it positionally would silently
// change the list's arity.
func (l *ListEncoder) Element(p Producer) error {
	if l.closed {
		return errListClosed
	}
	before := l.e.w.n
	if err := p.Produce(l.e); err != nil {
		return err
	}
	if l.e.w.n == before {
		return serErr(CodeUnsupportedType, "absent value cannot be a list element")
	}
	return nil
}

// End closes the list (and the wrapper dict for tuple variants). Lists
// declared empty are already closed; End is still safe to call.
func (l *ListEncoder) End() error {
	if !l.closed {
		if err := wire.ListClose(l.e.w); err != nil {
			return l.e.wrapIO(err)
		}
		l.e.depth--
		l.closed = true
	}
	if l.closeVariant {
		l.closeVariant = false
		return l.e.closeVariantDict()
	}
	return nil
}

// DictEncoder buffers key/value pairs for one dict and flushes them in
// canonical order when the dict ends. Each key and each value is rendered to
// an owned buffer by a full sub-encoder pass; pairs are stored keyed by the
// raw key bytes, so a duplicate key overwrites the earlier entry (last write
// wins). The buffer lives exactly as long as this dict's encoding.
type DictEncoder struct {
	e            *Encoder
	entries      map[string][]byte
	pendingKey   string
	havePending  bool
	closed       bool
	closeVariant bool
}

var (
	errDictClosed = errors.New("benc: call on a closed dict")
	errValueNoKey = errors.New("benc: Value called without a preceding Key")
	errKeyTwice   = errors.New("benc: Key called twice without a Value")
)

// Key renders the next entry's key by a full encoder pass and recovers the
// raw key bytes from it. A producer whose output is not a single string
// token is rejected: dict keys are strings, and canonical ordering compares
// the raw key bytes, not the rendered buffer. (Comparing rendered buffers
// would order "z" before "aa" because the length prefix sorts first.)
func (d *DictEncoder) Key(p Producer) error {
	if d.closed {
		return errDictClosed
	}
	if d.havePending {
		return errKeyTwice
	}
	kb, err := d.e.subEncode(p)
	if err != nil {
		return err
	}
	raw, ok := rawStringToken(kb)
	if !ok {
		return serErr(CodeUnsupportedType, "dict key must encode as a string")
	}
	d.pendingKey = raw
	d.havePending = true
	return nil
}

// rawStringToken extracts the payload of a rendered <len>:<bytes> token,
// reporting false when b is anything else.
func rawStringToken(b []byte) (string, bool) {
	i := bytes.IndexByte(b, ':')
	if i < 1 {
		return "", false
	}
	n, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil || n != int64(len(b)-i-1) {
		return "", false
	}
	return string(b[i+1:]), true
}

// KeyString is the common-case Key: a plain string key, taken as raw key
// bytes with no rendering pass needed.
func (d *DictEncoder) KeyString(key string) error {
	if d.closed {
		return errDictClosed
	}
	if d.havePending {
		return errKeyTwice
	}
	d.pendingKey = key
	d.havePending = true
	return nil
}

// Value renders the value for the most recent Key. A value that produces
// zero bytes (an absent or unit value) drops the whole entry from the dict.
func (d *DictEncoder) Value(p Producer) error {
	if d.closed {
		return errDictClosed
	}
	if !d.havePending {
		return errValueNoKey
	}
	d.havePending = false
	vb, err := d.e.subEncode(p)
	if err != nil {
		return err
	}
	if len(vb) == 0 {
		return nil
	}
	d.entries[d.pendingKey] = vb
	return nil
}

// Entry is the KeyString/Value pair in one call.
func (d *DictEncoder) Entry(key string, p Producer) error {
	if err := d.KeyString(key); err != nil {
		return err
	}
	return d.Value(p)
}

// End sorts the buffered entries ascending by raw key bytes and flushes the
// dict atomically: opening marker, each pair's key and value buffers
// verbatim, terminator.
func (d *DictEncoder) End() error {
	if d.closed {
		return errDictClosed
	}
	d.closed = true
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := wire.DictOpen(d.e.w); err != nil {
		return d.e.wrapIO(err)
	}
	for _, k := range keys {
		if err := wire.String(d.e.w, k); err != nil {
			return d.e.wrapIO(err)
		}
		if _, err := d.e.w.Write(d.entries[k]); err != nil {
			return d.e.wrapIO(err)
		}
	}
	if err := wire.DictClose(d.e.w); err != nil {
		return d.e.wrapIO(err)
	}
	d.e.depth--
	if d.closeVariant {
		d.closeVariant = false
		return d.e.closeVariantDict()
	}
	return nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
