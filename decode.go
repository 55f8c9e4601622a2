package benc

import (
	"errors"
	"io"
	"math"
	"unicode/utf8"
)

// DecodeFrom decodes exactly one Bencode value from src into v, then checks
// that no meaningful content trails the root value. The first failure aborts
// the call; there is no partial reconstruction or resynchronization.
func DecodeFrom(v Visitor, src Source, opts ...DecodeOpt) error {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	d := &decoder{src: src, maxDepth: effectiveDepth(opt.MaxDepth)}
	if err := d.value(v); err != nil {
		return err
	}
	return d.end()
}

// DecodeBytes decodes one value from an in-memory byte slice.
func DecodeBytes(v Visitor, b []byte, opts ...DecodeOpt) error {
	return DecodeFrom(v, Bytes(b), opts...)
}

// DecodeText decodes one value from the UTF-8 bytes of s.
func DecodeText(v Visitor, s string, opts ...DecodeOpt) error {
	return DecodeFrom(v, Text(s), opts...)
}

// DecodeReader decodes one value from an arbitrary io.Reader.
func DecodeReader(v Visitor, r io.Reader, opts ...DecodeOpt) error {
	return DecodeFrom(v, Reader(r), opts...)
}

// maxStringPrealloc caps the initial allocation for string payloads so a
// forged length cannot reserve arbitrary memory before the payload bytes are
// actually read.
const maxStringPrealloc = 1 << 16

type decoder struct {
	src      Source
	depth    int
	maxDepth int
}

// value decodes one value: dispatch on the first byte, then recurse per the
// grammar.
func (d *decoder) value(v Visitor) error {
	ch, err := d.next()
	if err != nil {
		return err
	}
	switch {
	case ch == 'd':
		return d.dict(v)
	case ch == 'l':
		return d.list(v)
	case ch == 'i':
		return d.integer(v)
	case ch >= '0' && ch <= '9':
		return d.str(ch, v)
	default:
		return d.unexpectedToken(ch)
	}
}

// end performs the top-level completion check: after the root value the next
// byte must be a container terminator or end of input.
func (d *decoder) end() error {
	ch, ok := d.src.Peek()
	if !ok || ch == 'e' {
		return nil
	}
	return syntaxErr(CodeTrailingData, d.src.Pos(), "unexpected trailing characters")
}

func (d *decoder) str(initLenDigit byte, v Visitor) error {
	if initLenDigit == '0' {
		colon, err := d.next()
		if err != nil {
			return err
		}
		if colon != ':' {
			return d.unexpectedToken(colon)
		}
		return v.VisitString("")
	}
	n := int64(initLenDigit - '0')
	for {
		ch, err := d.next()
		if err != nil {
			return err
		}
		if ch == ':' {
			break
		}
		if ch < '0' || ch > '9' {
			return d.unexpectedToken(ch)
		}
		digit := int64(ch - '0')
		if n > (math.MaxInt64-digit)/10 {
			return syntaxErr(CodeNumberOutOfRange, d.src.Pos(), "string length overflows int64")
		}
		n = n*10 + digit
	}
	buf := make([]byte, 0, min(n, maxStringPrealloc))
	for i := int64(0); i < n; i++ {
		ch, err := d.next()
		if err != nil {
			return err
		}
		buf = append(buf, ch)
	}
	if !utf8.Valid(buf) {
		return syntaxErr(CodeInvalidUTF8, d.src.Pos(), "string payload is not valid UTF-8")
	}
	return v.VisitString(string(buf))
}

func (d *decoder) integer(v Visitor) error {
	ch, err := d.next()
	if err != nil {
		return err
	}
	neg := ch == '-'
	if neg {
		ch, err = d.next()
		if err != nil {
			return err
		}
	}
	switch {
	case ch == '0':
		// Only "i0e" spells zero: no sign, no further digits.
		if neg {
			return d.unexpectedToken(ch)
		}
		end, err := d.next()
		if err != nil {
			return err
		}
		if end != 'e' {
			return d.unexpectedToken(end)
		}
		return v.VisitInteger(0)
	case ch >= '1' && ch <= '9':
		// Accumulate on the negative side so math.MinInt64 stays reachable.
		acc := -int64(ch - '0')
		for {
			ch, err = d.next()
			if err != nil {
				return err
			}
			if ch == 'e' {
				break
			}
			if ch < '0' || ch > '9' {
				return d.unexpectedToken(ch)
			}
			digit := int64(ch - '0')
			if acc < (math.MinInt64+digit)/10 {
				return syntaxErr(CodeNumberOutOfRange, d.src.Pos(), "integer overflows int64")
			}
			acc = acc*10 - digit
		}
		if !neg {
			if acc == math.MinInt64 {
				return syntaxErr(CodeNumberOutOfRange, d.src.Pos(), "integer overflows int64")
			}
			acc = -acc
		}
		return v.VisitInteger(acc)
	default:
		// Covers "ie", "i-e", and any stray byte after 'i'.
		return d.unexpectedToken(ch)
	}
}

func (d *decoder) list(v Visitor) error {
	if err := d.push(); err != nil {
		return err
	}
	la := &listAccess{d: d}
	if err := v.VisitList(la); err != nil {
		return err
	}
	if err := la.drain(); err != nil {
		return err
	}
	d.depth--
	return nil
}

func (d *decoder) dict(v Visitor) error {
	if err := d.push(); err != nil {
		return err
	}
	da := &dictAccess{d: d}
	if err := v.VisitDict(da); err != nil {
		return err
	}
	if err := da.drain(); err != nil {
		return err
	}
	d.depth--
	return nil
}

type listAccess struct {
	d    *decoder
	done bool
}

func (a *listAccess) Element(v Visitor) (bool, error) {
	if a.done {
		return false, nil
	}
	ch, ok := a.d.src.Peek()
	if !ok {
		return false, a.d.peekFailure()
	}
	if ch == 'e' {
		if _, err := a.d.next(); err != nil {
			return false, err
		}
		a.done = true
		return false, nil
	}
	if err := a.d.value(v); err != nil {
		return false, err
	}
	return true, nil
}

// drain consumes any elements the visitor left unpulled plus the terminator.
func (a *listAccess) drain() error {
	for {
		ok, err := a.Element(discardVisitor{})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

type dictAccess struct {
	d            *decoder
	done         bool
	pendingValue bool
}

func (a *dictAccess) Key() (string, bool, error) {
	if a.done {
		return "", false, nil
	}
	if a.pendingValue {
		// The visitor skipped the previous value; consume it here so the
		// stream stays aligned.
		a.pendingValue = false
		if err := a.d.value(discardVisitor{}); err != nil {
			return "", false, err
		}
	}
	ch, ok := a.d.src.Peek()
	if !ok {
		return "", false, a.d.peekFailure()
	}
	if ch == 'e' {
		if _, err := a.d.next(); err != nil {
			return "", false, err
		}
		a.done = true
		return "", false, nil
	}
	if ch < '0' || ch > '9' {
		return "", false, a.d.unexpectedToken(ch)
	}
	var key stringCapture
	if err := a.d.value(&key); err != nil {
		return "", false, err
	}
	a.pendingValue = true
	return key.s, true, nil
}

func (a *dictAccess) Value(v Visitor) error {
	if !a.pendingValue {
		return errMisusedDictAccess
	}
	a.pendingValue = false
	return a.d.value(v)
}

// drain consumes any entries the visitor left unpulled plus the terminator.
func (a *dictAccess) drain() error {
	for {
		_, ok, err := a.Key()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := a.Value(discardVisitor{}); err != nil {
			return err
		}
	}
}

// errMisusedDictAccess flags a Value call with no preceding Key. This is a
// caller bug, not a wire problem, so it is not a *Error.
var errMisusedDictAccess = errors.New("benc: DictAccess.Value called without a preceding Key")

// stringCapture accepts exactly one string; dict key positions are
// pre-checked for a digit, so the other visits are unreachable in practice.
type stringCapture struct {
	s string
}

func (c *stringCapture) VisitString(s string) error { c.s = s; return nil }
func (c *stringCapture) VisitInteger(int64) error   { return errKeyNotString }
func (c *stringCapture) VisitList(ListAccess) error { return errKeyNotString }
func (c *stringCapture) VisitDict(DictAccess) error { return errKeyNotString }

var errKeyNotString = &Error{Code: CodeUnexpectedToken, Offset: -1, Message: "dict key must be a string"}

// discardVisitor consumes a value without retaining it.
type discardVisitor struct{}

func (discardVisitor) VisitString(string) error { return nil }
func (discardVisitor) VisitInteger(int64) error { return nil }

func (discardVisitor) VisitList(l ListAccess) error {
	for {
		ok, err := l.Element(discardVisitor{})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (discardVisitor) VisitDict(d DictAccess) error {
	for {
		_, ok, err := d.Key()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := d.Value(discardVisitor{}); err != nil {
			return err
		}
	}
}

func (d *decoder) next() (byte, error) {
	ch, err := d.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, d.unexpectedEOF()
		}
		return 0, ioErr(d.src.Pos(), err)
	}
	return ch, nil
}

// peekFailure resolves a failed Peek into the real cause: clean end of input
// becomes unexpected_eof, anything else is the underlying I/O failure.
func (d *decoder) peekFailure() error {
	if _, err := d.src.Next(); err != nil && !errors.Is(err, io.EOF) {
		return ioErr(d.src.Pos(), err)
	}
	return d.unexpectedEOF()
}

func (d *decoder) push() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return syntaxErr(CodeDepthExceeded, d.src.Pos(), "nesting depth exceeds %d", d.maxDepth)
	}
	return nil
}

func (d *decoder) unexpectedToken(ch byte) *Error {
	return syntaxErr(CodeUnexpectedToken, d.src.Pos(), "unexpected token %q", ch)
}

func (d *decoder) unexpectedEOF() *Error {
	return syntaxErr(CodeUnexpectedEOF, d.src.Pos(), "unexpected end of input")
}
