package benc

// Producer is the capability the encoder consumes: it walks a typed value
// depth-first and issues one Emit call per scalar, or an open/element*/close
// sequence per composite. Binding host structs and enums to this interface
// is an adapter concern layered on top, not part of the codec core.
type Producer interface {
	Produce(e Emitter) error
}

// ProducerFunc adapts a plain function to the Producer interface.
type ProducerFunc func(e Emitter) error

func (f ProducerFunc) Produce(e Emitter) error { return f(e) }

// Emitter is the push surface implemented by *Encoder. Scalar calls write
// their token immediately; EmitList streams elements in call order while
// EmitDict buffers entries and flushes them in ascending byte order of key
// bytes when the dict ends.
type Emitter interface {
	// EmitString writes <byte-length>:<bytes>. The string is written as-is;
	// EncodeText rejects documents whose bytes end up outside UTF-8.
	EmitString(s string) error

	// EmitInteger writes i<decimal>e with a sign only for negative values.
	EmitInteger(v int64) error

	// EmitUnsigned writes the value as an integer token, failing with
	// number_out_of_range when v exceeds the signed 64-bit maximum.
	EmitUnsigned(v uint64) error

	// EmitFloat truncates toward zero and writes the result as an integer
	// token. Fractional precision is deliberately discarded; NaN and ±Inf
	// fail with number_out_of_range.
	EmitFloat(f float64) error

	// EmitBool always fails with unsupported_type: booleans have no Bencode
	// representation.
	EmitBool(b bool) error

	// EmitBytes writes the sequence as a list of per-byte integers,
	// consistent with treating strings as text.
	EmitBytes(b []byte) error

	// EmitNothing writes zero bytes. Valid at the root; a dict entry whose
	// value emits nothing is omitted from the dict, and a list element that
	// emits nothing is rejected.
	EmitNothing() error

	// EmitList opens a list. n is the declared element count; declaring zero
	// closes the list immediately.
	EmitList(n int) (*ListEncoder, error)

	// EmitDict opens a dict with a canonicalization buffer sized for n
	// entries.
	EmitDict(n int) (*DictEncoder, error)

	// EmitUnitVariant writes a tagless unit variant: just the tag name as a
	// string.
	EmitUnitVariant(name string) error

	// EmitNewtypeVariant writes {name: payload} as a one-entry dict.
	EmitNewtypeVariant(name string, payload Producer) error

	// EmitTupleVariant writes {name: [field...]}; fields are pushed through
	// the returned ListEncoder, whose End also closes the wrapper dict.
	EmitTupleVariant(name string, n int) (*ListEncoder, error)

	// EmitStructVariant writes {name: {field: value...}}; fields are pushed
	// through the returned DictEncoder, whose End also closes the wrapper
	// dict.
	EmitStructVariant(name string, n int) (*DictEncoder, error)
}
