package benc_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	benc "github.com/reoring/benc"
	"github.com/reoring/benc/jsonbridge"
)

func TestEncode_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "spam", "4:spam"},
		{"empty string", "", "0:"},
		{"integer", int64(42), "i42e"},
		{"negative integer", int64(-42), "i-42e"},
		{"zero", int64(0), "i0e"},
		{"int64 minimum", int64(math.MinInt64), "i-9223372036854775808e"},
		{"float truncates toward zero", 3.7, "i3e"},
		{"negative float truncates toward zero", -3.7, "i-3e"},
		{"bytes as integer list", []byte{1, 2, 255}, "li1ei2ei255ee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeAny(t, tt.value)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("encode %v = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestEncode_BooleanUnsupported(t *testing.T) {
	for _, b := range []bool{true, false} {
		_, err := encodeAny(t, b)
		wantCode(t, err, benc.CodeUnsupportedType)
	}
}

func TestEncode_UnsignedRange(t *testing.T) {
	got, err := encodeAny(t, uint64(math.MaxInt64))
	if err != nil {
		t.Fatalf("2^63-1 should encode: %v", err)
	}
	if string(got) != "i9223372036854775807e" {
		t.Fatalf("got %q", got)
	}
	_, err = encodeAny(t, uint64(math.MaxInt64)+1)
	wantCode(t, err, benc.CodeNumberOutOfRange)
}

func TestEncode_FloatSpecials(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e30} {
		_, err := encodeAny(t, f)
		wantCode(t, err, benc.CodeNumberOutOfRange)
	}
}

func TestEncode_CanonicalDictOrder(t *testing.T) {
	// Entries pushed b-first must still flush a-first.
	p := benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(2)
		if err != nil {
			return err
		}
		if err := de.Entry("b", intProducer(1)); err != nil {
			return err
		}
		if err := de.Entry("a", intProducer(2)); err != nil {
			return err
		}
		return de.End()
	})
	got, err := benc.EncodeBytes(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "d1:ai2e1:bi1ee" {
		t.Fatalf("got %q, want d1:ai2e1:bi1ee", got)
	}
}

func TestEncode_CanonicalOrderComparesRawKeyBytes(t *testing.T) {
	// "aa" sorts before "z" even though its rendered token "2:aa" would
	// sort after "1:z".
	got, err := encodeAny(t, map[string]any{"z": int64(1), "aa": int64(2)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "d2:aai2e1:zi1ee" {
		t.Fatalf("got %q, want d2:aai2e1:zi1ee", got)
	}
}

func TestEncode_DictKeyMustBeString(t *testing.T) {
	err := benc.EncodeTo(&bytes.Buffer{}, benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(1)
		if err != nil {
			return err
		}
		return de.Key(intProducer(1))
	}))
	wantCode(t, err, benc.CodeUnsupportedType)
}

func TestEncode_DictSplitKeyValueCalls(t *testing.T) {
	p := benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(1)
		if err != nil {
			return err
		}
		if err := de.Key(stringProducer("spam")); err != nil {
			return err
		}
		if err := de.Value(stringProducer("eggs")); err != nil {
			return err
		}
		return de.End()
	})
	got, err := benc.EncodeBytes(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "d4:spam4:eggse" {
		t.Fatalf("got %q", got)
	}
}

func TestEncode_DictDuplicateKeyLastWins(t *testing.T) {
	p := benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(2)
		if err != nil {
			return err
		}
		if err := de.Entry("a", intProducer(1)); err != nil {
			return err
		}
		if err := de.Entry("a", intProducer(2)); err != nil {
			return err
		}
		return de.End()
	})
	got, err := benc.EncodeBytes(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "d1:ai2ee" {
		t.Fatalf("got %q", got)
	}
}

func TestEncode_DictMisuse(t *testing.T) {
	err := benc.EncodeTo(&bytes.Buffer{}, benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(1)
		if err != nil {
			return err
		}
		return de.Value(intProducer(1))
	}))
	if err == nil {
		t.Fatalf("Value without Key must fail")
	}
}

func TestEncode_DeclaredEmptyList(t *testing.T) {
	p := benc.ProducerFunc(func(e benc.Emitter) error {
		le, err := e.EmitList(0)
		if err != nil {
			return err
		}
		return le.End()
	})
	got, err := benc.EncodeBytes(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "le" {
		t.Fatalf("got %q", got)
	}
}

func TestEncode_AbsentValues(t *testing.T) {
	// At the root an absent value renders as zero bytes.
	got, err := benc.EncodeBytes(benc.ProducerFunc(func(e benc.Emitter) error { return e.EmitNothing() }))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero bytes, got %q", got)
	}

	// A dict entry whose value is absent drops out of the dict.
	got, err = encodeAny(t, map[string]any{"a": nil, "b": int64(1)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(got) != "d1:bi1ee" {
		t.Fatalf("got %q, want d1:bi1ee", got)
	}

	// A list element cannot be absent.
	_, err = encodeAny(t, []any{nil})
	wantCode(t, err, benc.CodeUnsupportedType)
}

func TestEncode_Variants(t *testing.T) {
	t.Run("unit", func(t *testing.T) {
		got, err := benc.EncodeBytes(benc.ProducerFunc(func(e benc.Emitter) error {
			return e.EmitUnitVariant("Quit")
		}))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(got) != "4:Quit" {
			t.Fatalf("got %q", got)
		}
	})
	t.Run("newtype", func(t *testing.T) {
		got, err := benc.EncodeBytes(benc.ProducerFunc(func(e benc.Emitter) error {
			return e.EmitNewtypeVariant("Port", intProducer(8080))
		}))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(got) != "d4:Porti8080ee" {
			t.Fatalf("got %q", got)
		}
	})
	t.Run("tuple", func(t *testing.T) {
		got, err := benc.EncodeBytes(benc.ProducerFunc(func(e benc.Emitter) error {
			le, err := e.EmitTupleVariant("Move", 2)
			if err != nil {
				return err
			}
			if err := le.Element(intProducer(3)); err != nil {
				return err
			}
			if err := le.Element(intProducer(4)); err != nil {
				return err
			}
			return le.End()
		}))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(got) != "d4:Moveli3ei4eee" {
			t.Fatalf("got %q", got)
		}
	})
	t.Run("struct", func(t *testing.T) {
		got, err := benc.EncodeBytes(benc.ProducerFunc(func(e benc.Emitter) error {
			de, err := e.EmitStructVariant("Write", 2)
			if err != nil {
				return err
			}
			if err := de.Entry("y", intProducer(2)); err != nil {
				return err
			}
			if err := de.Entry("x", intProducer(1)); err != nil {
				return err
			}
			return de.End()
		}))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(got) != "d5:Writed1:xi1e1:yi2eee" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestEncode_DepthCeiling(t *testing.T) {
	var nest func(n int) benc.Producer
	nest = func(n int) benc.Producer {
		return benc.ProducerFunc(func(e benc.Emitter) error {
			if n == 0 {
				return e.EmitInteger(0)
			}
			le, err := e.EmitList(1)
			if err != nil {
				return err
			}
			if err := le.Element(nest(n - 1)); err != nil {
				return err
			}
			return le.End()
		})
	}
	_, err := benc.EncodeBytes(nest(32), benc.EncodeOpt{MaxDepth: 16})
	wantCode(t, err, benc.CodeDepthExceeded)
	if _, err := benc.EncodeBytes(nest(32), benc.EncodeOpt{MaxDepth: 32}); err != nil {
		t.Fatalf("depth 32 should fit a ceiling of 32: %v", err)
	}
}

func TestEncode_BufferedDictRespectsDepthCeiling(t *testing.T) {
	// Values buffered inside a dict still count nesting from the dict down.
	p := benc.ProducerFunc(func(e benc.Emitter) error {
		de, err := e.EmitDict(1)
		if err != nil {
			return err
		}
		if err := de.Entry("k", benc.ProducerFunc(func(e benc.Emitter) error {
			le, err := e.EmitList(1)
			if err != nil {
				return err
			}
			if err := le.Element(intProducer(1)); err != nil {
				return err
			}
			return le.End()
		})); err != nil {
			return err
		}
		return de.End()
	})
	_, err := benc.EncodeBytes(p, benc.EncodeOpt{MaxDepth: 1})
	wantCode(t, err, benc.CodeDepthExceeded)
}

func TestEncodeText_RejectsNonUTF8Output(t *testing.T) {
	_, err := benc.EncodeText(stringProducer("\xff\xfe"))
	wantCode(t, err, benc.CodeInvalidUTF8)
}

type failingWriter struct{ err error }

func (w *failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestEncode_SinkFailurePropagatesAsIO(t *testing.T) {
	boom := errors.New("pipe closed")
	err := benc.EncodeTo(&failingWriter{err: boom}, stringProducer("spam"))
	wantCode(t, err, benc.CodeIO)
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to unwrap to the sink error, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []any{
		"",
		"Hello, World!",
		int64(0),
		int64(-42),
		int64(math.MaxInt64),
		int64(math.MinInt64),
		[]any{},
		[]any{"spam", int64(7), []any{"nested"}},
		map[string]any{},
		map[string]any{
			"s": "Hello, World!",
			"i": int64(42),
			"v": []any{
				map[string]any{"x": int64(1), "y": int64(2)},
				map[string]any{"x": int64(4), "y": int64(7)},
				map[string]any{"x": int64(8), "y": int64(19)},
			},
		},
	}
	for _, v := range values {
		wire, err := encodeAny(t, v)
		if err != nil {
			t.Fatalf("encode %v: %v", v, err)
		}
		var vv jsonbridge.ValueVisitor
		if err := benc.DecodeBytes(&vv, wire); err != nil {
			t.Fatalf("decode %q: %v", wire, err)
		}
		if diff := cmp.Diff(v, vv.Value()); diff != "" {
			t.Fatalf("round trip of %q mismatch (-want +got):\n%s", wire, diff)
		}
	}
}

// intProducer and stringProducer are the smallest useful producers.
func intProducer(v int64) benc.Producer {
	return benc.ProducerFunc(func(e benc.Emitter) error { return e.EmitInteger(v) })
}

func stringProducer(s string) benc.Producer {
	return benc.ProducerFunc(func(e benc.Emitter) error { return e.EmitString(s) })
}
