// Package jsonbridge converts between Bencode documents and JSON, and in
// doing so provides the codec's reference Visitor and Producer
// implementations over generic value trees (string, int64, []any,
// map[string]any).
//
// The mapping is lossy in exactly the ways the wire format dictates: JSON
// fractions are truncated toward zero, JSON booleans are rejected, and JSON
// nulls vanish (dict entries are omitted, list nulls are an error).
package jsonbridge

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	benc "github.com/reoring/benc"
)

// ToJSON decodes one Bencode value from src and renders it as JSON.
func ToJSON(src benc.Source, opts ...benc.DecodeOpt) ([]byte, error) {
	var vv ValueVisitor
	if err := benc.DecodeFrom(&vv, src, opts...); err != nil {
		return nil, err
	}
	return json.Marshal(vv.Value())
}

// FromJSON parses a JSON document and encodes it as Bencode bytes. Dict keys
// come out in canonical order regardless of their order in the JSON text.
func FromJSON(data []byte, opts ...benc.EncodeOpt) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return benc.EncodeBytes(Value(v), opts...)
}

// ValueVisitor reconstructs a decoded document as a generic value tree:
// strings, int64, []any, and map[string]any.
type ValueVisitor struct {
	v any
}

// Value returns the reconstructed tree. Empty containers come back as empty
// (never nil) so they survive a JSON round trip as [] and {}.
func (vv *ValueVisitor) Value() any { return vv.v }

func (vv *ValueVisitor) VisitString(s string) error {
	vv.v = s
	return nil
}

func (vv *ValueVisitor) VisitInteger(v int64) error {
	vv.v = v
	return nil
}

func (vv *ValueVisitor) VisitList(l benc.ListAccess) error {
	arr := []any{}
	for {
		var elem ValueVisitor
		ok, err := l.Element(&elem)
		if err != nil {
			return err
		}
		if !ok {
			vv.v = arr
			return nil
		}
		arr = append(arr, elem.v)
	}
}

func (vv *ValueVisitor) VisitDict(d benc.DictAccess) error {
	m := map[string]any{}
	for {
		key, ok, err := d.Key()
		if err != nil {
			return err
		}
		if !ok {
			vv.v = m
			return nil
		}
		var val ValueVisitor
		if err := d.Value(&val); err != nil {
			return err
		}
		m[key] = val.v
	}
}

// Value wraps a generic value tree as a benc.Producer. Supported shapes:
// string, all Go integer and float kinds, bool (rejected by the encoder),
// []byte, []any, map[string]any, and nil (the absent value). Anything else
// fails with unsupported_type.
func Value(v any) benc.Producer {
	return benc.ProducerFunc(func(e benc.Emitter) error { return produce(e, v) })
}

func produce(e benc.Emitter, v any) error {
	switch x := v.(type) {
	case nil:
		return e.EmitNothing()
	case string:
		return e.EmitString(x)
	case int:
		return e.EmitInteger(int64(x))
	case int8:
		return e.EmitInteger(int64(x))
	case int16:
		return e.EmitInteger(int64(x))
	case int32:
		return e.EmitInteger(int64(x))
	case int64:
		return e.EmitInteger(x)
	case uint:
		return e.EmitUnsigned(uint64(x))
	case uint8:
		return e.EmitUnsigned(uint64(x))
	case uint16:
		return e.EmitUnsigned(uint64(x))
	case uint32:
		return e.EmitUnsigned(uint64(x))
	case uint64:
		return e.EmitUnsigned(x)
	case float32:
		return e.EmitFloat(float64(x))
	case float64:
		return e.EmitFloat(x)
	case bool:
		return e.EmitBool(x)
	case json.Number:
		return produceNumber(e, x)
	case []byte:
		return e.EmitBytes(x)
	case []any:
		le, err := e.EmitList(len(x))
		if err != nil {
			return err
		}
		for _, elem := range x {
			if err := le.Element(benc.ProducerFunc(func(e benc.Emitter) error { return produce(e, elem) })); err != nil {
				return err
			}
		}
		return le.End()
	case map[string]any:
		de, err := e.EmitDict(len(x))
		if err != nil {
			return err
		}
		for k, val := range x {
			if err := de.Entry(k, benc.ProducerFunc(func(e benc.Emitter) error { return produce(e, val) })); err != nil {
				return err
			}
		}
		return de.End()
	default:
		return fmt.Errorf("jsonbridge: unsupported value type %T", v)
	}
}

func produceNumber(e benc.Emitter, n json.Number) error {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return e.EmitInteger(i)
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return err
	}
	return e.EmitFloat(f)
}
