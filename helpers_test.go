package benc_test

import (
	"testing"

	benc "github.com/reoring/benc"
	"github.com/reoring/benc/jsonbridge"
)

// decodeAny decodes one value into a generic tree via the jsonbridge
// visitor, the module's reference external collaborator.
func decodeAny(t *testing.T, input string, opts ...benc.DecodeOpt) (any, error) {
	t.Helper()
	var vv jsonbridge.ValueVisitor
	if err := benc.DecodeText(&vv, input, opts...); err != nil {
		return nil, err
	}
	return vv.Value(), nil
}

// encodeAny encodes a generic tree via the jsonbridge producer.
func encodeAny(t *testing.T, v any, opts ...benc.EncodeOpt) ([]byte, error) {
	t.Helper()
	return benc.EncodeBytes(jsonbridge.Value(v), opts...)
}

// wantCode asserts that err is a *benc.Error with the given code.
func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	be, ok := benc.AsError(err)
	if !ok {
		t.Fatalf("expected *benc.Error, got %T: %v", err, err)
	}
	if be.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, be.Code, be)
	}
}
