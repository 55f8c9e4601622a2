// Package conformance ships the codec's wire-level case suite in a YAML
// form that other Bencode implementations can load and replay. The module's
// own tests execute the embedded default suite; downstream codecs can load
// their own.
package conformance

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed testdata/cases.yaml
var defaultSuite []byte

// Suite is one set of decode and encode cases.
type Suite struct {
	Decode []DecodeCase `yaml:"decode"`
	Encode []EncodeCase `yaml:"encode"`
}

// DecodeCase feeds Input to a decoder. When WantErr is empty the decoded
// value must equal Want; otherwise decoding must fail with that error code.
type DecodeCase struct {
	Name    string `yaml:"name"`
	Input   string `yaml:"input"`
	Want    any    `yaml:"want"`
	WantErr string `yaml:"want_err"`
}

// EncodeCase feeds Value to an encoder. When WantErr is empty the encoded
// bytes must equal Want; otherwise encoding must fail with that error code.
type EncodeCase struct {
	Name    string `yaml:"name"`
	Value   any    `yaml:"value"`
	Want    string `yaml:"want"`
	WantErr string `yaml:"want_err"`
}

// Load parses a YAML suite.
func Load(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("conformance: %w", err)
	}
	for i := range s.Decode {
		s.Decode[i].Want = Normalize(s.Decode[i].Want)
	}
	for i := range s.Encode {
		s.Encode[i].Value = Normalize(s.Encode[i].Value)
	}
	return &s, nil
}

// Default returns the suite embedded with the module.
func Default() (*Suite, error) { return Load(defaultSuite) }

// Normalize rewrites a YAML-decoded tree into the codec's generic value
// shapes: integers widen to int64 and nested containers are rewritten
// recursively. Strings, bools, floats, and nil pass through.
func Normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Normalize(e)
		}
		return out
	default:
		return v
	}
}
