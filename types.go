package benc

// DefaultMaxDepth is the nesting ceiling applied when an option leaves
// MaxDepth at zero. Bencode documents in the wild stay far below this; the
// ceiling exists so pathological input fails with depth_exceeded instead of
// exhausting the goroutine stack.
const DefaultMaxDepth = 4096

// DecodeOpt bundles decoding options. Passing several is allowed; the last
// one wins.
type DecodeOpt struct {
	// MaxDepth bounds container nesting. 0 selects DefaultMaxDepth; a
	// negative value disables the check.
	MaxDepth int
}

// EncodeOpt bundles encoding options. Passing several is allowed; the last
// one wins.
type EncodeOpt struct {
	// MaxDepth bounds container nesting. 0 selects DefaultMaxDepth; a
	// negative value disables the check.
	MaxDepth int
}

func effectiveDepth(d int) int {
	if d == 0 {
		return DefaultMaxDepth
	}
	return d
}
