package benc

// Visitor is the capability the decoder drives to reconstruct a typed value.
// Exactly one Visit method is invoked per decoded value; implementations are
// typically stateful and record what they saw. Binding host structs to this
// interface (reflection, code generation) is an adapter concern layered on
// top, not part of the codec core.
type Visitor interface {
	// VisitString receives a decoded string. Payload bytes have already been
	// validated as UTF-8.
	VisitString(s string) error

	// VisitInteger receives a decoded integer. Values are range-checked
	// during accumulation, so the full signed 64-bit domain is reachable and
	// nothing outside it is.
	VisitInteger(v int64) error

	// VisitList is invoked at a list opening. The implementation pulls
	// elements through l until it reports the end. Elements left unpulled
	// when VisitList returns are skipped by the decoder before it consumes
	// the terminator.
	VisitList(l ListAccess) error

	// VisitDict is invoked at a dict opening. The implementation alternates
	// Key and Value calls on d until Key reports the end. Entries left
	// unpulled when VisitDict returns are skipped by the decoder before it
	// consumes the terminator.
	VisitDict(d DictAccess) error
}

// ListAccess pulls the elements of the list currently being decoded.
type ListAccess interface {
	// Element decodes the next element into v. ok is false once the list
	// terminator has been reached, in which case v is not invoked.
	Element(v Visitor) (ok bool, err error)
}

// DictAccess pulls the entries of the dict currently being decoded. Each Key
// call that returns ok must be followed by exactly one Value call.
type DictAccess interface {
	// Key decodes the next key. ok is false once the dict terminator has
	// been reached. A non-string token in key position is a syntax error.
	Key() (key string, ok bool, err error)

	// Value decodes the value belonging to the most recent Key into v.
	Value(v Visitor) error
}
