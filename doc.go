package benc

// Package benc provides:
//
// - A streaming Bencode decoder driven through a Visitor capability (string/integer/list/dict)
// - A streaming Bencode encoder consumed through a Producer/Emitter capability, with canonical dict-key ordering
// - Byte sources over slices, strings, and io.Reader with byte-offset tracking
// - A stable error model via *Error (code, byte offset, cause) with depth enforcement on both paths
//
// Design policy:
// - Keep only public APIs in the root package; put byte scanning under internal/scan and token formatting under internal/wire.
// - Place JSON interop under jsonbridge/ and the shareable wire-case suite under conformance/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  var v myVisitor
//  err := benc.DecodeBytes(&v, data)
//
//  wire, err := benc.EncodeBytes(myProducer{value: doc})
//  err = benc.EncodeTo(w, myProducer{value: doc})
//
// Dict output is always canonical: keys are emitted in ascending byte order
// regardless of the order the producer pushed them.
