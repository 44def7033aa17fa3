// Package fvmabi provides a Go implementation of the FuelVM contract ABI.
//
// This library converts typed Go-side values into the exact byte layout the
// FuelVM calling convention expects for contract call arguments, and converts
// raw returned or logged bytes back into typed values.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	fvmabi/              Root package with calling-convention constants and the Codec interface
//	├── types/           Type descriptor and value model, generic resolution, signatures
//	├── codec/           ABI encoding/decoding between typed values and call bytes
//	├── errors/          Structured error types for debugging
//	└── cmd/abidump/     CLI for decoding and encoding call buffers
//
// # Quick Start
//
// Encode and decode a value:
//
//	desc := types.NewStruct("Point",
//	    types.NamedField("x", types.U64()),
//	    types.NamedField("y", types.U64()),
//	)
//
//	enc := codec.NewEncoder()
//	data, err := enc.Encode(types.StructVal("Point",
//	    types.NamedValue("x", types.U64Val(1)),
//	    types.NamedValue("y", types.U64Val(2)),
//	), desc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dec := codec.NewDecoder()
//	val, _, err := dec.Decode(data, desc)
//
// # Wire Layout
//
// Values are laid out as an inline region followed by a heap region in one
// contiguous buffer:
//
//	┌──────────────────────────────┬─────────────────────────────┐
//	│ inline region                │ heap region                 │
//	│ fixed slots + pointer words  │ dynamic payloads, in order  │
//	└──────────────────────────────┴─────────────────────────────┘
//
// Fixed-size values occupy word-aligned big-endian slots inline. Dynamic
// values (vectors, dynamic strings, composites containing one) occupy a
// single pointer word inline whose value is a byte offset into the heap
// region; the payload itself (length word plus the element bytes) lives in
// the heap. See the codec package for the full packing rules.
//
// # Thread Safety
//
// Descriptors are immutable once resolved and safe for concurrent use across
// any number of encode and decode calls. Encoder and Decoder are stateless
// between calls; each call owns its own context.
//
// # Compatibility
//
// Word size, pointer-word width and discriminant width are pinned to the
// FuelVM calling convention and exported as constants from this package.
// They form a versioned compatibility contract: changing them breaks wire
// compatibility with deployed contracts.
package fvmabi
