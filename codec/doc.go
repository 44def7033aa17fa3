// Package codec provides FuelVM ABI encoding and decoding.
//
// This package handles bidirectional conversion between typed values and
// the byte layout the FuelVM calling convention expects for contract call
// arguments, return data and logs.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ types.Value ←→ [Encoder / Decoder] ←→ call bytes           │
//	└─────────────────────────────────────────────────────────────┘
//
// # Packing Rules
//
// The encoding is an inline region followed by a heap region in one
// contiguous buffer:
//
//	Type            Inline form
//	────────────────────────────────────────────
//	()              nothing
//	bool, u8..u64   one word, big-endian
//	u256, b256      four words
//	str[n]          n bytes, zero-padded to a word
//	[T; n] fixed    n × T's inline form
//	tuple, struct   members concatenated in order
//	enum fixed      discriminant word + uniform payload slot
//	vec<T>, str     one pointer word
//	dynamic composite  one pointer word
//
// A pointer word is a big-endian byte offset into the heap region. The heap
// entry for a vector or dynamic string is a length word followed by the
// payload, zero-padded to a word; for a dynamic composite it is the
// composite's body. Nested dynamic payloads land in the same shared heap,
// after their parent entry, in pointer-emission order, with no gaps.
//
// Enum payloads are right-aligned in a slot sized to the widest variant:
// the VM pre-allocates uniform slot widths per declared type. Inactive
// variants contribute no bytes.
//
// # Encoding Flow
//
//  1. types.Resolve(schemaType, bindings) → *types.Descriptor
//  2. Encoder.Encode(value, desc) → []byte
//     or Encoder.EncodeArgs(values, descs) → []byte
//
// # Decoding Flow
//
//  1. Decoder.Decode(data, desc) → types.Value
//     or Decoder.DecodeResults(data, descs) → []types.Value
//
// # Guards
//
// Every call threads a private context carrying the nesting depth and the
// cumulative byte count. Options.MaxDepth and Options.MaxTotalBytes bound
// both; exceeding either aborts with depth_exceeded or size_exceeded. This
// is the defense against schema-driven unbounded recursion and memory
// exhaustion from untrusted input. Every decode read is bounds-checked; a
// truncated buffer yields insufficient_bytes naming the descriptor and the
// offset of the failed read.
//
// # Custom Codecs
//
// A Registry maps descriptor signatures to Codec overrides consulted before
// the generic walker, for fixed-size layouts whose generic walk is too
// costly (oversized fixed arrays). Overrides are format-preserving: their
// output is byte-identical to the generic rules.
//
// # Thread Safety
//
// Encoder, Decoder and Registry are safe for concurrent use. Descriptors
// are immutable and shared freely. Each call owns its context; a failed
// call leaves no shared state behind.
package codec
