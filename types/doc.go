// Package types defines the descriptor and value model for the FuelVM ABI.
//
// A Descriptor is the resolved, concrete shape of a schema type: primitives,
// fixed and dynamic strings, arrays, vectors, tuples, structs, enums and
// generic parameters. Descriptors are built once from a contract schema,
// immutable afterwards, and shared read-only across any number of concurrent
// encode and decode calls.
//
// A Value is the host-side runtime value, a closed sum over the same kinds.
// Values conform to a descriptor when their shape matches; the codec package
// checks conformance while walking.
//
// Resolve substitutes generic parameters with concrete bindings:
//
//	pair := types.NewStruct("Pair",
//	    types.NamedField("a", types.NewGeneric("T")),
//	    types.NamedField("b", types.NewGeneric("T")),
//	)
//	concrete, err := types.Resolve(pair, map[string]*types.Descriptor{
//	    "T": types.U64(),
//	})
//
// Every descriptor carries cached layout facts: whether it is fixed-size
// and the number of bytes it occupies inline (its full width when fixed,
// one pointer word when dynamic).
package types
