// Package errors provides structured error types for the fvm-abi library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: descriptor path, byte
// offset, type signature and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInsufficientBytes).
//		Path("user", "age").
//		Type("u64").
//		Offset(24).
//		Detail("need 8 bytes, have 2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Mismatch(errors.PhaseEncode, path, "struct value", "enum Color")
//	err := errors.InsufficientBytes(path, "u64", 24, 8, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
