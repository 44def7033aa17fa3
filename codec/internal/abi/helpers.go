package abi

import (
	"encoding/binary"
	"math"

	fvmabi "github.com/wippyai/fvm-abi"
)

// Word reads one big-endian word. The caller has already bounds-checked b.
func Word(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// PutWord writes one big-endian word.
func PutWord(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}

// AppendWord appends one big-endian word.
func AppendWord(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

// PadToWord rounds n up to the next word boundary.
func PadToWord(n uint64) uint64 {
	return (n + fvmabi.WordSize - 1) &^ uint64(fvmabi.WordSize-1)
}

func SafeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}
