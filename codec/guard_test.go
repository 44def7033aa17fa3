package codec

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

func nestedVectorDesc(depth int) *types.Descriptor {
	d := types.U8()
	for i := 0; i < depth; i++ {
		d = types.NewVector(d)
	}
	return d
}

func nestedVectorVal(depth int) types.Value {
	v := types.Value(types.U8Val(1))
	for i := 0; i < depth; i++ {
		v = types.VectorVal(v)
	}
	return v
}

func TestEncodeDepthLimit(t *testing.T) {
	const limit = 4

	enc := NewEncoderWithOptions(Options{MaxDepth: limit})

	// At the limit: fine.
	if _, err := enc.Encode(nestedVectorVal(limit), nestedVectorDesc(limit)); err != nil {
		t.Fatalf("depth %d within limit %d: %v", limit, limit, err)
	}

	// One past the limit: rejected, no partial output.
	_, err := enc.Encode(nestedVectorVal(limit+1), nestedVectorDesc(limit+1))
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindDepthExceeded {
		t.Fatalf("depth %d with limit %d: got %v, want depth exceeded", limit+1, limit, err)
	}
	if abiErr.Phase != errors.PhaseEncode {
		t.Errorf("phase %q, want %q", abiErr.Phase, errors.PhaseEncode)
	}
}

// Heap payloads are encoded after their enclosing entry completes, so the
// depth counter must carry the pointer-emission depth into each child
// rather than restarting from the top of the heap walk.
func TestEncodeDepthLimitDeepNesting(t *testing.T) {
	enc := NewEncoderWithOptions(Options{MaxDepth: 1})

	_, err := enc.Encode(nestedVectorVal(200), nestedVectorDesc(200))
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindDepthExceeded {
		t.Fatalf("depth 200 with limit 1: got %v, want depth exceeded", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	const limit = 4

	deep := limit + 1
	data, err := NewEncoder().Encode(nestedVectorVal(deep), nestedVectorDesc(deep))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec := NewDecoderWithOptions(Options{MaxDepth: limit})
	_, _, err = dec.Decode(data, nestedVectorDesc(deep))
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindDepthExceeded {
		t.Fatalf("got %v, want depth exceeded", err)
	}
	if abiErr.Phase != errors.PhaseDecode {
		t.Errorf("phase %q, want %q", abiErr.Phase, errors.PhaseDecode)
	}
}

func TestEncodeSizeLimit(t *testing.T) {
	elems := make([]types.Value, 100)
	for i := range elems {
		elems[i] = types.U64Val(uint64(i))
	}
	desc := types.NewVector(types.U64())
	val := types.VectorVal(elems...)

	// 100 u64 elements plus length word and pointer exceed 256 bytes.
	enc := NewEncoderWithOptions(Options{MaxTotalBytes: 256})
	_, err := enc.Encode(val, desc)
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindSizeExceeded {
		t.Fatalf("got %v, want size exceeded", err)
	}

	// The same value passes with the default budget.
	if _, err := NewEncoder().Encode(val, desc); err != nil {
		t.Fatalf("default budget: %v", err)
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	elems := make([]types.Value, 100)
	for i := range elems {
		elems[i] = types.U64Val(uint64(i))
	}
	desc := types.NewVector(types.U64())

	data, err := NewEncoder().Encode(types.VectorVal(elems...), desc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec := NewDecoderWithOptions(Options{MaxTotalBytes: 256})
	_, _, err = dec.Decode(data, desc)
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindSizeExceeded {
		t.Fatalf("got %v, want size exceeded", err)
	}
}

// Limits are per call, not per codec: a failed call must not poison the next.
func TestGuardsResetBetweenCalls(t *testing.T) {
	enc := NewEncoderWithOptions(Options{MaxDepth: 2})

	if _, err := enc.Encode(nestedVectorVal(3), nestedVectorDesc(3)); err == nil {
		t.Fatal("expected depth error")
	}
	if _, err := enc.Encode(nestedVectorVal(2), nestedVectorDesc(2)); err != nil {
		t.Fatalf("second call: %v", err)
	}
}
