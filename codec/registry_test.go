package codec

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

func bigArrayVal(n int) types.ArrayValue {
	elems := make([]types.Value, n)
	for i := range elems {
		elems[i] = types.U64Val(uint64(i * 3))
	}
	return types.ArrayValue(elems)
}

// Custom codec equivalence: an override must produce output byte-identical
// to the generic walker for every value it accepts.
func TestFixedArrayCodecMatchesGenericEncoder(t *testing.T) {
	desc := types.NewArray(types.U64(), 300)
	val := bigArrayVal(300)

	generic, err := NewEncoder().Encode(val, desc)
	if err != nil {
		t.Fatalf("generic encode: %v", err)
	}

	reg := NewRegistry()
	fa, err := NewFixedArrayCodec(desc)
	if err != nil {
		t.Fatalf("NewFixedArrayCodec: %v", err)
	}
	if err := reg.Register(desc, fa); err != nil {
		t.Fatalf("Register: %v", err)
	}

	custom, err := NewEncoderWithOptions(Options{Registry: reg}).Encode(val, desc)
	if err != nil {
		t.Fatalf("custom encode: %v", err)
	}
	if !bytes.Equal(generic, custom) {
		t.Errorf("override output diverges from generic walker:\ngeneric %x\ncustom  %x", generic, custom)
	}
}

func TestFixedArrayCodecDecode(t *testing.T) {
	desc := types.NewArray(types.U16(), 280)
	elems := make([]types.Value, 280)
	for i := range elems {
		elems[i] = types.U16Val(uint16(i))
	}
	val := types.ArrayValue(elems)

	data, err := NewEncoder().Encode(val, desc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	reg := NewRegistry()
	if err := RegisterLargeArrays(reg, desc, 0); err != nil {
		t.Fatalf("RegisterLargeArrays: %v", err)
	}

	got, consumed, err := NewDecoderWithOptions(Options{Registry: reg}).Decode(data, desc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("consumed %d, want %d", consumed, len(data))
	}
	if !reflect.DeepEqual(got, val) {
		t.Error("decoded value differs from encoded value")
	}
}

// Overrides apply to nested occurrences too: a struct holding a large fixed
// array routes the array through the override while the rest of the struct
// stays on the generic walker.
func TestRegisterLargeArraysNested(t *testing.T) {
	arr := types.NewArray(types.U8(), 400)
	desc := types.NewStruct("Blob",
		types.NamedField("tag", types.U64()),
		types.NamedField("body", arr),
	)

	reg := NewRegistry()
	if err := RegisterLargeArrays(reg, desc, 0); err != nil {
		t.Fatalf("RegisterLargeArrays: %v", err)
	}
	if reg.lookup(arr.Signature()) == nil {
		t.Fatalf("no override registered for %s", arr.Signature())
	}
	if reg.lookup(desc.Signature()) != nil {
		t.Fatal("struct itself must not be overridden")
	}

	body := make([]types.Value, 400)
	for i := range body {
		body[i] = types.U8Val(uint8(i % 251))
	}
	val := types.StructVal("Blob",
		types.NamedValue("tag", types.U64Val(9)),
		types.NamedValue("body", types.ArrayVal(body...)),
	)

	generic, err := NewEncoder().Encode(val, desc)
	if err != nil {
		t.Fatalf("generic encode: %v", err)
	}
	custom, err := NewEncoderWithOptions(Options{Registry: reg}).Encode(val, desc)
	if err != nil {
		t.Fatalf("custom encode: %v", err)
	}
	if !bytes.Equal(generic, custom) {
		t.Error("nested override output diverges from generic walker")
	}
}

func TestRegisterLargeArraysRespectsThreshold(t *testing.T) {
	small := types.NewArray(types.U64(), 10)
	reg := NewRegistry()
	if err := RegisterLargeArrays(reg, small, 0); err != nil {
		t.Fatalf("RegisterLargeArrays: %v", err)
	}
	if reg.lookup(small.Signature()) != nil {
		t.Error("array below threshold must not be overridden")
	}

	if err := RegisterLargeArrays(reg, small, 5); err != nil {
		t.Fatalf("RegisterLargeArrays: %v", err)
	}
	if reg.lookup(small.Signature()) == nil {
		t.Error("array above explicit threshold must be overridden")
	}
}

func TestRegisterRejections(t *testing.T) {
	fa, err := NewFixedArrayCodec(types.NewArray(types.U64(), 4))
	if err != nil {
		t.Fatalf("NewFixedArrayCodec: %v", err)
	}

	tests := []struct {
		name  string
		desc  *types.Descriptor
		codec Codec
	}{
		{"dynamic descriptor", types.NewVector(types.U64()), fa},
		{"unresolved descriptor", types.NewArray(types.NewGeneric("T"), 4), fa},
		{"nil codec", types.NewArray(types.U64(), 4), nil},
	}
	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.desc, tt.codec)
			var abiErr *errors.Error
			if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindRegistration {
				t.Fatalf("got %v, want registration error", err)
			}
		})
	}
}

func TestNewFixedArrayCodecRejections(t *testing.T) {
	for _, desc := range []*types.Descriptor{
		types.NewVector(types.U64()),
		types.NewArray(types.String(), 4),
		types.NewArray(types.B256(), 4),
	} {
		if _, err := NewFixedArrayCodec(desc); err == nil {
			t.Errorf("NewFixedArrayCodec(%s): expected error", desc.Signature())
		}
	}
}

// An override that misreports its width is rejected rather than corrupting
// the inline region.
func TestEncoderRejectsWrongWidthOverride(t *testing.T) {
	desc := types.NewArray(types.U64(), 4)
	reg := NewRegistry()
	if err := reg.Register(desc, truncatingCodec{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := NewEncoderWithOptions(Options{Registry: reg}).
		Encode(bigArrayVal(4), desc)
	var abiErr *errors.Error
	if !stderrors.As(err, &abiErr) || abiErr.Kind != errors.KindInvalidData {
		t.Fatalf("got %v, want invalid data", err)
	}
}

type truncatingCodec struct{}

func (truncatingCodec) Encode(types.Value) ([]byte, error) { return []byte{1, 2, 3}, nil }
func (truncatingCodec) Decode([]byte) (types.Value, error) { return types.UnitVal(), nil }
