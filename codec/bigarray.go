package codec

import (
	"math"

	fvmabi "github.com/wippyai/fvm-abi"
	"github.com/wippyai/fvm-abi/codec/internal/abi"
	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

// UnrollThreshold is the element count above which encoding a fixed array
// through the generic walker is considered too costly and a FixedArrayCodec
// override is worth registering. It is a tunable, not a wire-format
// constant: overrides produce identical bytes at any threshold.
var UnrollThreshold = 256

// FixedArrayCodec is a custom codec for large fixed arrays of word-sized
// primitives. It produces output byte-identical to the generic walker while
// skipping the per-element descriptor walk.
type FixedArrayCodec struct {
	desc *types.Descriptor
}

// NewFixedArrayCodec builds an override for desc, which must be a fixed
// array of bool or an unsigned integer primitive.
func NewFixedArrayCodec(desc *types.Descriptor) (*FixedArrayCodec, error) {
	if desc.Kind != types.KindArray || !desc.IsFixed() {
		return nil, errors.Registration(desc.Signature(), "fixed array descriptor required")
	}
	switch desc.Elem.Kind {
	case types.KindBool, types.KindU8, types.KindU16, types.KindU32, types.KindU64:
	default:
		return nil, errors.Registration(desc.Signature(), "element kind "+desc.Elem.Kind.String()+" is not a word primitive")
	}
	return &FixedArrayCodec{desc: desc}, nil
}

// RegisterLargeArrays walks desc and registers a FixedArrayCodec for every
// fixed array of word primitives longer than threshold (UnrollThreshold
// when threshold is zero or negative).
func RegisterLargeArrays(reg *Registry, desc *types.Descriptor, threshold int) error {
	if threshold <= 0 {
		threshold = UnrollThreshold
	}
	return walkDescriptors(desc, func(d *types.Descriptor) error {
		if d.Kind != types.KindArray || !d.IsFixed() || d.Len <= threshold {
			return nil
		}
		c, err := NewFixedArrayCodec(d)
		if err != nil {
			// Not a word-primitive array; the generic walker keeps it.
			return nil
		}
		return reg.Register(d, c)
	})
}

func walkDescriptors(d *types.Descriptor, fn func(*types.Descriptor) error) error {
	if d == nil {
		return nil
	}
	if err := fn(d); err != nil {
		return err
	}
	if d.Elem != nil {
		if err := walkDescriptors(d.Elem, fn); err != nil {
			return err
		}
	}
	for _, f := range d.Fields {
		if err := walkDescriptors(f.Type, fn); err != nil {
			return err
		}
	}
	for _, v := range d.Variants {
		if err := walkDescriptors(v.Type, fn); err != nil {
			return err
		}
	}
	return nil
}

// Encode implements Codec.
func (c *FixedArrayCodec) Encode(v types.Value) ([]byte, error) {
	arr, ok := v.(types.ArrayValue)
	if !ok {
		return nil, errors.Mismatch(errors.PhaseEncode, nil, valueKind(v), c.desc.Signature())
	}
	if len(arr) != c.desc.Len {
		return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
			Type(c.desc.Signature()).
			Detail("array has %d elements, want %d", len(arr), c.desc.Len).
			Build()
	}

	out := make([]byte, 0, c.desc.InlineSize())
	for _, el := range arr {
		var w uint64
		switch ev := el.(type) {
		case types.BoolValue:
			if ev {
				w = 1
			}
		case types.U8Value:
			w = uint64(ev)
		case types.U16Value:
			w = uint64(ev)
		case types.U32Value:
			w = uint64(ev)
		case types.U64Value:
			w = uint64(ev)
		default:
			return nil, errors.Mismatch(errors.PhaseEncode, nil, valueKind(el), c.desc.Elem.Signature())
		}
		if el.Kind() != c.desc.Elem.Kind {
			return nil, errors.Mismatch(errors.PhaseEncode, nil, valueKind(el), c.desc.Elem.Signature())
		}
		out = abi.AppendWord(out, w)
	}
	return out, nil
}

// Decode implements Codec.
func (c *FixedArrayCodec) Decode(data []byte) (types.Value, error) {
	want := c.desc.InlineSize()
	if uint64(len(data)) != want {
		return nil, errors.InsufficientBytes(nil, c.desc.Signature(), 0, int(want), len(data))
	}

	elems := make([]types.Value, c.desc.Len)
	for i := range elems {
		w := abi.Word(data[i*fvmabi.WordSize:])
		var limit uint64
		switch c.desc.Elem.Kind {
		case types.KindBool:
			limit = 1
		case types.KindU8:
			limit = math.MaxUint8
		case types.KindU16:
			limit = math.MaxUint16
		case types.KindU32:
			limit = math.MaxUint32
		default:
			limit = math.MaxUint64
		}
		if w > limit {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Type(c.desc.Signature()).
				Offset(i * fvmabi.WordSize).
				Value(w).
				Detail("value %d overflows %s", w, c.desc.Elem.Kind).
				Build()
		}
		switch c.desc.Elem.Kind {
		case types.KindBool:
			elems[i] = types.BoolVal(w == 1)
		case types.KindU8:
			elems[i] = types.U8Val(uint8(w))
		case types.KindU16:
			elems[i] = types.U16Val(uint16(w))
		case types.KindU32:
			elems[i] = types.U32Val(uint32(w))
		default:
			elems[i] = types.U64Val(w)
		}
	}
	return types.ArrayValue(elems), nil
}

func valueKind(v types.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String() + " value"
}
