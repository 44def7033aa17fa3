package codec

import (
	"math"
	"strconv"

	"github.com/holiman/uint256"

	fvmabi "github.com/wippyai/fvm-abi"
	"github.com/wippyai/fvm-abi/codec/internal/abi"
	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

// Decoder reconstructs typed values from call bytes. It holds no per-call
// state; a single Decoder is safe for concurrent use.
type Decoder struct {
	opts Options
}

func NewDecoder() *Decoder {
	return &Decoder{opts: Options{}.withDefaults()}
}

func NewDecoderWithOptions(opts Options) *Decoder {
	return &Decoder{opts: opts.withDefaults()}
}

// Decode reconstructs one value from data. The returned count is the number
// of inline-region bytes the descriptor occupies; heap payloads referenced
// through pointer words live past that point in the same buffer.
func (dec *Decoder) Decode(data []byte, desc *types.Descriptor) (types.Value, int, error) {
	vals, consumed, err := dec.decodeRegion(data, []*types.Descriptor{desc}, false)
	if err != nil {
		return nil, 0, err
	}
	return vals[0], consumed, nil
}

// DecodeResults decodes a result list laid out the way EncodeArgs lays out
// arguments: inline slots in order, then the shared heap region.
func (dec *Decoder) DecodeResults(data []byte, descs []*types.Descriptor) ([]types.Value, error) {
	vals, _, err := dec.decodeRegion(data, descs, true)
	return vals, err
}

func (dec *Decoder) decodeRegion(data []byte, descs []*types.Descriptor, labelArgs bool) ([]types.Value, int, error) {
	var heapBase uint64
	for _, d := range descs {
		if !d.IsResolved() {
			return nil, 0, errors.New(errors.PhaseResolve, errors.KindUnresolvedGeneric).
				Type(d.Signature()).
				Detail("descriptor contains unbound generic parameters").
				Build()
		}
		heapBase += d.InlineSize()
	}

	ctx := newCallContext(dec.opts, errors.PhaseDecode)
	vals := make([]types.Value, 0, len(descs))
	var pos uint64

	for i, d := range descs {
		var path []string
		if labelArgs {
			path = []string{"result[" + strconv.Itoa(i) + "]"}
		}
		v, err := dec.decodeInline(data, pos, d, heapBase, ctx, path)
		if err != nil {
			return nil, 0, err
		}
		vals = append(vals, v)
		pos += d.InlineSize()
	}
	return vals, int(pos), nil
}

// decodeInline reads the inline form at pos: full bytes for fixed-size
// descriptors, a pointer word into the heap region for dynamic ones.
func (dec *Decoder) decodeInline(data []byte, pos uint64, d *types.Descriptor, heapBase uint64, ctx *callContext, path []string) (types.Value, error) {
	if dec.opts.Registry != nil && d.IsFixed() {
		if c := dec.opts.Registry.lookup(d.Signature()); c != nil {
			return dec.decodeCustom(c, data, pos, d, ctx, path)
		}
	}

	if !d.IsFixed() {
		ptr, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		payloadPos, ok := abi.SafeAddU64(heapBase, ptr)
		if !ok {
			return nil, errors.InsufficientBytes(clonePath(path), d.Signature(), int(pos), int(fvmabi.PointerWidth), 0)
		}
		return dec.decodePayload(data, payloadPos, d, heapBase, ctx, path)
	}

	switch d.Kind {
	case types.KindUnit:
		return types.UnitVal(), nil

	case types.KindBool:
		w, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		if w > 1 {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Offset(int(pos)).
				Value(w).
				Detail("bool word must be 0 or 1").
				Build()
		}
		return types.BoolVal(w == 1), nil

	case types.KindU8:
		return dec.decodeUint(data, pos, d, math.MaxUint8, ctx, path)

	case types.KindU16:
		return dec.decodeUint(data, pos, d, math.MaxUint16, ctx, path)

	case types.KindU32:
		return dec.decodeUint(data, pos, d, math.MaxUint32, ctx, path)

	case types.KindU64:
		w, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		return types.U64Val(w), nil

	case types.KindU256:
		b, err := dec.read(data, pos, fvmabi.B256Width, d, ctx, path)
		if err != nil {
			return nil, err
		}
		return types.U256Val(new(uint256.Int).SetBytes32(b)), nil

	case types.KindB256:
		b, err := dec.read(data, pos, fvmabi.B256Width, d, ctx, path)
		if err != nil {
			return nil, err
		}
		var out [32]byte
		copy(out[:], b)
		return types.B256Val(out), nil

	case types.KindString: // fixed str[n]
		b, err := dec.read(data, pos, d.InlineSize(), d, ctx, path)
		if err != nil {
			return nil, err
		}
		return types.StrVal(string(b[:d.Len])), nil

	case types.KindArray, types.KindTuple, types.KindStruct, types.KindEnum:
		if err := ctx.enter(path); err != nil {
			return nil, err
		}
		v, err := dec.decodeMembers(data, pos, d, heapBase, ctx, path)
		ctx.leave()
		return v, err

	case types.KindGeneric:
		return dec.decodeInline(data, pos, d.Elem, heapBase, ctx, path)

	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Detail("unhandled descriptor kind %s", d.Kind).
			Build()
	}
}

// decodeMembers reads a composite body at pos: each member's inline form in
// declared order. Serves fixed composites and dynamic composite heap
// entries alike.
func (dec *Decoder) decodeMembers(data []byte, pos uint64, d *types.Descriptor, heapBase uint64, ctx *callContext, path []string) (types.Value, error) {
	switch d.Kind {
	case types.KindArray:
		elems := make([]types.Value, d.Len)
		for i := range elems {
			v, err := dec.decodeInline(data, pos, d.Elem, heapBase, ctx, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			elems[i] = v
			pos += d.Elem.InlineSize()
		}
		return types.ArrayValue(elems), nil

	case types.KindTuple:
		members := make([]types.Value, len(d.Fields))
		for i, f := range d.Fields {
			v, err := dec.decodeInline(data, pos, f.Type, heapBase, ctx, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			members[i] = v
			pos += f.Type.InlineSize()
		}
		return types.TupleValue(members), nil

	case types.KindStruct:
		fields := make([]types.FieldValue, len(d.Fields))
		for i, f := range d.Fields {
			v, err := dec.decodeInline(data, pos, f.Type, heapBase, ctx, append(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = types.FieldValue{Name: f.Name, Value: v}
			pos += f.Type.InlineSize()
		}
		return types.StructValue{Name: d.Name, Fields: fields}, nil

	case types.KindEnum:
		disc, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		if disc >= uint64(len(d.Variants)) {
			return nil, errors.UnknownVariant(clonePath(path), d.Signature(), int(pos), disc, uint64(len(d.Variants)))
		}
		vd := d.Variants[disc]
		payloadPos := pos + fvmabi.DiscriminantWidth + (d.SlotSize() - vd.Type.InlineSize())
		payload, err := dec.decodeInline(data, payloadPos, vd.Type, heapBase, ctx, append(path, vd.Name))
		if err != nil {
			return nil, err
		}
		return types.EnumValue{Name: d.Name, Variant: disc, Payload: payload}, nil

	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Detail("descriptor kind %s is not a composite", d.Kind).
			Build()
	}
}

// decodePayload reads the heap entry of a dynamic value at pos.
func (dec *Decoder) decodePayload(data []byte, pos uint64, d *types.Descriptor, heapBase uint64, ctx *callContext, path []string) (types.Value, error) {
	for d.Kind == types.KindGeneric {
		d = d.Elem
	}

	switch d.Kind {
	case types.KindString: // dynamic
		n, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		b, err := dec.read(data, pos+fvmabi.LengthWidth, n, d, ctx, path)
		if err != nil {
			return nil, err
		}
		return types.StrVal(string(b)), nil

	case types.KindVector:
		n, err := dec.readWord(data, pos, d, ctx, path)
		if err != nil {
			return nil, err
		}
		if err := ctx.enter(path); err != nil {
			return nil, err
		}
		defer ctx.leave()

		// Reject a hostile length word before walking elements.
		elemSize := d.Elem.InlineSize()
		need, ok := abi.SafeMulU64(n, elemSize)
		if !ok {
			return nil, errors.InsufficientBytes(clonePath(path), d.Signature(), int(pos), math.MaxInt, len(data))
		}
		if end, ok := abi.SafeAddU64(pos+fvmabi.LengthWidth, need); !ok || end > uint64(len(data)) {
			return nil, errors.InsufficientBytes(clonePath(path), d.Signature(), int(pos), int(need), len(data)-int(pos))
		}

		var elems []types.Value
		if n > 0 {
			elems = make([]types.Value, 0, n)
		}
		elemPos := pos + fvmabi.LengthWidth
		for i := uint64(0); i < n; i++ {
			v, err := dec.decodeInline(data, elemPos, d.Elem, heapBase, ctx, append(path, "["+strconv.FormatUint(i, 10)+"]"))
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
			elemPos += elemSize
		}
		return types.VectorValue(elems), nil

	case types.KindArray, types.KindTuple, types.KindStruct, types.KindEnum:
		if err := ctx.enter(path); err != nil {
			return nil, err
		}
		v, err := dec.decodeMembers(data, pos, d, heapBase, ctx, path)
		ctx.leave()
		return v, err

	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Type(d.Signature()).
			Detail("descriptor kind %s has no dynamic payload form", d.Kind).
			Build()
	}
}

func (dec *Decoder) decodeCustom(c Codec, data []byte, pos uint64, d *types.Descriptor, ctx *callContext, path []string) (types.Value, error) {
	b, err := dec.read(data, pos, d.InlineSize(), d, ctx, path)
	if err != nil {
		return nil, err
	}
	v, err := c.Decode(b)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err,
			"custom codec for "+d.Signature())
	}
	return v, nil
}

func (dec *Decoder) decodeUint(data []byte, pos uint64, d *types.Descriptor, max uint64, ctx *callContext, path []string) (types.Value, error) {
	w, err := dec.readWord(data, pos, d, ctx, path)
	if err != nil {
		return nil, err
	}
	if w > max {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Type(d.Signature()).
			Offset(int(pos)).
			Value(w).
			Detail("value %d overflows %s", w, d.Kind).
			Build()
	}
	switch d.Kind {
	case types.KindU8:
		return types.U8Val(uint8(w)), nil
	case types.KindU16:
		return types.U16Val(uint16(w)), nil
	default:
		return types.U32Val(uint32(w)), nil
	}
}

// read returns n bytes at pos, bounds-checked; decoding never reads past
// the buffer end.
func (dec *Decoder) read(data []byte, pos, n uint64, d *types.Descriptor, ctx *callContext, path []string) ([]byte, error) {
	end, ok := abi.SafeAddU64(pos, n)
	if !ok || end > uint64(len(data)) {
		have := 0
		if pos < uint64(len(data)) {
			have = len(data) - int(pos)
		}
		return nil, errors.InsufficientBytes(clonePath(path), d.Signature(), int(pos), int(n), have)
	}
	if err := ctx.grow(n, path); err != nil {
		return nil, err
	}
	return data[pos:end], nil
}

func (dec *Decoder) readWord(data []byte, pos uint64, d *types.Descriptor, ctx *callContext, path []string) (uint64, error) {
	b, err := dec.read(data, pos, fvmabi.WordSize, d, ctx, path)
	if err != nil {
		return 0, err
	}
	return abi.Word(b), nil
}
