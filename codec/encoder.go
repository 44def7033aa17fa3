package codec

import (
	"strconv"

	"go.uber.org/zap"

	fvmabi "github.com/wippyai/fvm-abi"
	"github.com/wippyai/fvm-abi/codec/internal/abi"
	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

var zeroWord [fvmabi.WordSize]byte

// Encoder converts typed values into the call byte layout. It holds no
// per-call state; a single Encoder is safe for concurrent use.
type Encoder struct {
	opts Options
}

func NewEncoder() *Encoder {
	return &Encoder{opts: Options{}.withDefaults()}
}

func NewEncoderWithOptions(opts Options) *Encoder {
	return &Encoder{opts: opts.withDefaults()}
}

// pending is a dynamic payload whose pointer word has been emitted as a
// placeholder and whose bytes are appended to the heap once the enclosing
// region is complete.
type pending struct {
	val   types.Value
	desc  *types.Descriptor
	path  []string
	pos   int // pointer word position within the region being built
	depth int // nesting depth at pointer emission
}

// Encode produces the full encoding of one value: the inline region
// followed by the heap region in a single contiguous buffer.
func (e *Encoder) Encode(value types.Value, desc *types.Descriptor) ([]byte, error) {
	return e.encodeRegion([]types.Value{value}, []*types.Descriptor{desc}, false)
}

// EncodeArgs encodes a function argument list: each argument occupies its
// inline slots in order, followed by the shared heap region. The heap is a
// single contiguous area for the whole call, so nested dynamic values never
// allocate separate regions.
func (e *Encoder) EncodeArgs(values []types.Value, descs []*types.Descriptor) ([]byte, error) {
	if len(values) != len(descs) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("argument count mismatch: %d values, %d descriptors", len(values), len(descs)).
			Build()
	}
	return e.encodeRegion(values, descs, true)
}

func (e *Encoder) encodeRegion(values []types.Value, descs []*types.Descriptor, labelArgs bool) ([]byte, error) {
	var inlineTotal uint64
	for _, d := range descs {
		if !d.IsResolved() {
			return nil, errors.New(errors.PhaseResolve, errors.KindUnresolvedGeneric).
				Type(d.Signature()).
				Detail("descriptor contains unbound generic parameters").
				Build()
		}
		inlineTotal += d.InlineSize()
	}

	ctx := newCallContext(e.opts, errors.PhaseEncode)
	region := make([]byte, 0, inlineTotal)
	var pends []pending
	var err error

	for i := range values {
		var path []string
		if labelArgs {
			path = []string{"arg[" + strconv.Itoa(i) + "]"}
		}
		region, err = e.encodeInline(values[i], descs[i], region, &pends, ctx, path)
		if err != nil {
			return nil, err
		}
	}

	for _, p := range pends {
		ctx.depth = p.depth
		off, err := e.appendPayload(p.val, p.desc, ctx, p.path)
		if err != nil {
			return nil, err
		}
		abi.PutWord(region[p.pos:], off)
	}

	inlineLen := len(region)
	out := append(region, ctx.heap...)
	Logger().Debug("encoded call data",
		zap.Int("inline_bytes", inlineLen),
		zap.Int("heap_bytes", len(ctx.heap)),
		zap.Int("total_bytes", len(out)))
	return out, nil
}

// encodeInline writes the inline form of value into buf: full bytes for
// fixed-size descriptors, a placeholder pointer word for dynamic ones.
func (e *Encoder) encodeInline(v types.Value, d *types.Descriptor, buf []byte, pends *[]pending, ctx *callContext, path []string) ([]byte, error) {
	if e.opts.Registry != nil && d.IsFixed() {
		if c := e.opts.Registry.lookup(d.Signature()); c != nil {
			return e.encodeCustom(c, v, d, buf, ctx, path)
		}
	}

	if !d.IsFixed() {
		if err := ctx.grow(fvmabi.PointerWidth, path); err != nil {
			return nil, err
		}
		*pends = append(*pends, pending{val: v, desc: d, pos: len(buf), path: clonePath(path), depth: ctx.depth})
		return append(buf, zeroWord[:]...), nil
	}

	switch d.Kind {
	case types.KindUnit:
		if _, ok := v.(types.UnitValue); !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		return buf, nil

	case types.KindBool:
		b, ok := v.(types.BoolValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if err := ctx.grow(fvmabi.WordSize, path); err != nil {
			return nil, err
		}
		var w uint64
		if b {
			w = 1
		}
		return abi.AppendWord(buf, w), nil

	case types.KindU8:
		n, ok := v.(types.U8Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		return e.appendWordChecked(buf, uint64(n), ctx, path)

	case types.KindU16:
		n, ok := v.(types.U16Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		return e.appendWordChecked(buf, uint64(n), ctx, path)

	case types.KindU32:
		n, ok := v.(types.U32Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		return e.appendWordChecked(buf, uint64(n), ctx, path)

	case types.KindU64:
		n, ok := v.(types.U64Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		return e.appendWordChecked(buf, uint64(n), ctx, path)

	case types.KindU256:
		u, ok := v.(types.U256Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if err := ctx.grow(fvmabi.B256Width, path); err != nil {
			return nil, err
		}
		if u.Int == nil {
			return append(buf, make([]byte, fvmabi.B256Width)...), nil
		}
		b32 := u.Int.Bytes32()
		return append(buf, b32[:]...), nil

	case types.KindB256:
		b, ok := v.(types.B256Value)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if err := ctx.grow(fvmabi.B256Width, path); err != nil {
			return nil, err
		}
		return append(buf, b[:]...), nil

	case types.KindString: // fixed str[n]
		s, ok := v.(types.StringValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if len(s) != d.Len {
			return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Detail("string length %d, want %d", len(s), d.Len).
				Build()
		}
		if err := ctx.grow(d.InlineSize(), path); err != nil {
			return nil, err
		}
		buf = append(buf, s...)
		return padWord(buf), nil

	case types.KindArray, types.KindTuple, types.KindStruct, types.KindEnum:
		if err := ctx.enter(path); err != nil {
			return nil, err
		}
		buf, err := e.encodeMembers(v, d, buf, pends, ctx, path)
		ctx.leave()
		return buf, err

	case types.KindGeneric: // resolved: delegate to the bound type
		return e.encodeInline(v, d.Elem, buf, pends, ctx, path)

	default:
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Detail("unhandled descriptor kind %s", d.Kind).
			Build()
	}
}

// encodeMembers writes the body of a composite: the concatenation of each
// member's inline form in declared order. It serves both fixed composites
// (inlined directly) and dynamic composite heap entries.
func (e *Encoder) encodeMembers(v types.Value, d *types.Descriptor, buf []byte, pends *[]pending, ctx *callContext, path []string) ([]byte, error) {
	var err error

	switch d.Kind {
	case types.KindArray:
		arr, ok := v.(types.ArrayValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if len(arr) != d.Len {
			return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Detail("array has %d elements, want %d", len(arr), d.Len).
				Build()
		}
		for i, el := range arr {
			buf, err = e.encodeInline(el, d.Elem, buf, pends, ctx, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case types.KindTuple:
		tup, ok := v.(types.TupleValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if len(tup) != len(d.Fields) {
			return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Detail("tuple has %d members, want %d", len(tup), len(d.Fields)).
				Build()
		}
		for i, m := range tup {
			buf, err = e.encodeInline(m, d.Fields[i].Type, buf, pends, ctx, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case types.KindStruct:
		st, ok := v.(types.StructValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if len(st.Fields) != len(d.Fields) {
			return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Detail("struct has %d fields, want %d", len(st.Fields), len(d.Fields)).
				Build()
		}
		for i, f := range d.Fields {
			if st.Fields[i].Name != f.Name {
				return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
					Path(clonePath(path)...).
					Type(d.Signature()).
					Detail("field %d is %q, want %q", i, st.Fields[i].Name, f.Name).
					Build()
			}
			buf, err = e.encodeInline(st.Fields[i].Value, f.Type, buf, pends, ctx, append(path, f.Name))
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case types.KindEnum:
		en, ok := v.(types.EnumValue)
		if !ok {
			return nil, mismatch(errors.PhaseEncode, path, v, d)
		}
		if en.Variant >= uint64(len(d.Variants)) {
			return nil, errors.New(errors.PhaseEncode, errors.KindMismatch).
				Path(clonePath(path)...).
				Type(d.Signature()).
				Value(en.Variant).
				Detail("variant %d out of range (%d variants)", en.Variant, len(d.Variants)).
				Build()
		}
		if err := ctx.grow(fvmabi.DiscriminantWidth, path); err != nil {
			return nil, err
		}
		buf = abi.AppendWord(buf, en.Variant)

		// Payload is right-aligned in the uniform slot: the VM
		// pre-allocates the same width for every variant.
		vd := d.Variants[en.Variant]
		pad := d.SlotSize() - vd.Type.InlineSize()
		if pad > 0 {
			if err := ctx.grow(pad, path); err != nil {
				return nil, err
			}
			buf = append(buf, make([]byte, pad)...)
		}
		return e.encodeInline(en.Payload, vd.Type, buf, pends, ctx, append(path, vd.Name))

	default:
		return nil, mismatch(errors.PhaseEncode, path, v, d)
	}
}

// appendPayload encodes the heap entry for one dynamic value and returns
// its heap-relative byte offset. Nested dynamic payloads are appended after
// the entry, in the order their pointer words were emitted.
func (e *Encoder) appendPayload(v types.Value, d *types.Descriptor, ctx *callContext, path []string) (uint64, error) {
	for d.Kind == types.KindGeneric {
		d = d.Elem
	}

	scratch := getScratch()
	buf := (*scratch)[:0]
	var pends []pending
	var err error

	switch d.Kind {
	case types.KindString: // dynamic
		s, ok := v.(types.StringValue)
		if !ok {
			putScratch(scratch)
			return 0, mismatch(errors.PhaseEncode, path, v, d)
		}
		n := uint64(len(s))
		padded, ok2 := abi.SafeAddU64(fvmabi.LengthWidth, abi.PadToWord(n))
		if !ok2 {
			putScratch(scratch)
			return 0, errors.Overflow(clonePath(path), "string length", n)
		}
		if err = ctx.grow(padded, path); err != nil {
			putScratch(scratch)
			return 0, err
		}
		buf = abi.AppendWord(buf, n)
		buf = append(buf, s...)
		buf = padWord(buf)

	case types.KindVector:
		vec, ok := v.(types.VectorValue)
		if !ok {
			putScratch(scratch)
			return 0, mismatch(errors.PhaseEncode, path, v, d)
		}
		if err = ctx.enter(path); err != nil {
			putScratch(scratch)
			return 0, err
		}
		if err = ctx.grow(fvmabi.LengthWidth, path); err != nil {
			ctx.leave()
			putScratch(scratch)
			return 0, err
		}
		buf = abi.AppendWord(buf, uint64(len(vec)))
		for i, el := range vec {
			buf, err = e.encodeInline(el, d.Elem, buf, &pends, ctx, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				ctx.leave()
				putScratch(scratch)
				return 0, err
			}
		}
		ctx.leave()

	case types.KindArray, types.KindTuple, types.KindStruct, types.KindEnum:
		if err = ctx.enter(path); err != nil {
			putScratch(scratch)
			return 0, err
		}
		buf, err = e.encodeMembers(v, d, buf, &pends, ctx, path)
		ctx.leave()
		if err != nil {
			putScratch(scratch)
			return 0, err
		}

	default:
		putScratch(scratch)
		return 0, mismatch(errors.PhaseEncode, path, v, d)
	}

	off := uint64(len(ctx.heap))
	ctx.heap = append(ctx.heap, buf...)
	*scratch = buf
	putScratch(scratch)

	// Nested payloads go after this entry; patch their pointer words
	// through ctx.heap since the backing array may have been reallocated.
	// Each child encodes at the depth its pointer word was emitted at, the
	// same depth the decoder will follow the pointer from.
	entryDepth := ctx.depth
	for _, p := range pends {
		ctx.depth = p.depth
		childOff, err := e.appendPayload(p.val, p.desc, ctx, p.path)
		if err != nil {
			return 0, err
		}
		abi.PutWord(ctx.heap[off+uint64(p.pos):], childOff)
	}
	ctx.depth = entryDepth
	return off, nil
}

func (e *Encoder) encodeCustom(c Codec, v types.Value, d *types.Descriptor, buf []byte, ctx *callContext, path []string) ([]byte, error) {
	out, err := c.Encode(v)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err,
			"custom codec for "+d.Signature())
	}
	if uint64(len(out)) != d.InlineSize() {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(clonePath(path)...).
			Type(d.Signature()).
			Detail("custom codec produced %d bytes, want %d", len(out), d.InlineSize()).
			Build()
	}
	if err := ctx.grow(uint64(len(out)), path); err != nil {
		return nil, err
	}
	return append(buf, out...), nil
}

func (e *Encoder) appendWordChecked(buf []byte, v uint64, ctx *callContext, path []string) ([]byte, error) {
	if err := ctx.grow(fvmabi.WordSize, path); err != nil {
		return nil, err
	}
	return abi.AppendWord(buf, v), nil
}

// padWord zero-pads buf to the next word boundary.
func padWord(buf []byte) []byte {
	for len(buf)%fvmabi.WordSize != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func mismatch(phase errors.Phase, path []string, v types.Value, d *types.Descriptor) error {
	got := "nil"
	if v != nil {
		got = v.Kind().String() + " value"
	}
	return errors.Mismatch(phase, clonePath(path), got, d.Signature())
}
