package types

import (
	"fmt"
	"strings"
	"sync"

	fvmabi "github.com/wippyai/fvm-abi"
)

// Descriptor is the resolved, concrete shape of a schema type. It drives
// encoding and decoding. Descriptors are immutable once built and safe for
// concurrent use; layout facts are computed once and cached.
type Descriptor struct {
	Elem     *Descriptor // Array/Vector element; Generic resolution target
	Name     string      // Struct/Enum name; Generic parameter name
	Fields   []Field     // Struct/Tuple members (Tuple members are unnamed)
	Variants []Variant   // Enum variants, in declaration order
	Len      int         // Array length; String length (0 means dynamic)
	Kind     Kind

	layoutOnce sync.Once
	inline     uint64
	fixed      bool
	resolved   bool
}

// Field is a named member of a struct or an unnamed member of a tuple.
type Field struct {
	Type *Descriptor
	Name string
}

// Variant is one case of an enum.
type Variant struct {
	Type *Descriptor
	Name string
}

var (
	unitDesc = &Descriptor{Kind: KindUnit}
	boolDesc = &Descriptor{Kind: KindBool}
	u8Desc   = &Descriptor{Kind: KindU8}
	u16Desc  = &Descriptor{Kind: KindU16}
	u32Desc  = &Descriptor{Kind: KindU32}
	u64Desc  = &Descriptor{Kind: KindU64}
	u256Desc = &Descriptor{Kind: KindU256}
	b256Desc = &Descriptor{Kind: KindB256}
	strDesc  = &Descriptor{Kind: KindString}
)

func Unit() *Descriptor { return unitDesc }
func Bool() *Descriptor { return boolDesc }
func U8() *Descriptor   { return u8Desc }
func U16() *Descriptor  { return u16Desc }
func U32() *Descriptor  { return u32Desc }
func U64() *Descriptor  { return u64Desc }
func U256() *Descriptor { return u256Desc }
func B256() *Descriptor { return b256Desc }

// String returns the dynamic string descriptor. Its inline form is a single
// pointer word; the bytes live in the heap region.
func String() *Descriptor { return strDesc }

// FixedString returns the descriptor for str[n]: n bytes of UTF-8 inlined
// directly, zero-padded to a word boundary.
func FixedString(n int) *Descriptor {
	return &Descriptor{Kind: KindString, Len: n}
}

func NewArray(elem *Descriptor, n int) *Descriptor {
	return &Descriptor{Kind: KindArray, Elem: elem, Len: n}
}

func NewVector(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindVector, Elem: elem}
}

func NewTuple(members ...*Descriptor) *Descriptor {
	fields := make([]Field, len(members))
	for i, m := range members {
		fields[i] = Field{Type: m}
	}
	return &Descriptor{Kind: KindTuple, Fields: fields}
}

func NewStruct(name string, fields ...Field) *Descriptor {
	return &Descriptor{Kind: KindStruct, Name: name, Fields: fields}
}

func NamedField(name string, t *Descriptor) Field {
	return Field{Name: name, Type: t}
}

func NewEnum(name string, variants ...Variant) *Descriptor {
	return &Descriptor{Kind: KindEnum, Name: name, Variants: variants}
}

func NamedVariant(name string, t *Descriptor) Variant {
	return Variant{Name: name, Type: t}
}

// NewGeneric returns an unresolved generic parameter. It must be substituted
// via Resolve before the descriptor tree can be used for encoding.
func NewGeneric(name string) *Descriptor {
	return &Descriptor{Kind: KindGeneric, Name: name}
}

func (d *Descriptor) measure() {
	d.layoutOnce.Do(func() {
		switch d.Kind {
		case KindUnit:
			d.inline, d.fixed, d.resolved = 0, true, true
		case KindBool, KindU8, KindU16, KindU32, KindU64:
			d.inline, d.fixed, d.resolved = fvmabi.WordSize, true, true
		case KindU256, KindB256:
			d.inline, d.fixed, d.resolved = fvmabi.B256Width, true, true
		case KindString:
			if d.Len > 0 {
				d.inline, d.fixed = padToWord(uint64(d.Len)), true
			} else {
				d.inline, d.fixed = fvmabi.PointerWidth, false
			}
			d.resolved = true
		case KindArray:
			d.Elem.measure()
			d.fixed = d.Elem.fixed
			d.resolved = d.Elem.resolved
			if d.fixed {
				d.inline = uint64(d.Len) * d.Elem.inline
			} else {
				d.inline = fvmabi.PointerWidth
			}
		case KindVector:
			d.Elem.measure()
			d.inline, d.fixed = fvmabi.PointerWidth, false
			d.resolved = d.Elem.resolved
		case KindTuple, KindStruct:
			d.fixed, d.resolved = true, true
			var sum uint64
			for _, f := range d.Fields {
				f.Type.measure()
				sum += f.Type.InlineSize()
				d.fixed = d.fixed && f.Type.fixed
				d.resolved = d.resolved && f.Type.resolved
			}
			if d.fixed {
				d.inline = sum
			} else {
				d.inline = fvmabi.PointerWidth
			}
		case KindEnum:
			d.fixed, d.resolved = true, true
			for _, v := range d.Variants {
				v.Type.measure()
				d.fixed = d.fixed && v.Type.fixed
				d.resolved = d.resolved && v.Type.resolved
			}
			if d.fixed {
				d.inline = fvmabi.DiscriminantWidth + d.slotSize()
			} else {
				d.inline = fvmabi.PointerWidth
			}
		case KindGeneric:
			if d.Elem != nil {
				d.Elem.measure()
				d.inline, d.fixed, d.resolved = d.Elem.inline, d.Elem.fixed, d.Elem.resolved
			} else {
				d.inline, d.fixed, d.resolved = 0, false, false
			}
		}
	})
}

func (d *Descriptor) slotSize() uint64 {
	var max uint64
	for _, v := range d.Variants {
		if s := v.Type.InlineSize(); s > max {
			max = s
		}
	}
	return max
}

// IsFixed reports whether the descriptor has a statically known encoded
// size. Unit, bool, integers, b256, fixed strings, and composites whose
// members are all fixed-size are fixed; vectors, dynamic strings, and any
// composite containing a dynamic member are not.
func (d *Descriptor) IsFixed() bool {
	d.measure()
	return d.fixed
}

// IsResolved reports whether the descriptor tree contains no unbound
// generic parameters. Unresolved descriptors are a contract error when
// handed to the codec.
func (d *Descriptor) IsResolved() bool {
	d.measure()
	return d.resolved
}

// InlineSize is the number of bytes the descriptor occupies in its parent
// region: its full encoded width when fixed-size, otherwise one pointer
// word. It is statically known for every resolved descriptor.
func (d *Descriptor) InlineSize() uint64 {
	d.measure()
	return d.inline
}

// SlotSize is the payload slot width of an enum: the maximum inline width
// across all variants. The discriminant word is not included. It is zero
// for non-enum descriptors.
func (d *Descriptor) SlotSize() uint64 {
	if d.Kind != KindEnum {
		return 0
	}
	d.measure()
	return d.slotSize()
}

// Signature returns the canonical textual signature of the descriptor.
// Named types (structs, enums) are identified by name; anonymous types are
// structural. Signatures key the custom-codec registry and round-trip
// through ParseSignature for anonymous forms.
func (d *Descriptor) Signature() string {
	switch d.Kind {
	case KindUnit:
		return "()"
	case KindBool, KindU8, KindU16, KindU32, KindU64, KindU256, KindB256:
		return d.Kind.String()
	case KindString:
		if d.Len > 0 {
			return fmt.Sprintf("str[%d]", d.Len)
		}
		return "str"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", d.Elem.Signature(), d.Len)
	case KindVector:
		return fmt.Sprintf("vec<%s>", d.Elem.Signature())
	case KindTuple:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = f.Type.Signature()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		return "struct " + d.Name
	case KindEnum:
		return "enum " + d.Name
	case KindGeneric:
		if d.Elem != nil {
			return d.Elem.Signature()
		}
		return "generic " + d.Name
	default:
		return "unknown"
	}
}

func padToWord(n uint64) uint64 {
	return (n + fvmabi.WordSize - 1) &^ uint64(fvmabi.WordSize-1)
}
