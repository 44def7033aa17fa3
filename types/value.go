package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Value is a typed runtime value, polymorphic over the same variant set as
// Descriptor. The set is closed: the codec matches exhaustively over it.
type Value interface {
	Kind() Kind
	String() string
}

type UnitValue struct{}

type BoolValue bool

type U8Value uint8

type U16Value uint16

type U32Value uint32

type U64Value uint64

// U256Value carries a 256-bit unsigned integer.
type U256Value struct {
	Int *uint256.Int
}

// B256Value carries 32 raw bytes (hashes, addresses, asset ids).
type B256Value [32]byte

type StringValue string

// ArrayValue carries the elements of a fixed-length array.
type ArrayValue []Value

// VectorValue carries the elements of a dynamically-sized vector.
type VectorValue []Value

// TupleValue carries tuple members in order.
type TupleValue []Value

// StructValue carries named fields in the declaration order of its
// descriptor.
type StructValue struct {
	Name   string
	Fields []FieldValue
}

type FieldValue struct {
	Value Value
	Name  string
}

// EnumValue carries the active variant of a sum type. Variant is the
// zero-based index in declaration order.
type EnumValue struct {
	Payload Value
	Name    string
	Variant uint64
}

func (UnitValue) Kind() Kind   { return KindUnit }
func (BoolValue) Kind() Kind   { return KindBool }
func (U8Value) Kind() Kind     { return KindU8 }
func (U16Value) Kind() Kind    { return KindU16 }
func (U32Value) Kind() Kind    { return KindU32 }
func (U64Value) Kind() Kind    { return KindU64 }
func (U256Value) Kind() Kind   { return KindU256 }
func (B256Value) Kind() Kind   { return KindB256 }
func (StringValue) Kind() Kind { return KindString }
func (ArrayValue) Kind() Kind  { return KindArray }
func (VectorValue) Kind() Kind { return KindVector }
func (TupleValue) Kind() Kind  { return KindTuple }
func (StructValue) Kind() Kind { return KindStruct }
func (EnumValue) Kind() Kind   { return KindEnum }

func (UnitValue) String() string    { return "()" }
func (v BoolValue) String() string  { return fmt.Sprintf("%t", bool(v)) }
func (v U8Value) String() string    { return fmt.Sprintf("%d", uint8(v)) }
func (v U16Value) String() string   { return fmt.Sprintf("%d", uint16(v)) }
func (v U32Value) String() string   { return fmt.Sprintf("%d", uint32(v)) }
func (v U64Value) String() string   { return fmt.Sprintf("%d", uint64(v)) }
func (v B256Value) String() string  { return fmt.Sprintf("0x%x", [32]byte(v)) }
func (v StringValue) String() string { return fmt.Sprintf("%q", string(v)) }

func (v U256Value) String() string {
	if v.Int == nil {
		return "0"
	}
	return v.Int.Dec()
}

func (v ArrayValue) String() string  { return "[" + joinValues([]Value(v)) + "]" }
func (v VectorValue) String() string { return "vec[" + joinValues([]Value(v)) + "]" }
func (v TupleValue) String() string  { return "(" + joinValues([]Value(v)) + ")" }

func (v StructValue) String() string {
	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteString(" { ")
	for i, f := range v.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value.String())
	}
	b.WriteString(" }")
	return b.String()
}

func (v EnumValue) String() string {
	if v.Payload == nil || v.Payload.Kind() == KindUnit {
		return fmt.Sprintf("%s::%d", v.Name, v.Variant)
	}
	return fmt.Sprintf("%s::%d(%s)", v.Name, v.Variant, v.Payload)
}

func joinValues(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func UnitVal() Value        { return UnitValue{} }
func BoolVal(b bool) Value  { return BoolValue(b) }
func U8Val(v uint8) Value   { return U8Value(v) }
func U16Val(v uint16) Value { return U16Value(v) }
func U32Val(v uint32) Value { return U32Value(v) }
func U64Val(v uint64) Value { return U64Value(v) }

func U256Val(i *uint256.Int) Value { return U256Value{Int: i} }

func B256Val(b [32]byte) Value { return B256Value(b) }

func StrVal(s string) Value { return StringValue(s) }

func ArrayVal(elems ...Value) Value  { return ArrayValue(elems) }
func VectorVal(elems ...Value) Value { return VectorValue(elems) }
func TupleVal(members ...Value) Value { return TupleValue(members) }

func StructVal(name string, fields ...FieldValue) Value {
	return StructValue{Name: name, Fields: fields}
}

func NamedValue(name string, v Value) FieldValue {
	return FieldValue{Name: name, Value: v}
}

func EnumVal(name string, variant uint64, payload Value) Value {
	if payload == nil {
		payload = UnitValue{}
	}
	return EnumValue{Name: name, Variant: variant, Payload: payload}
}
