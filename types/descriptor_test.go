package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFixed(t *testing.T) {
	tests := []struct {
		name  string
		desc  *Descriptor
		fixed bool
	}{
		{"unit", Unit(), true},
		{"bool", Bool(), true},
		{"u8", U8(), true},
		{"u64", U64(), true},
		{"u256", U256(), true},
		{"b256", B256(), true},
		{"fixed string", FixedString(4), true},
		{"dynamic string", String(), false},
		{"vector", NewVector(U64()), false},
		{"array of fixed", NewArray(U64(), 3), true},
		{"array of dynamic", NewArray(String(), 3), false},
		{"tuple of fixed", NewTuple(U8(), Bool()), true},
		{"tuple with vector", NewTuple(U8(), NewVector(U8())), false},
		{"struct of fixed", NewStruct("P", NamedField("x", U64())), true},
		{"struct with dynamic", NewStruct("S", NamedField("v", NewVector(U64()))), false},
		{"enum of fixed", NewEnum("E", NamedVariant("a", Unit()), NamedVariant("b", U64())), true},
		{"enum with dynamic", NewEnum("E", NamedVariant("a", Unit()), NamedVariant("b", String())), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fixed, tt.desc.IsFixed())
		})
	}
}

func TestInlineSize(t *testing.T) {
	tests := []struct {
		name string
		desc *Descriptor
		size uint64
	}{
		{"unit", Unit(), 0},
		{"bool", Bool(), 8},
		{"u64", U64(), 8},
		{"u256", U256(), 32},
		{"b256", B256(), 32},
		{"str[4] pads to word", FixedString(4), 8},
		{"str[8]", FixedString(8), 8},
		{"str[9]", FixedString(9), 16},
		{"dynamic string is a pointer word", String(), 8},
		{"vector is a pointer word", NewVector(U64()), 8},
		{"array", NewArray(U64(), 3), 24},
		{"array of u256", NewArray(U256(), 2), 64},
		{"tuple", NewTuple(U8(), Bool(), B256()), 48},
		{"struct", NewStruct("P", NamedField("a", Bool()), NamedField("b", NewArray(U64(), 3))), 32},
		{"fixed enum is disc plus widest variant", NewEnum("E",
			NamedVariant("a", Unit()),
			NamedVariant("b", NewArray(U64(), 2))), 24},
		{"dynamic struct is a pointer word", NewStruct("S", NamedField("v", NewVector(U8()))), 8},
		{"dynamic enum is a pointer word", NewEnum("E", NamedVariant("s", String())), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.desc.InlineSize())
		})
	}
}

func TestSlotSize(t *testing.T) {
	e := NewEnum("E",
		NamedVariant("none", Unit()),
		NamedVariant("word", U64()),
		NamedVariant("wide", NewArray(U64(), 4)),
	)
	assert.Equal(t, uint64(32), e.SlotSize())
	assert.Equal(t, uint64(8+32), e.InlineSize())
	assert.Zero(t, U64().SlotSize())
}

func TestSignature(t *testing.T) {
	tests := []struct {
		desc *Descriptor
		sig  string
	}{
		{Unit(), "()"},
		{Bool(), "bool"},
		{U256(), "u256"},
		{String(), "str"},
		{FixedString(4), "str[4]"},
		{NewArray(U64(), 1000), "[u64; 1000]"},
		{NewVector(NewVector(U8())), "vec<vec<u8>>"},
		{NewTuple(U8(), Bool()), "(u8, bool)"},
		{NewStruct("Point"), "struct Point"},
		{NewEnum("Color"), "enum Color"},
		{NewGeneric("T"), "generic T"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.sig, tt.desc.Signature())
	}
}

func TestIsResolved(t *testing.T) {
	require.True(t, U64().IsResolved())
	require.False(t, NewGeneric("T").IsResolved())

	pair := NewStruct("Pair",
		NamedField("a", NewGeneric("T")),
		NamedField("b", U64()),
	)
	require.False(t, pair.IsResolved())

	concrete, err := Resolve(pair, map[string]*Descriptor{"T": U64()})
	require.NoError(t, err)
	require.True(t, concrete.IsResolved())
}

func TestLayoutSharedDescriptors(t *testing.T) {
	// Singleton primitives are shared between trees; layout caching must
	// not interfere across users.
	a := NewArray(U64(), 2)
	b := NewTuple(U64(), U64())
	assert.Equal(t, uint64(16), a.InlineSize())
	assert.Equal(t, uint64(16), b.InlineSize())
	assert.Same(t, a.Elem, b.Fields[0].Type)
}
