package types

type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU256
	KindB256
	KindString
	KindArray
	KindVector
	KindTuple
	KindStruct
	KindEnum
	KindGeneric
)

var kindNames = [...]string{
	KindUnit:    "unit",
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindU256:    "u256",
	KindB256:    "b256",
	KindString:  "string",
	KindArray:   "array",
	KindVector:  "vector",
	KindTuple:   "tuple",
	KindStruct:  "struct",
	KindEnum:    "enum",
	KindGeneric: "generic",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether the kind is a scalar occupying fixed slots
// with no member descriptors.
func (k Kind) IsPrimitive() bool {
	return k <= KindB256
}

// IsComposite reports whether the kind carries member descriptors and
// counts against the nesting-depth guard.
func (k Kind) IsComposite() bool {
	switch k {
	case KindArray, KindVector, KindTuple, KindStruct, KindEnum:
		return true
	default:
		return false
	}
}
