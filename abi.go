package fvmabi

// Calling-convention constants for the target VM's word size. These are a
// compatibility contract with deployed contract bytecode: every inline slot,
// pointer word, length word and enum discriminant is sized in terms of them.
const (
	// WordSize is the VM word size in bytes. All inline slots are multiples
	// of a word and all primitive values are big-endian within their slot.
	WordSize = 8

	// PointerWidth is the width of a pointer word: a big-endian byte offset
	// into the heap region emitted inline for dynamically-sized values.
	PointerWidth = WordSize

	// LengthWidth is the width of the length word that prefixes vector and
	// dynamic string payloads in the heap region.
	LengthWidth = WordSize

	// DiscriminantWidth is the width of the enum discriminant word.
	DiscriminantWidth = WordSize

	// B256Width is the width of b256 and u256 values (four words).
	B256Width = 4 * WordSize
)

// ConventionVersion identifies the revision of the calling convention this
// library targets. Bump only alongside a coordinated VM upgrade.
const ConventionVersion = "fvm/1"
