package codec

// Default guard limits. Schemas are attacker-controlled in some deployments
// (a node relaying third-party contract calls), so both recursion depth and
// total byte volume are bounded.
const (
	DefaultMaxDepth      = 64
	DefaultMaxTotalBytes = 16 << 20 // 16 MB per encode/decode call
)

// Options configures an Encoder or Decoder. The zero value selects the
// defaults and no custom-codec registry.
type Options struct {
	// Registry supplies custom codec overrides consulted before the
	// generic walker. Nil disables the extension point.
	Registry *Registry

	// MaxDepth bounds descriptor nesting. Entering any composite
	// (array, vector, tuple, struct, enum) counts one level.
	MaxDepth int

	// MaxTotalBytes bounds the cumulative bytes emitted or consumed by
	// a single call, heap region included.
	MaxTotalBytes uint64
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxTotalBytes == 0 {
		o.MaxTotalBytes = DefaultMaxTotalBytes
	}
	return o
}
