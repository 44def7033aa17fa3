package codec

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/fvm-abi/errors"
	"github.com/wippyai/fvm-abi/types"
)

// Codec is the custom encode/decode override pair a type may register to
// bypass the generic walker. An override must produce output byte-identical
// to the generic packing rules for every value it accepts: the extension
// point bounds runtime-step growth for large fixed aggregates, it never
// changes the wire format.
type Codec interface {
	Encode(v types.Value) ([]byte, error)
	Decode(data []byte) (types.Value, error)
}

// Registry maps descriptor signatures to custom codec overrides. The
// encoder and decoder consult it once per descriptor before falling back to
// the generic walker. Registration is restricted to fixed-size descriptors:
// dynamic layouts involve the shared heap region, which an override cannot
// produce in isolation.
type Registry struct {
	mu        sync.RWMutex
	overrides map[string]Codec
}

func NewRegistry() *Registry {
	return &Registry{overrides: make(map[string]Codec)}
}

// Register installs an override for desc. The descriptor must be resolved
// and fixed-size; re-registering a signature replaces the previous override.
func (r *Registry) Register(desc *types.Descriptor, c Codec) error {
	sig := desc.Signature()
	if !desc.IsResolved() {
		return errors.Registration(sig, "descriptor contains unbound generic parameters")
	}
	if !desc.IsFixed() {
		return errors.Registration(sig, "only fixed-size descriptors can be overridden")
	}
	if c == nil {
		return errors.Registration(sig, "nil codec")
	}

	r.mu.Lock()
	r.overrides[sig] = c
	r.mu.Unlock()

	Logger().Debug("registered custom codec",
		zap.String("signature", sig),
		zap.Uint64("inline_size", desc.InlineSize()))
	return nil
}

func (r *Registry) lookup(sig string) Codec {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	c := r.overrides[sig]
	r.mu.RUnlock()
	return c
}
