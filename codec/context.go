package codec

import (
	"github.com/wippyai/fvm-abi/errors"
)

// callContext is the per-call mutable state threaded through one encode or
// decode invocation: current nesting depth, cumulative bytes, and (when
// encoding) the heap region being built. It is owned exclusively by the
// invocation and discarded at completion; descriptors stay untouched on
// failure.
type callContext struct {
	heap  []byte
	opts  Options
	phase errors.Phase
	depth int
	total uint64
}

func newCallContext(opts Options, phase errors.Phase) *callContext {
	return &callContext{opts: opts, phase: phase}
}

// enter counts one composite nesting level. It fails before any byte of the
// composite is emitted or consumed.
func (c *callContext) enter(path []string) error {
	c.depth++
	if c.depth > c.opts.MaxDepth {
		return errors.DepthExceeded(c.phase, clonePath(path), c.opts.MaxDepth)
	}
	return nil
}

func (c *callContext) leave() {
	c.depth--
}

// grow accounts n bytes emitted or consumed against the size limit.
func (c *callContext) grow(n uint64, path []string) error {
	c.total += n
	if c.total > c.opts.MaxTotalBytes {
		return errors.SizeExceeded(c.phase, clonePath(path), c.total, c.opts.MaxTotalBytes)
	}
	return nil
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}
