package validated

// DefaultMaxDepth bounds self-referential traversal when no explicit limit is
// configured.
const DefaultMaxDepth = 100

// Options carries per-invocation traversal settings. It is created at the
// top-level validation call (or defaulted), passed by value downward and
// copied with an incremented depth at every recursive step. It is never
// stored on a shared field, so concurrent validations cannot interfere.
type Options struct {
	// MaxDepth is the maximum self-referential recursion depth. Zero or
	// negative values fall back to DefaultMaxDepth.
	MaxDepth int

	depth int
}

// DefaultOptions returns Options with the default recursion limit.
func DefaultOptions() Options { return Options{MaxDepth: DefaultMaxDepth} }

func (o Options) normalized() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// descend returns a copy one recursion level deeper.
func (o Options) descend() Options {
	o = o.normalized()
	o.depth++
	return o
}

// exceeded reports whether the current depth is beyond the configured limit.
func (o Options) exceeded() bool { return o.depth > o.normalized().MaxDepth }
