package rules

import (
	"sort"
	"sync"

	validated "github.com/code-dispenser/validated"
)

// RuleBuilder is a registered capability that turns one configuration row
// into one single-value validator. A builder must never panic for a bad row;
// it returns a validator that produces a rejection, tagged bad_configuration,
// when the row or the input value cannot be processed.
type RuleBuilder func(rc RuleConfig) validated.ValueValidator[any]

// Registry is a thread-safe map from rule-kind identifier to builder
// capability. It is intended to be populated once at startup and treated as
// read-mostly, but registration stays safe concurrently with lookup.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]RuleBuilder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]RuleBuilder)}
}

// DefaultRegistry returns a registry pre-populated with the standard rule
// kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindPattern, buildPattern)
	r.Register(KindStringLength, buildStringLength)
	r.Register(KindNumberRange, buildNumberRange)
	r.Register(KindCollectionLength, buildCollectionLength)
	r.Register(KindDateWindow, buildDateWindow)
	r.Register(KindDecimalPrecision, buildDecimalPrecision)
	r.Register(KindURL, buildURL)
	r.Register(KindCompareMember, buildCompareAgainst)
	r.Register(KindCompareValue, buildCompareValue)
	r.Register(KindCompareObject, buildCompareAgainst)
	return r
}

// Register binds a builder capability to a rule-kind identifier. The last
// registration for an identifier wins.
func (r *Registry) Register(kind string, b RuleBuilder) {
	if kind == "" || b == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = b
}

// Lookup returns the builder for a rule-kind identifier.
func (r *Registry) Lookup(kind string) (RuleBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[kind]
	return b, ok
}

// Kinds returns the registered rule-kind identifiers in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for k := range r.builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
