// Package rulesource provides configuration-source collaborators for the
// rule resolver: an in-memory snapshot holder, JSON/YAML/TOML file loading,
// a Redis-backed source and a TTL cache wrapper. Every source hands out
// immutable snapshot copies; the resolver never mutates rows.
package rulesource

import (
	"context"
	"sync"

	"github.com/code-dispenser/validated/rules"
)

// Memory holds a rule-row snapshot in process memory. Replace swaps the
// whole snapshot atomically, so a refresher goroutine can update rows while
// resolutions read them.
type Memory struct {
	mu   sync.RWMutex
	rows []rules.RuleConfig
}

// NewMemory creates a Memory source seeded with rows.
func NewMemory(rows ...rules.RuleConfig) *Memory {
	m := &Memory{}
	m.Replace(rows...)
	return m
}

// Snapshot returns a copy of the current rows.
func (m *Memory) Snapshot(_ context.Context) ([]rules.RuleConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]rules.RuleConfig, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Replace swaps the snapshot for a new row collection.
func (m *Memory) Replace(rows ...rules.RuleConfig) {
	next := make([]rules.RuleConfig, len(rows))
	copy(next, rows)
	m.mu.Lock()
	m.rows = next
	m.mu.Unlock()
}

var _ rules.Source = (*Memory)(nil)
