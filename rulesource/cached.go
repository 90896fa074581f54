package rulesource

import (
	"context"
	"sync"
	"time"

	"github.com/code-dispenser/validated/rules"
)

// Cached wraps another source with a TTL snapshot cache so frequent
// resolutions do not hammer a file or network-backed source. Inside the TTL
// the cached snapshot is served; after it expires the next call refreshes.
// When a refresh fails a previously cached snapshot is served stale rather
// than failing the resolution.
type Cached struct {
	src rules.Source
	ttl time.Duration

	mu      sync.Mutex
	rows    []rules.RuleConfig
	fetched time.Time
	primed  bool

	now func() time.Time
}

// NewCached wraps src with the given TTL. A non-positive TTL caches forever.
func NewCached(src rules.Source, ttl time.Duration) *Cached {
	return &Cached{src: src, ttl: ttl, now: time.Now}
}

// Snapshot returns the cached rows, refreshing from the wrapped source when
// the TTL has elapsed.
func (c *Cached) Snapshot(ctx context.Context) ([]rules.RuleConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.primed && (c.ttl <= 0 || c.now().Sub(c.fetched) < c.ttl)
	if !fresh {
		rows, err := c.src.Snapshot(ctx)
		if err != nil {
			if !c.primed {
				return nil, err
			}
			// serve stale
		} else {
			c.rows = rows
			c.fetched = c.now()
			c.primed = true
		}
	}

	out := make([]rules.RuleConfig, len(c.rows))
	copy(out, c.rows)
	return out, nil
}

var _ rules.Source = (*Cached)(nil)
