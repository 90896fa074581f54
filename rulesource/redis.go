package rulesource

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/code-dispenser/validated/rules"
)

// Redis reads a JSON-encoded rule-row array from a single Redis key,
// typically maintained by a publishing job on its own refresh schedule. A
// missing key is an empty snapshot, not an error.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// NewRedis creates a Redis-backed source reading the given key.
func NewRedis(client redis.UniversalClient, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Snapshot fetches and decodes the current rows.
func (r *Redis) Snapshot(ctx context.Context) ([]rules.RuleConfig, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rulesource: redis get %s: %w", r.key, err)
	}
	var rows []rules.RuleConfig
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("rulesource: decode redis key %s: %w", r.key, err)
	}
	return rows, nil
}

var _ rules.Source = (*Redis)(nil)
