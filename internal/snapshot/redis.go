package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// KV is the slice of pkg/redis used by RedisStore.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	SnapshotKey(slot string) string
}

// RedisStore keeps slots under pos:snapshot:<slot>, without expiry.
type RedisStore struct {
	kv KV
}

func NewRedisStore(kv KV) (*RedisStore, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStore{kv: kv}, nil
}

func (r *RedisStore) Save(ctx context.Context, slot string, value any) error {
	payload, err := encode(slot, value)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, r.kv.SnapshotKey(slot), payload, 0); err != nil {
		return fmt.Errorf("save snapshot %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, slot string, dest any) (bool, error) {
	payload, found, err := r.kv.Get(ctx, r.kv.SnapshotKey(slot))
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", slot, err)
	}
	if !found {
		return false, nil
	}
	return true, decode(slot, payload, dest)
}

// SaveAll attempts every slot and returns the combined failures.
func (r *RedisStore) SaveAll(ctx context.Context, values map[string]any) error {
	var errs error
	for _, slot := range sortedSlots(values) {
		errs = multierr.Append(errs, r.Save(ctx, slot, values[slot]))
	}
	return errs
}
