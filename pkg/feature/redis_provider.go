package feature

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding all toggles, one field per feature name.
const DefaultRedisKey = "waffle:flags"

// RedisProvider stores toggles as JSON documents in a Redis hash so that
// several processes share the same feature states. Strategies are not
// persisted; a stored flag is either on or off.
type RedisProvider struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

// RedisOption configures a RedisProvider.
type RedisOption func(*RedisProvider)

// WithRedisKey overrides the hash key.
func WithRedisKey(key string) RedisOption {
	return func(p *RedisProvider) {
		if key != "" {
			p.key = key
		}
	}
}

// NewRedisProvider wraps an existing client. The client stays owned by the caller.
func NewRedisProvider(client redis.UniversalClient, opts ...RedisOption) *RedisProvider {
	p := &RedisProvider{client: client, key: DefaultRedisKey, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsEnabled reads the stored enabled state.
func (p *RedisProvider) IsEnabled(ctx context.Context, name string) (bool, error) {
	flag, err := p.GetFlag(ctx, name)
	if err != nil {
		return false, err
	}
	return flag.Enabled, nil
}

// GetFlag returns the stored flag.
func (p *RedisProvider) GetFlag(ctx context.Context, name string) (*Flag, error) {
	raw, err := p.client.HGet(ctx, p.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrFlagNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	return decodeFlag(raw)
}

// ListFlags returns all stored flags ordered by name.
func (p *RedisProvider) ListFlags(ctx context.Context) ([]*Flag, error) {
	all, err := p.client.HGetAll(ctx, p.key).Result()
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	out := make([]*Flag, 0, len(all))
	for _, raw := range all {
		flag, err := decodeFlag([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, flag)
	}
	slices.SortFunc(out, func(a, b *Flag) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

// SaveFlag creates or replaces the flag.
func (p *RedisProvider) SaveFlag(ctx context.Context, flag *Flag) error {
	if err := validateFlag(flag); err != nil {
		return err
	}

	stored := copyFlag(flag)
	stored.UpdatedAt = p.now()
	switch existing, err := p.GetFlag(ctx, flag.Name); {
	case err == nil:
		stored.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrFlagNotFound):
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = stored.UpdatedAt
		}
	default:
		return err
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return errors.Join(ErrInvalidFlag, err)
	}
	if err := p.client.HSet(ctx, p.key, flag.Name, raw).Err(); err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	return nil
}

// DeleteFlag removes the flag.
func (p *RedisProvider) DeleteFlag(ctx context.Context, name string) error {
	n, err := p.client.HDel(ctx, p.key, name).Result()
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	if n == 0 {
		return ErrFlagNotFound
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (p *RedisProvider) Close() error {
	return nil
}

func decodeFlag(raw []byte) (*Flag, error) {
	var flag Flag
	if err := json.Unmarshal(raw, &flag); err != nil {
		return nil, errors.Join(ErrInvalidFlag, err)
	}
	return &flag, nil
}
