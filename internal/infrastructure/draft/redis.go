package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tenant-hub/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps drafts in Redis so multiple gateway instances see the
// same drafts. The envelope's own version/TTL checks still apply on load;
// the server-side key TTL merely keeps dead keys from accumulating.
// Implements domain.DraftStore.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore connects to Redis at the given URL (redis://...) and returns
// a draft store with the given default TTL.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid draft redis url: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Save wraps data in a current-version envelope and stores it with a
// server-side TTL slightly past the envelope's own expiry.
func (s *RedisStore) Save(ctx context.Context, tenantID string, step domain.Step, data json.RawMessage) error {
	e := envelope{
		Version: CurrentVersion,
		SavedAt: s.now(),
		TTLMs:   s.ttl.Milliseconds(),
		Data:    data,
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal draft envelope: %w", err)
	}

	if err := s.client.Set(ctx, key(tenantID, step), payload, s.ttl+time.Minute).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the stored draft, purging records that are expired or carry a
// stale schema version.
func (s *RedisStore) Load(ctx context.Context, tenantID string, step domain.Step) (json.RawMessage, error) {
	k := key(tenantID, step)

	payload, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var e envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		// Undecodable records are as good as version-mismatched ones.
		_ = s.client.Del(ctx, k).Err()
		return nil, domain.ErrDraftNotFound
	}
	if !e.usable(s.now()) {
		_ = s.client.Del(ctx, k).Err()
		return nil, domain.ErrDraftNotFound
	}
	return e.Data, nil
}

// Delete removes the stored draft, if any.
func (s *RedisStore) Delete(ctx context.Context, tenantID string, step domain.Step) error {
	if err := s.client.Del(ctx, key(tenantID, step)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
