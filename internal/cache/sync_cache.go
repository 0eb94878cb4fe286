package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncSummary is the cached outcome of the most recent channel synchronization.
type SyncSummary struct {
	Channel    string    `json:"channel"`
	Updated    int64     `json:"updated"`
	Inserted   int64     `json:"inserted"`
	Total      int       `json:"total"`
	WithCost   int       `json:"withCost"`
	WithSize   int       `json:"withSize"`
	Summary    string    `json:"summary"`
	FinishedAt time.Time `json:"finishedAt"`
}

// SyncCache stores the last sync summary per channel so the admin panel can
// show sync status without hitting the database.
type SyncCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSyncCache creates a new SyncCache. Summaries expire after 7 days.
func NewSyncCache(redis *RedisClient) *SyncCache {
	return &SyncCache{
		redis: redis,
		ttl:   7 * 24 * time.Hour,
	}
}

func (c *SyncCache) key(channel string) string {
	return fmt.Sprintf("sync:summary:%s", channel)
}

// SetSummary stores the sync summary for a channel.
func (c *SyncCache) SetSummary(ctx context.Context, s *SyncSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal sync summary: %w", err)
	}
	return c.redis.Set(ctx, c.key(s.Channel), string(data), c.ttl)
}

// GetSummary returns the last sync summary for a channel, or nil if none is
// cached.
func (c *SyncCache) GetSummary(ctx context.Context, channel string) (*SyncSummary, error) {
	raw, err := c.redis.Get(ctx, c.key(channel))
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s SyncSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync summary: %w", err)
	}
	return &s, nil
}
