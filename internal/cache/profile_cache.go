package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nodewars/internal/model"

	"github.com/redis/go-redis/v9"
)

// ProfileCache handles Redis operations for roster decoration
type ProfileCache interface {
	Get(ctx context.Context, username string) (*model.Profile, error)
	Set(ctx context.Context, profile *model.Profile) error
}

type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a new profile cache. Entries must expire before
// the signed avatar URLs they hold.
func NewProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	return &profileCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *profileCache) key(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

func (c *profileCache) Get(ctx context.Context, username string) (*model.Profile, error) {
	data, err := c.client.Get(ctx, c.key(username)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile model.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *profileCache) Set(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(profile.Username), data, c.ttl).Err()
}

