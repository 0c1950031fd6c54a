package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown throttles repeatable actions per subject through Redis. A nil
// client disables throttling.
type Cooldown struct {
	rdb *redis.Client
}

func NewCooldown(rdb *redis.Client) *Cooldown {
	return &Cooldown{rdb: rdb}
}

// Acquire reports whether the action is currently allowed for the subject
// and, if so, locks it for the window.
func (c *Cooldown) Acquire(ctx context.Context, action, subject string, window time.Duration) (bool, error) {
	if c == nil || c.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("cooldown:%s:%s", action, subject)

	wasSet, err := c.rdb.SetNX(ctx, key, "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown in redis: %w", err)
	}

	return wasSet, nil
}
