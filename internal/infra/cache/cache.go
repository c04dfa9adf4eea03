package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibhusapra/phoenix/internal/config"
)

// New returns a client for the configured Redis, or nil when redis.addr is empty.
func New(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}

const validationKeyPrefix = "phoenix:span_filter:valid:"

// ValidationCache remembers filter conditions that already passed validation for a project.
// A nil *ValidationCache always misses.
type ValidationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewValidationCache(rdb *redis.Client, ttl time.Duration) *ValidationCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &ValidationCache{rdb: rdb, ttl: ttl}
}

// IsKnownValid reports whether condition was recorded as valid for projectID.
func (c *ValidationCache) IsKnownValid(ctx context.Context, projectID int64, condition string) (bool, error) {
	if c == nil {
		return false, nil
	}
	err := c.rdb.Get(ctx, validationKey(projectID, condition)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkValid records condition as valid for projectID until the TTL expires.
func (c *ValidationCache) MarkValid(ctx context.Context, projectID int64, condition string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Set(ctx, validationKey(projectID, condition), "1", c.ttl).Err()
}

func validationKey(projectID int64, condition string) string {
	sum := sha256.Sum256([]byte(condition))
	return validationKeyPrefix + strconv.FormatInt(projectID, 10) + ":" + hex.EncodeToString(sum[:])
}
