package session

import (
	"time"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

const defaultTTL = 30 * 24 * time.Hour

// NewStore creates a new Store based on the given type.
// For Redis, requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = defaultTTL
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(cfg.ttl, cfg.now), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisStore(cfg.redisClient, cfg.ttl, cfg.now), nil

	default:
		return nil, ErrInvalidStoreType
	}
}
