package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "mog:session:"

// redisStore implements Store using Redis with optimistic locking.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func newRedisStore(client *redis.Client, ttl time.Duration, now func() time.Time) *redisStore {
	return &redisStore{client: client, ttl: ttl, now: now}
}

// Create implements Store. Uses SETNX so an existing session is never overwritten.
func (s *redisStore) Create(ctx context.Context, data *SessionData) error {
	now := s.now().UTC()
	data.CreatedAt = now
	data.UpdatedAt = now
	data.Version = 1

	val, err := json.Marshal(data)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, s.key(data.ID), val, s.ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// Get implements Store. Refreshes TTL on every read.
func (s *redisStore) Get(ctx context.Context, id string) (*SessionData, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal(val, &data); err != nil {
		return nil, err
	}

	// TTL refresh failure only shortens the session; the read still succeeded.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &data, nil
}

// Update implements Store using WATCH/MULTI/EXEC.
func (s *redisStore) Update(ctx context.Context, data *SessionData) error {
	key := s.key(data.ID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored SessionData
		if err := json.Unmarshal(val, &stored); err != nil {
			return err
		}

		if stored.Version != data.Version {
			return ErrVersionConflict
		}

		next := data.clone()
		next.Version++
		next.UpdatedAt = s.now().UTC()

		newVal, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		data.Version = next.Version
		data.UpdatedAt = next.UpdatedAt
		return nil
	}, key)
}

// Delete implements Store.
func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Ping implements Store.
func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}

func (s *redisStore) key(id string) string {
	return sessionKeyPrefix + id
}
