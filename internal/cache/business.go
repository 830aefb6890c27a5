// Package cache keeps read-through copies of business detail views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clientscore/backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "business:"

var errStale = errors.New("business cache entry invalidated")

// BusinessCache is safe to use with a nil client; every call is then a miss.
type BusinessCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBusinessCache(client *redis.Client, ttl time.Duration) *BusinessCache {
	return &BusinessCache{client: client, ttl: ttl}
}

func (c *BusinessCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached detail view, or nil on a miss.
func (c *BusinessCache) Get(ctx context.Context, id uuid.UUID) (*models.BusinessDetail, error) {
	if !c.Enabled() {
		return nil, nil
	}

	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get business: %w", err)
	}

	var detail models.BusinessDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal business: %w", err)
	}
	return &detail, nil
}

// Version returns the invalidation counter for id. Read it before loading the
// business from the database and pass it to Set.
func (c *BusinessCache) Version(ctx context.Context, id uuid.UUID) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get business version: %w", err)
	}
	return v, nil
}

// Set stores detail unless the entry was invalidated after version was read.
// A detail loaded before a concurrent write is dropped instead of being served
// until the TTL expires.
func (c *BusinessCache) Set(ctx context.Context, detail *models.BusinessDetail, version int64) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal business: %w", err)
	}

	vkey := versionKey(detail.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(detail.ID), data, c.ttl)
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set business: %w", err)
	}
	return nil
}

// Invalidate drops the entry after its aggregates or visible reviews change
// and bumps the version so in-flight reads cannot store what they loaded.
func (c *BusinessCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate business: %w", err)
	}
	return nil
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func versionKey(id uuid.UUID) string {
	return keyPrefix + id.String() + ":version"
}
