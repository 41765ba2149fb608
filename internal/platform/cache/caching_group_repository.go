// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/usecase"
)

// CachingGroupRepository decorates a GroupRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Kiosk sites change rarely but are read
// on every map view, so the whole list is cached under one key.
type CachingGroupRepository struct {
	inner     usecase.GroupRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.GroupRepository = (*CachingGroupRepository)(nil)

// NewCachingGroupRepository decorates a GroupRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "groups".
func NewCachingGroupRepository(rdb *redis.Client, ttl time.Duration, inner usecase.GroupRepository, namespace string) *CachingGroupRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "groups"
	}
	return &CachingGroupRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List retrieves all kiosk sites, checking cache first then falling back to
// the database.
func (c *CachingGroupRepository) List(ctx context.Context) ([]entity.LockerGroup, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.LockerGroup
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Get retrieves one kiosk site with the same cache-aside strategy as List.
func (c *CachingGroupRepository) Get(ctx context.Context, id uint) (*entity.LockerGroup, error) {
	if c.rdb == nil {
		return c.inner.Get(ctx, id)
	}

	key := c.groupKey(id)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.LockerGroup
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Exists goes straight to the database: it guards allocation decisions, which
// must not act on stale membership.
func (c *CachingGroupRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return c.inner.Exists(ctx, id)
}

// Create registers a new kiosk site and invalidates the cached list.
func (c *CachingGroupRepository) Create(ctx context.Context, group *entity.LockerGroup) error {
	if err := c.inner.Create(ctx, group); err != nil {
		return err
	}
	c.invalidate(ctx, group.ID)
	return nil
}

// AddLockers installs lockers at a site and invalidates its cache entries.
func (c *CachingGroupRepository) AddLockers(ctx context.Context, groupID uint, count int) error {
	if err := c.inner.AddLockers(ctx, groupID, count); err != nil {
		return err
	}
	c.invalidate(ctx, groupID)
	return nil
}

// invalidate drops the list key and the per-group key. Best effort: a failed
// delete only means a stale read until the TTL expires.
func (c *CachingGroupRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.listKey(), c.groupKey(id)).Err()
}

func (c *CachingGroupRepository) listKey() string {
	return c.namespace + ":all"
}

func (c *CachingGroupRepository) groupKey(id uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, id)
}
