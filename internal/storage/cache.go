package storage

import (
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserCache holds recently resolved users so that role checks do not hit
// the primary store on every request. A miss is (nil, nil).
type UserCache interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// RedisUserCache stores users as JSON under "user:<id>" with a TTL.
type RedisUserCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisUserCache(rdb *redis.Client, ttl time.Duration) *RedisUserCache {
	if ttl <= 0 {
		ttl = config.DefaultUserCacheTTL
	}
	return &RedisUserCache{Redis: rdb, TTL: ttl}
}

func userKey(id string) string {
	return config.UserCacheKeyPrefix + id
}

func (c *RedisUserCache) GetUser(ctx context.Context, id string) (*models.User, error) {
	raw, err := c.Redis.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RedisUserCache) SetUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, userKey(user.ID), raw, c.TTL).Err()
}

func (c *RedisUserCache) DeleteUser(ctx context.Context, id string) error {
	return c.Redis.Del(ctx, userKey(id)).Err()
}

// CachedStorage puts a UserCache in front of GetUserByID. Cache failures
// are logged and the primary store answers instead.
type CachedStorage struct {
	Storage
	Cache UserCache
}

func WithUserCache(s Storage, cache UserCache) *CachedStorage {
	return &CachedStorage{Storage: s, Cache: cache}
}

func (s *CachedStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	cached, err := s.Cache.GetUser(ctx, id)
	if err != nil {
		log.Printf("WARNING: user cache read for %s failed: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.Storage.GetUserByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}
	if err := s.Cache.SetUser(ctx, user); err != nil {
		log.Printf("WARNING: user cache write for %s failed: %v", id, err)
	}
	return user, nil
}

// SaveUser writes through to the store and drops the cached copy so a role
// change is seen on the next lookup.
func (s *CachedStorage) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.Storage.SaveUser(ctx, user); err != nil {
		return err
	}
	if err := s.Cache.DeleteUser(ctx, user.ID); err != nil {
		log.Printf("WARNING: user cache invalidation for %s failed: %v", user.ID, err)
	}
	return nil
}
