package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-api/domain"
)

const listCacheKey = "tasks:all"

type backend interface {
	InsertTask(ctx context.Context, t domain.TaskCreate) (string, error)
	ListTasks(ctx context.Context, f domain.ListFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, changes domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Cache wraps a Storage with a Redis-backed cache for the unfiltered task
// listing. Filtered listings go straight to the backend; any mutation evicts
// the cached listing. Redis failures degrade to the backend and never fail
// the request.
type Cache struct {
	*Storage
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper around base using the provided Redis
// client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &Cache{
		base:  base,
		redis: client,
		ttl:   ttl,
	}
	if s, ok := base.(*Storage); ok {
		c.Storage = s
	}
	return c
}

func (c *Cache) ListTasks(ctx context.Context, f domain.ListFilter) ([]domain.Task, error) {
	if !f.Empty() {
		return c.base.ListTasks(ctx, f)
	}
	if tasks, ok := c.loadFromCache(ctx); ok {
		return tasks, nil
	}

	tasks, err := c.base.ListTasks(ctx, f)
	if err != nil {
		return nil, err
	}

	c.store(ctx, tasks)
	return tasks, nil
}

func (c *Cache) InsertTask(ctx context.Context, t domain.TaskCreate) (string, error) {
	id, err := c.base.InsertTask(ctx, t)
	if err != nil {
		return "", err
	}
	c.evict(ctx)
	return id, nil
}

func (c *Cache) UpdateTask(ctx context.Context, id string, changes domain.TaskUpdate) (domain.Task, error) {
	task, err := c.base.UpdateTask(ctx, id, changes)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) DeleteTask(ctx context.Context, id string) error {
	if err := c.base.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *Cache) loadFromCache(ctx context.Context) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, listCacheKey).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, listCacheKey).Err()
		return nil, false
	}
	return tasks, true
}

func (c *Cache) store(ctx context.Context, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, listCacheKey, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, listCacheKey).Result()
}
