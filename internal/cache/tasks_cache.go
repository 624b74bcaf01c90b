package cache

import (
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
)

// TasksCache keeps per-owner task lists for a short TTL. Writers must call
// Invalidate for the owner they touched.
type TasksCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[int64]entry
}

type entry struct {
	tasks []task.Task
	exp   time.Time
}

func New(ttl time.Duration) *TasksCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &TasksCache{
		ttl: ttl,
		m:   make(map[int64]entry),
	}
}

func (c *TasksCache) Get(ownerID int64) ([]task.Task, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[ownerID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, ownerID)
		c.mu.Unlock()
		return nil, false
	}

	return e.tasks, true
}

func (c *TasksCache) Set(ownerID int64, tasks []task.Task) {
	c.mu.Lock()
	c.m[ownerID] = entry{tasks: tasks, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *TasksCache) Invalidate(ownerID int64) {
	c.mu.Lock()
	delete(c.m, ownerID)
	c.mu.Unlock()
}

func (c *TasksCache) Clear() {
	c.mu.Lock()
	c.m = make(map[int64]entry)
	c.mu.Unlock()
}
