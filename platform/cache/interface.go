package cache

import "time"

// CacheService is the two-level (memory + redis) cache surface.
type CacheService interface {
	GetCache(key string) (interface{}, bool)
	SetCache(key string, value interface{}, expiration time.Duration) error
	DelCache(key string) error
	GetOrLoad(key string, expiration time.Duration, loader func() (interface{}, error)) (interface{}, error)
}

// MessageQueue is for the redis-backed work queue.
type MessageQueue interface {
	PushToQueue(queueName string, value interface{}) error
	PopFromQueue(queueName string) (interface{}, error)
}
