package cache

import (
	"time"

	"golang.org/x/sync/singleflight"

	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/platform/redis"
)

type Service struct {
	l1 *L1CacheService
	l2 *redis.Service
	sf singleflight.Group
}

func NewCacheService(l1 *L1CacheService, l2 *redis.Service) CacheService {
	return &Service{l1: l1, l2: l2}
}

func (cs *Service) GetCache(key string) (interface{}, bool) {
	if data, ok := cs.l1.Get(key); ok {
		return data, ok
	}
	if data, ok := cs.l2.GetCache(key); ok {
		return data, ok
	}
	return nil, false
}

func (cs *Service) SetCache(key string, value interface{}, expiration time.Duration) error {
	if err := cs.l2.SetCache(key, value, expiration); err != nil {
		logging.Logger.Error("l2 fail SetCache", "error", err)
		return err
	}
	cs.l1.Set(key, value, time.Duration(float64(expiration)*0.3))
	return nil
}

func (cs *Service) DelCache(key string) error {
	cs.l1.Del(key)
	if err := cs.l2.DelCache(key); err != nil {
		logging.Logger.Error("l2 fail DelCache", "error", err)
		return err
	}
	return nil
}

// GetOrLoad returns the cached value or runs loader once for all
// concurrent callers of the same key, caching the loaded value.
func (cs *Service) GetOrLoad(key string, expiration time.Duration, loader func() (interface{}, error)) (interface{}, error) {
	if data, ok := cs.GetCache(key); ok {
		return data, nil
	}
	value, err, _ := cs.sf.Do(key, func() (interface{}, error) {
		if data, ok := cs.GetCache(key); ok {
			return data, nil
		}
		loaded, err := loader()
		if err != nil {
			return nil, err
		}
		if err := cs.SetCache(key, loaded, expiration); err != nil {
			logging.Logger.Error("fail caching loaded value", "key", key, "error", err)
		}
		return loaded, nil
	})
	return value, err
}
