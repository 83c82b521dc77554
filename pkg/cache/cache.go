package cache

import (
	"time"
)

//go:generate mockgen -source=cache.go -destination=mock/cache.go -package=mock_cache

type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V, ttl time.Duration)
	Remove(key K)
	Len() int
	Capacity() int
	StartCleanup(interval time.Duration)
	StopCleanup()
}
