package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"
)

// LRUCache is a fixed-capacity in-memory cache with per-entry TTL. Least
// recently used entries are evicted when capacity is exceeded; expired
// entries are dropped lazily on access and by a background sweep.
type LRUCache[K comparable, V any] struct {
	name    string
	entries map[K]*list.Element
	order   *list.List
	mu      sync.Mutex
	log     logger.Logger
	metrics metric.Cache

	capacity    int
	cleanupStop chan struct{}
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// NewLRU creates a cache of the given capacity. The name is used as the
// metrics label.
func NewLRU[K comparable, V any](
	name string,
	capacity int,
	log logger.Logger,
	metrics metric.Cache,
) (*LRUCache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache.NewLRU: capacity must be positive, got %d", capacity)
	}

	return &LRUCache[K, V]{
		name:     name,
		capacity: capacity,
		entries:  make(map[K]*list.Element),
		order:    list.New(),
		log:      log,
		metrics:  metrics,
	}, nil
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.metrics.Miss(c.name)
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		c.removeElement(elem, "expired")
		c.metrics.Miss(c.name)
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.metrics.Hit(c.name)

	return e.value, true
}

func (c *LRUCache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expires = expires
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest, "lru")
		}
	}

	elem := c.order.PushFront(&entry[K, V]{key: key, value: value, expires: expires})
	c.entries[key] = elem
	c.metrics.Size(c.name, c.order.Len())
}

func (c *LRUCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem, "removed")
	}
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUCache[K, V]) Capacity() int {
	return c.capacity
}

func (c *LRUCache[K, V]) StartCleanup(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
	}
	c.cleanupStop = make(chan struct{})

	go c.runCleanup(interval, c.cleanupStop)
}

func (c *LRUCache[K, V]) StopCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
		c.cleanupStop = nil
	}
}

func (c *LRUCache[K, V]) runCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweepExpired()
		case <-stop:
			return
		}
	}
}

func (c *LRUCache[K, V]) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var expired []*list.Element

	for _, elem := range c.entries {
		e := elem.Value.(*entry[K, V])
		if !e.expires.IsZero() && now.After(e.expires) {
			expired = append(expired, elem)
		}
	}

	for _, elem := range expired {
		c.removeElement(elem, "expired")
	}

	if len(expired) > 0 {
		c.log.Infow("cache cleanup completed",
			"cache", c.name,
			"removed", len(expired),
			"remaining", c.order.Len(),
		)
	}
}

// removeElement must be called with the mutex held.
func (c *LRUCache[K, V]) removeElement(elem *list.Element, reason string) {
	e := elem.Value.(*entry[K, V])
	c.order.Remove(elem)
	delete(c.entries, e.key)
	c.metrics.Eviction(c.name, reason)
	c.metrics.Size(c.name, c.order.Len())
}
