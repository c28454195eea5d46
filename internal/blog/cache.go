package blog

import (
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	defaultCacheSize   = 10 * 1024 * 1024 // 10 MB
	cacheExpireSeconds = 5 * 60
)

// ResponseCache caches rendered public blog responses keyed by request
// URI. Any admin write clears the whole cache; with a handful of posts
// there is no point invalidating selectively.
type ResponseCache struct {
	cache *freecache.Cache
}

func NewResponseCache(sizeBytes int) *ResponseCache {
	if sizeBytes <= 0 {
		sizeBytes = defaultCacheSize
	}
	return &ResponseCache{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	cached, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return cached, true
}

func (c *ResponseCache) Set(key string, response []byte) {
	if err := c.cache.Set([]byte(key), response, cacheExpireSeconds); err != nil {
		log.Errorf("failed to cache blog response for %s: %s", key, err)
	}
}

func (c *ResponseCache) Clear() {
	c.cache.Clear()
}
