package cache

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

type MultiCacheGroup struct {
	// value store is shared, don't modify it

	// key: channel:index_url -> raw upstream index body
	ReleaseIndexCache *Cache[string, []byte]
}

func (g *MultiCacheGroup) GetCacheKey(elems ...string) string {
	return strings.Join(elems, ":")
}

func (g *MultiCacheGroup) EvictAll() {
	g.ReleaseIndexCache.EvictAll()
	zap.L().Info("cache evict")
}

func NewCacheGroup(indexTTL time.Duration) *MultiCacheGroup {
	return &MultiCacheGroup{
		ReleaseIndexCache: NewCache[string, []byte](indexTTL),
	}
}
