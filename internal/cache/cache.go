package cache

import (
	"strings"
	"time"
)

// Cache is a typed key/value store with per-entry expiry
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// Key joins parts into a namespaced cache key
func Key(namespace string, parts ...string) string {
	return "entity-scanner:" + namespace + ":" + strings.ToLower(strings.Join(parts, "/"))
}
