package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for page caching. Fetched directory pages
// are cached by URL so repeated runs against the same sources do not
// re-hit the target sites.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates a cache key from a page URL
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "founderscout:v1:" + hex.EncodeToString(hash[:])
}
