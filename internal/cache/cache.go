package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PairKey generates a cache key for an ordered oracle input pair, namespaced
// by the oracle kind ("entail", "sim")
func PairKey(kind, a, b string) string {
	hash := sha256.Sum256([]byte(kind + "\x00" + a + "\x00" + b))
	return "dndscore:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}

// ClaimKey generates a cache key for a single claim, namespaced by the
// oracle kind ("embed")
func ClaimKey(kind, claim string) string {
	hash := sha256.Sum256([]byte(kind + "\x00" + claim))
	return "dndscore:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
