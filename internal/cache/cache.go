// Package cache provides the layered (memory + disk) store behind the
// knowledge-base connection map. Connection verdicts are facts about the
// knowledge base, so entries default to never expiring; a TTL can be set
// for endpoints whose data churns.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-value store. A zero TTL means the entry never expires.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PairKey generates the cache key for an unordered entity pair. The pair
// is canonicalized so (a, b) and (b, a) share one entry.
func PairKey(ent1, ent2 string) string {
	if ent1 > ent2 {
		ent1, ent2 = ent2, ent1
	}
	hash := sha256.Sum256([]byte(ent1 + "\x00" + ent2))
	return "qgen:v1:" + hex.EncodeToString(hash[:])
}
