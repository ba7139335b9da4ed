package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// PropertiesPrefix namespaces every collection-level listing cache entry so
// mutations can invalidate all of them in one pass.
const PropertiesPrefix = "properties:"

func PropertyKey(id string) string {
	return "property:" + id
}

// PropertiesKey derives the collection cache key from the canonical filter
// serialization. The canonical string is hashed so arbitrary filter content
// stays a bounded, redis-safe key.
func PropertiesKey(canonicalFilter string) string {
	sum := sha256.Sum256([]byte(canonicalFilter))
	return PropertiesPrefix + hex.EncodeToString(sum[:])
}

func FavoritesKey(userID string) string {
	return "favorites:" + userID
}

func RecommendationsKey(userID string) string {
	return "recommendations:" + userID
}
