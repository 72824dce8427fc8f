package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey derives the cache key for a file from its path, content and the
// config fingerprint. Any change to one of them yields a new key.
func CacheKey(path string, content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
