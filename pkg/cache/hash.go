package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey builds a namespaced cache key: prefix:sha256(parts joined with
// NUL). The separator keeps ("ab","c") and ("a","bc") distinct.
func hashKey(prefix string, parts ...string) string {
	return prefix + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash computes the SHA-256 of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
