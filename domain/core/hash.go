package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// CacheKey identifies one memoized computation. It is derived from the
// dataset identity, the operation name, and the canonicalized parameters,
// so cache correctness never depends on session or UI lifecycle.
type CacheKey string

// NewCacheKey builds a key of the form "<dataset>/<operation>/<params-hash>".
// Parameters are sorted by name before hashing so map iteration order
// cannot produce two keys for the same request.
func NewCacheKey(datasetID DatasetID, operation string, params map[string]string) CacheKey {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%s;", name, params[name])
	}

	return CacheKey(fmt.Sprintf("%s/%s/%s", datasetID, operation, NewHash([]byte(b.String()))))
}

// String returns the string representation
func (k CacheKey) String() string { return string(k) }

// HasPrefix reports whether the key matches an invalidation prefix
func (k CacheKey) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(k), prefix)
}

// DatasetPrefix returns the prefix that matches every key for one dataset
func DatasetPrefix(datasetID DatasetID) string {
	return datasetID.String() + "/"
}
