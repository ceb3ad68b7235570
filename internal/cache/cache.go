// Package cache provides TTL caching of stat snapshots so repeated
// summarise calls for the same round reuse the same view rows.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wslanalytics/pressbox/internal/model"
)

// Cache defines the caching interface.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SnapshotKey derives a cache key for one view's rows of a given round.
func SnapshotKey(view, season string, round int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", view, season, round)))
	return "pressbox:v1:" + hex.EncodeToString(hash[:])
}

// GetRows fetches and decodes a cached row snapshot. A decode failure is
// treated as a miss; stale encodings just fall through to the store.
func GetRows(c Cache, key string) ([]model.Row, bool) {
	if c == nil {
		return nil, false
	}
	raw, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var rows []model.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// SetRows encodes and stores a row snapshot. Rows that cannot be encoded
// are skipped; caching is best effort.
func SetRows(c Cache, key string, rows []model.Row, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = c.Set(key, raw, ttl)
}
