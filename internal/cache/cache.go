// Package cache keeps the raw contents of world-knowledge files so that
// repeated loads (several entity types pointing at one gazetteer, config
// reloads in long batch runs) read each file once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Cache defines the interface for caching file contents
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FileKey derives a cache key from a path and its size and modification
// time, so an edited file is never served stale
func FileKey(path string, info os.FileInfo) string {
	raw := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(raw))
	return "corefer:v1:" + hex.EncodeToString(hash[:])
}

// ReadFile returns the contents of path, consulting c first. A nil cache
// reads straight from disk.
func ReadFile(c Cache, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return os.ReadFile(path)
	}

	key := FileKey(path, info)
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Set(key, data, 0); err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	return data, nil
}
