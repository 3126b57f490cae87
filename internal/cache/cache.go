package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Common cache errors
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Cache defines the interface for all cache implementations
type Cache interface {
	// Get retrieves a value from the cache
	Get(key string, value interface{}) error

	// Set stores a value in the cache with an optional TTL
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error

	// Close cleans up the cache resources
	Close() error
}

// Entry represents a cached entry with metadata
type Entry struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsExpired checks if the cache entry has expired
func (e *Entry) IsExpired() bool {
	if e.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*e.ExpiresAt)
}

// KeyBuilder helps build consistent cache keys
type KeyBuilder struct {
	prefix string
}

func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: prefix}
}

func (b *KeyBuilder) IssuesListKey(owner, repo string, since time.Time) string {
	return b.buildKey("issues_list", owner, repo, since.Format("2006-01-02"))
}

func (b *KeyBuilder) IssueEventsKey(owner, repo string, number int) string {
	return b.buildKey("issue_events", owner, repo, number)
}

func (b *KeyBuilder) IssueCommentsKey(owner, repo string, number int) string {
	return b.buildKey("issue_comments", owner, repo, number)
}

func (b *KeyBuilder) VideoKey(videoID string) string {
	return b.buildKey("video", videoID)
}

func (b *KeyBuilder) buildKey(parts ...interface{}) string {
	key := b.prefix
	for _, part := range parts {
		key += ":" + toString(part)
	}
	return key
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return fmt.Sprintf("%d", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Factory function for creating default cache
func NewDefaultCache() (Cache, error) {
	return NewFileCache("review-notes")
}
