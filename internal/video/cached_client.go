package video

import (
	"context"
	"log"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/cache"
)

// CachedClient wraps Client with caching capabilities.
type CachedClient struct {
	client *Client
	cache  cache.Cache
	kb     *cache.KeyBuilder
}

// NewCachedClient creates a new YouTube client with caching.
func NewCachedClient(ctx context.Context, apiKey string, cacheImpl cache.Cache) (*CachedClient, error) {
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	return &CachedClient{
		client: client,
		cache:  cacheImpl,
		kb:     cache.NewKeyBuilder("video"),
	}, nil
}

// GetVideo fetches video metadata with caching. Only finished streams are
// cached: a live stream's end time is still moving, and an unknown id might
// simply not be published yet.
func (c *CachedClient) GetVideo(ctx context.Context, id string) (*Video, error) {
	cacheKey := c.kb.VideoKey(id)
	var cached Video
	if err := c.cache.Get(cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Cache error for video %s: %v", id, err)
	}

	video, err := c.client.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, nil
	}

	if video.End.Before(time.Now().Add(-time.Hour)) {
		if err := c.cache.Set(cacheKey, video, 7*24*time.Hour); err != nil {
			log.Printf("Failed to cache video %s: %v", id, err)
		}
	}

	return video, nil
}
