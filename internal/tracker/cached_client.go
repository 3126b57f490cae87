package tracker

import (
	"context"
	"log"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/cache"
)

// CachedClient wraps Client with caching for the read paths that dominate
// summary generation (issue lists, per-issue events and comments). Write
// operations and git data reads always go to the API: the commit path must
// see the branch tip as it is right now.
type CachedClient struct {
	client *Client
	cache  cache.Cache
	kb     *cache.KeyBuilder
}

// NewCachedClient creates a new tracker client with caching.
func NewCachedClient(token string, cacheImpl cache.Cache) *CachedClient {
	return &CachedClient{
		client: NewClient(token),
		cache:  cacheImpl,
		kb:     cache.NewKeyBuilder("tracker"),
	}
}

// ListIssues fetches issues with caching.
func (c *CachedClient) ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]Issue, error) {
	cacheKey := c.kb.IssuesListKey(owner, repo, since)
	var cached []Issue
	if err := c.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Cache error for issues list: %v", err)
	}

	issues, err := c.client.ListIssues(ctx, owner, repo, since)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cacheKey, issues, c.calculateTTL(since)); err != nil {
		log.Printf("Failed to cache issues list: %v", err)
	}

	return issues, nil
}

// ListEvents fetches issue events with caching.
func (c *CachedClient) ListEvents(ctx context.Context, owner, repo string, number int) ([]Event, error) {
	cacheKey := c.kb.IssueEventsKey(owner, repo, number)
	var cached []Event
	if err := c.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Cache error for issue #%d events: %v", number, err)
	}

	events, err := c.client.ListEvents(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cacheKey, events, 30*time.Minute); err != nil {
		log.Printf("Failed to cache issue #%d events: %v", number, err)
	}

	return events, nil
}

// ListComments fetches issue comments with caching.
func (c *CachedClient) ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	cacheKey := c.kb.IssueCommentsKey(owner, repo, number)
	var cached []Comment
	if err := c.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Cache error for issue #%d comments: %v", number, err)
	}

	comments, err := c.client.ListComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cacheKey, comments, 30*time.Minute); err != nil {
		log.Printf("Failed to cache issue #%d comments: %v", number, err)
	}

	return comments, nil
}

// UpdateComment rewrites a comment. Comment list keys are per issue and the
// issue number isn't known here, so stale lists age out via the short TTL
// rather than being invalidated.
func (c *CachedClient) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	return c.client.UpdateComment(ctx, owner, repo, commentID, body)
}

func (c *CachedClient) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	return c.client.DefaultBranch(ctx, owner, repo)
}

func (c *CachedClient) GetRef(ctx context.Context, owner, repo, branch string) (string, error) {
	return c.client.GetRef(ctx, owner, repo, branch)
}

func (c *CachedClient) GetCommit(ctx context.Context, owner, repo, sha string) (string, error) {
	return c.client.GetCommit(ctx, owner, repo, sha)
}

func (c *CachedClient) GetTreeRecursive(ctx context.Context, owner, repo, treeSHA string) ([]string, error) {
	return c.client.GetTreeRecursive(ctx, owner, repo, treeSHA)
}

func (c *CachedClient) CreateTree(ctx context.Context, owner, repo, baseTreeSHA, path, content string) (string, error) {
	return c.client.CreateTree(ctx, owner, repo, baseTreeSHA, path, content)
}

func (c *CachedClient) CreateCommit(ctx context.Context, owner, repo, message, treeSHA, parentSHA string) (string, error) {
	return c.client.CreateCommit(ctx, owner, repo, message, treeSHA, parentSHA)
}

func (c *CachedClient) UpdateRef(ctx context.Context, owner, repo, branch, sha string) error {
	return c.client.UpdateRef(ctx, owner, repo, branch, sha)
}

// calculateTTL picks a cache lifetime based on how recent the queried window
// is: review windows older than a week no longer change.
func (c *CachedClient) calculateTTL(since time.Time) time.Duration {
	daysSince := time.Since(since).Hours() / 24

	if daysSince > 7 {
		return 24 * time.Hour
	}

	return 30 * time.Minute
}

// Close cleans up the client
func (c *CachedClient) Close() error {
	return c.cache.Close()
}
