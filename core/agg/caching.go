package agg

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// currentCacheVersion defines the version of the cached response schema
const currentCacheVersion = 1

// DefaultMemoEntries bounds the in-process response memo.
const DefaultMemoEntries = 128

// memoEntry is a decoded response kept in process memory.
type memoEntry struct {
	records []schema.MetricsRecord
	stored  time.Time
}

// Memo is an in-process LRU of decoded provider responses. One Memo is meant
// to outlive many CachingClients so that successive queries share it.
// Concurrent misses on the same key are collapsed into one fetch.
type Memo struct {
	mu      sync.Mutex
	entries *lru.Cache
	flight  singleflight.Group
}

// NewMemo returns a Memo holding at most entries responses.
func NewMemo(entries int) *Memo {
	if entries <= 0 {
		entries = DefaultMemoEntries
	}
	return &Memo{entries: lru.New(entries)}
}

// Len reports the number of memoized responses.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries.Len()
}

// CachingClient wraps a MetricsClient with an in-process LRU memo in front of
// a persistent CacheStore. Only successful fetches are cached.
type CachingClient struct {
	inner contract.MetricsClient
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
	memo  *Memo
}

var _ contract.MetricsClient = &CachingClient{} // Compile-time check

// NewCachingClient returns a CachingClient. A nil store keeps only the memo,
// and a nil memo gives the client a private one.
func NewCachingClient(inner contract.MetricsClient, store contract.CacheStore, ttl time.Duration, memo *Memo) *CachingClient {
	if memo == nil {
		memo = NewMemo(DefaultMemoEntries)
	}
	return &CachingClient{
		inner: inner,
		store: store,
		ttl:   ttl,
		now:   time.Now,
		memo:  memo,
	}
}

// MetricsByCommit implements the MetricsClient interface.
func (c *CachingClient) MetricsByCommit(ctx context.Context, repoURL, sha string, limit int) ([]schema.MetricsRecord, error) {
	key := generateCacheKey("byCommit", repoURL, sha, strconv.Itoa(max(limit, 0)))
	return c.cached(key, func() ([]schema.MetricsRecord, error) {
		return c.inner.MetricsByCommit(ctx, repoURL, sha, limit)
	})
}

// MetricsByCommitAndFile implements the MetricsClient interface.
func (c *CachingClient) MetricsByCommitAndFile(ctx context.Context, repoURL, sha, filePath string) ([]schema.MetricsRecord, error) {
	key := generateCacheKey("byCommitAndFile", repoURL, sha, filePath)
	return c.cached(key, func() ([]schema.MetricsRecord, error) {
		return c.inner.MetricsByCommitAndFile(ctx, repoURL, sha, filePath)
	})
}

// ProjectMetrics implements the MetricsClient interface.
func (c *CachingClient) ProjectMetrics(ctx context.Context, repoURL string, limit int) ([]schema.MetricsRecord, error) {
	key := generateCacheKey("project", repoURL, strconv.Itoa(max(limit, 0)))
	return c.cached(key, func() ([]schema.MetricsRecord, error) {
		return c.inner.ProjectMetrics(ctx, repoURL, limit)
	})
}

// cached serves key from the memo, then the store, and finally from fetch.
func (c *CachingClient) cached(key string, fetch func() ([]schema.MetricsRecord, error)) ([]schema.MetricsRecord, error) {
	if records, ok := c.checkMemo(key); ok {
		return records, nil
	}
	v, err := c.memo.flight.Do(key, func() (any, error) {
		if records, ok := c.checkMemo(key); ok {
			return records, nil
		}
		if records := checkCacheHit(c.store, key, c.ttl, c.now()); records != nil {
			c.remember(key, records, c.now())
			return records, nil
		}
		return c.computeAndStore(key, fetch)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]schema.MetricsRecord)), nil
}

// checkMemo returns a fresh copy of a memoized response.
func (c *CachingClient) checkMemo(key string) ([]schema.MetricsRecord, bool) {
	c.memo.mu.Lock()
	defer c.memo.mu.Unlock()

	v, ok := c.memo.entries.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(memoEntry)
	if c.ttl > 0 && c.now().Sub(entry.stored) > c.ttl {
		c.memo.entries.Remove(key)
		return nil, false
	}
	return slices.Clone(entry.records), true
}

func (c *CachingClient) remember(key string, records []schema.MetricsRecord, stored time.Time) {
	c.memo.mu.Lock()
	defer c.memo.mu.Unlock()
	c.memo.entries.Add(key, memoEntry{records: slices.Clone(records), stored: stored})
}

// checkCacheHit attempts to retrieve and validate a cached response
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration, now time.Time) []schema.MetricsRecord {
	if store == nil {
		return nil
	}
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return nil
	}
	if ttl > 0 && now.Sub(time.Unix(ts, 0)) > ttl {
		return nil
	}
	var records []schema.MetricsRecord
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		return nil
	}
	return records // Cache hit
}

// computeAndStore fetches the response and stores it in both cache layers
func (c *CachingClient) computeAndStore(key string, fetch func() ([]schema.MetricsRecord, error)) ([]schema.MetricsRecord, error) {
	records, err := fetch()
	if err != nil {
		return nil, err
	}

	stored := c.now()
	c.remember(key, records, stored)
	if c.store != nil {
		if data, err := json.Marshal(records); err == nil {
			if err := c.store.Set(key, data, currentCacheVersion, stored.Unix()); err != nil {
				contract.LogWarn("Failed to cache provider response", err)
			}
		}
	}
	return records, nil
}

// generateCacheKey creates a unique key from the endpoint and its parameters
func generateCacheKey(endpoint string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(endpoint))
	for _, p := range params {
		// Length prefixes keep ("ab","c") and ("a","bc") apart
		_, _ = fmt.Fprintf(h, "|%d:%s", len(p), p)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
