package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched token list stays fresh.
const DefaultTTL = 5 * time.Minute

// Token is a single tradable asset on a specific chain.
type Token struct {
	Symbol          string
	Blockchain      string
	AssetID         string
	Decimals        int32
	ContractAddress string
}

// Source provides the raw token list, typically the 1Click /tokens endpoint.
type Source interface {
	SupportedTokens(ctx context.Context) ([]Token, error)
}

// Cache is a read-through, time-boxed cache of the token catalog. A refresh
// replaces the whole entry list atomically; entries are never mutated in place.
type Cache struct {
	source Source
	ttl    time.Duration

	mu        sync.RWMutex
	entries   []Token
	fetchedAt time.Time

	group singleflight.Group
}

// NewCache creates a catalog cache over the given source. A ttl of zero means
// DefaultTTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{source: source, ttl: ttl}
}

// Tokens returns the cached token list, refreshing it when the TTL has
// expired. Concurrent refreshes are collapsed into a single fetch.
func (c *Cache) Tokens(ctx context.Context) ([]Token, error) {
	c.mu.RLock()
	entries, fetchedAt := c.entries, c.fetchedAt
	c.mu.RUnlock()

	if entries != nil && time.Since(fetchedAt) < c.ttl {
		return entries, nil
	}

	v, err, _ := c.group.Do("tokens", func() (interface{}, error) {
		fresh, err := c.source.SupportedTokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch token catalog: %w", err)
		}

		c.mu.Lock()
		c.entries = fresh
		c.fetchedAt = time.Now()
		c.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		// Serve the stale list rather than failing the turn outright.
		if entries != nil {
			return entries, nil
		}
		return nil, err
	}

	return v.([]Token), nil
}

// Chains returns the distinct chain names present in the catalog, sorted.
func (c *Cache) Chains(ctx context.Context) ([]string, error) {
	tokens, err := c.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	chains := make([]string, 0)
	for _, t := range tokens {
		chain := strings.ToLower(t.Blockchain)
		if chain != "" && !seen[chain] {
			seen[chain] = true
			chains = append(chains, chain)
		}
	}
	sort.Strings(chains)

	return chains, nil
}
