package server

import (
	"sync"

	"github.com/ironsheep/tile-mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/tile-mosaic-mcp/internal/palette"
)

type matcherKey struct {
	ref    string
	legacy bool
}

// matcherCache keeps one built matcher per palette reference and search
// mode so the tree is built once per server lifetime.
//
// matcherCache is safe for concurrent use by multiple goroutines.
type matcherCache struct {
	mu       sync.RWMutex
	matchers map[matcherKey]*palette.Matcher
}

func newMatcherCache() *matcherCache {
	return &matcherCache{
		matchers: make(map[matcherKey]*palette.Matcher),
	}
}

// Matcher returns the cached matcher for ref, building it on first use.
func (c *matcherCache) Matcher(ref string, legacy bool) (*palette.Matcher, error) {
	key := matcherKey{ref: ref, legacy: legacy}

	c.mu.RLock()
	if m, ok := c.matchers[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	m, err := mosaic.LoadMatcher(ref, legacy)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.matchers[key] = m
	c.mu.Unlock()

	return m, nil
}

// Len returns the number of cached matchers.
func (c *matcherCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matchers)
}
