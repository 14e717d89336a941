// internal/resolve/typecache.go
//
// Request-scoped slug→content-type memo.
//
// The rewriter and resolver may ask for the same slug several times while
// one response renders.  The cache is created per request and thrown away
// with it; it is not safe for concurrent use and must not be shared across
// requests.
package resolve

import "context"

// TypeCache memoizes ContentTypeLookup results, including negative ones.
type TypeCache struct {
	types map[string]string
}

// NewTypeCache returns an empty per-request cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{types: make(map[string]string, 4)}
}

// Get returns the content type for slug, consulting lookup at most once
// per slug for the cache's lifetime.  A nil receiver always delegates.
func (c *TypeCache) Get(ctx context.Context, slug string, lookup ContentTypeLookup) (string, error) {
	if c == nil {
		return lookup(ctx, slug)
	}
	if t, ok := c.types[slug]; ok {
		return t, nil
	}
	t, err := lookup(ctx, slug)
	if err != nil {
		// Errors are not cached; the next caller may succeed.
		return "", err
	}
	c.types[slug] = t
	return t, nil
}
