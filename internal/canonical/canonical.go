// internal/canonical/canonical.go
//
// Canonical slug→domain index and URL fixup.
//
// Context
// -------
// When a landing slug is reachable under its own external domain, every
// URL the site emits for that slug (permalinks, canonical tags, social
// metadata) should point at the domain, not at the internal path.  The
// index is a derived, in-memory view rebuilt per request from the
// approved mapping rows of the current site; it is never persisted.
//
// Known limitation
// ----------------
// FixURL matches on the *last path segment only*.  A URL whose final
// segment coincidentally equals a mapped slug is rewritten even when it
// does not identify that content.  The original system behaves the same
// way; callers who need stricter matching must filter before calling.
package canonical

import (
	"strings"

	"github.com/yanizio/landingpages/internal/mapping"
)

// Index maps slug → external domain for one site.
type Index map[string]string

// BuildIndex derives the index from a site's mapping entries.  Only
// approved rows with a slug participate.  When two approved entries carry
// the same slug, the most-recently-created one wins; ties on the
// timestamp fall to the lexicographically larger domain, so the result
// never depends on input order.
func BuildIndex(entries []mapping.Entry) Index {
	idx := make(Index, len(entries))
	winners := make(map[string]*mapping.Entry, len(entries))
	for i := range entries {
		e := &entries[i]
		if !e.Approved || e.Slug == "" {
			continue
		}
		cur, ok := winners[e.Slug]
		if !ok || e.CreatedAt.After(cur.CreatedAt) ||
			(e.CreatedAt.Equal(cur.CreatedAt) && e.Domain > cur.Domain) {
			winners[e.Slug] = e
		}
	}
	for slug, e := range winners {
		idx[slug] = e.Domain
	}
	return idx
}

// Prefix returns the scheme-and-host prefix canonical URLs are built
// with, per the tenant's use_ssl and use_www flags.
func Prefix(useSSL, useWWW bool) string {
	p := "http://"
	if useSSL {
		p = "https://"
	}
	if useWWW {
		p += "www."
	}
	return p
}

// FixURL replaces url with prefix+domain when its last path segment is a
// mapped slug, and returns it unchanged otherwise.  Side-effect free and
// cheap; it hooks every URL-producing code path and may run many times
// per request.  Idempotent: a rewritten URL's last segment is a domain,
// never a slug, so a second pass leaves it alone.
func FixURL(url string, idx Index, prefix string) string {
	if len(idx) == 0 {
		return url
	}

	// Find the last '/' while skipping over a single trailing slash.  A
	// URL with no slash at all is treated as a bare slug.
	candidate := url
	search := url
	if len(search) >= 2 {
		search = search[:len(search)-1]
	}
	if i := strings.LastIndexByte(search, '/'); i >= 0 {
		candidate = url[i+1:]
	}
	candidate = strings.Trim(candidate, "/")

	if domain, ok := idx[candidate]; ok {
		return prefix + domain
	}
	return url
}
