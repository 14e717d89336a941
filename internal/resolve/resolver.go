// internal/resolve/resolver.go
//
// Request-time routing decision.
//
// Context
// -------
// Evaluated once per inbound request, as early as possible: given the
// request's host, decide whether the site should serve a landing slug
// instead of whatever the path would normally route to.  The decision is
// advisory—the caller mutates its own routing state.
//
// Every failure path falls open to Unchanged.  A visitor must never see an
// error page because a mapping row was missing, pointed at an unpublished
// slug, or the store hiccuped.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/yanizio/landingpages/internal/mapping"
	"github.com/yanizio/landingpages/internal/metrics"
)

// Content kinds the landing path knows how to serve.  Anything else (menu
// items, attachments, revisions, custom types) falls back to default
// routing.
const (
	TypePage     = "page"
	TypePost     = "post"
	TypeFlowStep = "cartflows_step"
)

var supportedTypes = map[string]bool{
	TypePage:     true,
	TypePost:     true,
	TypeFlowStep: true,
}

// ContentTypeLookup resolves a slug to its published content type, or ""
// when no published content carries the slug.
type ContentTypeLookup func(ctx context.Context, slug string) (string, error)

// Decision is the routing outcome for one request.
type Decision struct {
	// Serve is false for Unchanged: default routing proceeds untouched.
	Serve bool

	// Slug and ContentType are set only when Serve is true.
	Slug        string
	ContentType string
}

// Unchanged is the zero decision.
var Unchanged = Decision{}

// MappingLookup is the slice of the mapping store the resolver needs.
// *mapping.Store satisfies it.
type MappingLookup interface {
	ByDomain(ctx context.Context, domain string) (*mapping.Entry, error)
}

// Resolver turns request hosts into routing decisions.
type Resolver struct {
	Mappings MappingLookup
	Lookup   ContentTypeLookup
}

// Resolve decides what the given request host should display.  types may
// be nil; passing the same TypeCache for every lookup within one request
// avoids repeated slug queries.
func (r *Resolver) Resolve(ctx context.Context, requestDomain string, types *TypeCache) Decision {
	entry, err := r.Mappings.ByDomain(ctx, requestDomain)
	if err != nil {
		// Fail open: behave as if no mapping existed.
		metrics.MappingLoadErrorsTotal.Inc()
		zap.S().Warnw("mapping lookup failed, serving default route",
			"domain", requestDomain, "err", err)
		return r.unchanged()
	}
	if entry == nil || !entry.Approved || entry.Slug == "" {
		return r.unchanged()
	}

	ctype, err := types.Get(ctx, entry.Slug, r.Lookup)
	if err != nil {
		metrics.MappingLoadErrorsTotal.Inc()
		zap.S().Warnw("content type lookup failed, serving default route",
			"slug", entry.Slug, "err", err)
		return r.unchanged()
	}
	if ctype == "" || !supportedTypes[ctype] {
		// Mapping exists but points nowhere valid (yet), or at a content
		// kind outside the allow-list.  Not an error.
		return r.unchanged()
	}

	metrics.ResolveDecisionsTotal.WithLabelValues("serve").Inc()
	return Decision{Serve: true, Slug: entry.Slug, ContentType: ctype}
}

func (r *Resolver) unchanged() Decision {
	metrics.ResolveDecisionsTotal.WithLabelValues("unchanged").Inc()
	return Unchanged
}

// Landing satisfies routing.LandingResolver with a fresh per-request
// type cache.
func (r *Resolver) Landing(ctx context.Context, host string) (string, bool) {
	d := r.Resolve(ctx, host, NewTypeCache())
	return d.Slug, d.Serve
}
