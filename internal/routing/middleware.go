// internal/routing/middleware.go
//
// Landing-domain rewrite middleware (import-cycle safe).
//
// Context
// -------
// Requests that arrive via a mapped, approved domain must route to the
// assigned slug no matter what path was asked for.  A lightweight
// interface—LandingResolver—keeps this package independent of the
// resolver package, avoiding cyclic imports (mapping already depends on
// routing for MakeSlug).
//
// Workflow
// --------
//   1. cmd/web wires Middleware(resolver) early in the chain.
//   2. On a serve decision the request path is rewritten to the slug path
//      and the slug is stashed in the request context.
//   3. On Unchanged, or any resolver failure, the request passes through
//      untouched.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package routing

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// LandingResolver is the minimal contract the resolver must fulfil.
// Defined here to avoid importing the resolve package and thus prevent
// import cycles.
type LandingResolver interface {
	// Landing reports the slug to serve for host, and whether to serve it.
	Landing(ctx context.Context, host string) (slug string, serve bool)
}

type ctxKey struct{}

// ServedSlug returns the landing slug this request was rewritten to, if
// any.  Present only when the middleware made a serve decision.
func ServedSlug(ctx context.Context) (string, bool) {
	slug, ok := ctx.Value(ctxKey{}).(string)
	return slug, ok
}

// Middleware returns a Chi-compatible middleware that rewrites mapped
// requests to their landing slug.
func Middleware(lr LandingResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := StripPort(r.Host)

			slug, serve := lr.Landing(r.Context(), host)
			if !serve {
				next.ServeHTTP(w, r)
				return
			}

			original := r.URL.Path
			target := SlugPath(slug)
			r.URL.Path = target
			r.RequestURI = target
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, slug))
			zap.L().Debug("landing rewrite",
				zap.String("host", host),
				zap.String("from", original),
				zap.String("to", target))

			next.ServeHTTP(w, r)
		})
	}
}

// StripPort removes the :port suffix from a request host when present.
func StripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
