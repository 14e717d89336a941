// internal/cachepurge/invalidator.go
//
// Best-effort page-cache invalidation.
//
// Context
// -------
// An external page cache may hold rendered responses keyed by domain.
// When a mapping is deleted or a slug reassigned, the stale pages for
// that domain must go.  Invalidation is advisory: a failed purge is
// logged and counted, never surfaced, and never blocks the admin action
// that triggered it.
//
// Three implementations cover the deployment spectrum: Noop when no cache
// layer is configured, Dir for file-based caches laid out one directory
// per domain, and Redis for key-prefix caches.
package cachepurge

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/landingpages/internal/metrics"
)

// Invalidator purges cached pages for one domain.
type Invalidator interface {
	RemoveByKey(ctx context.Context, domain string) error
}

//
// Noop
//

// Noop is the valid choice when no cache layer exists.
type Noop struct{}

func (Noop) RemoveByKey(context.Context, string) error { return nil }

//
// Dir
//

// Dir removes `<root>/<domain>` recursively.  Matches file-based page
// caches that store one directory per served hostname.
type Dir struct {
	Root string
}

func (d Dir) RemoveByKey(_ context.Context, domain string) error {
	if domain == "" || d.Root == "" {
		return nil
	}
	// Sub-directory installs serve under "host/sub"; the cache flattens
	// that to "host-sub".  The replacement also keeps the path inside
	// the cache root.
	name := strings.ReplaceAll(domain, "/", "-")
	if name == "." || name == ".." {
		return nil
	}
	return os.RemoveAll(filepath.Join(d.Root, name))
}

//
// Fire-and-forget wrapper
//

// Purge runs inv for one domain and downgrades any failure to a warning.
func Purge(ctx context.Context, inv Invalidator, domain string) {
	if inv == nil {
		return
	}
	if err := inv.RemoveByKey(ctx, domain); err != nil {
		metrics.CachePurgeFailuresTotal.Inc()
		zap.S().Warnw("page cache purge failed", "domain", domain, "err", err)
	}
}
