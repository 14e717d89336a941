// internal/cachepurge/purge.go
//
// Bulk purge: drop every cached page a site serves under.  Used when a
// site-wide toggle flips (the canonical prefix changed, so every cached
// page is stale) and on feature deactivation.
package cachepurge

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/landingpages/internal/metrics"
)

// PurgeAll invalidates each domain concurrently.  Individual failures are
// counted and the first one is returned, but the remaining domains are
// still attempted; callers treat the error as log-and-continue.
func PurgeAll(ctx context.Context, inv Invalidator, domains []string) error {
	if inv == nil || len(domains) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(8)
	for _, d := range domains {
		d := d
		g.Go(func() error {
			if err := inv.RemoveByKey(ctx, d); err != nil {
				metrics.CachePurgeFailuresTotal.Inc()
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
