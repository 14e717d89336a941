// internal/dnsproof/verifier.go
//
// DNS TXT ownership proof.
//
// Context
// -------
// Before a domain may be attached to a landing slug, the tenant must prove
// control of it by publishing a TXT record carrying their per-tenant token.
// The check walks *up* the domain hierarchy: `shop.example.com` can be
// proven via a TXT record on `example.com`, because whoever controls the
// registrable domain controls its subdomains.  The walk stops before the
// bare TLD.
//
// Failure semantics
// -----------------
// Verification gates an admin action, it never gates availability.  Every
// DNS error (timeout, NXDOMAIN, SERVFAIL, no records) counts as "not
// verified"; nothing in this package returns an error to the caller.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package dnsproof

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/landingpages/internal/metrics"
)

// TXTResolver is the lookup seam.  Production code uses the miekg/dns
// client in resolver.go; tests inject a map-backed fake.
type TXTResolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// Verifier checks ownership tokens against published TXT records.
type Verifier struct {
	Resolver TXTResolver

	// Mandatory mirrors the installation-wide switch.  When false, Verify
	// reports true without touching DNS: callers must read that as
	// "ownership proof is not required", never as "ownership is proven".
	Mandatory bool
}

// New returns a Verifier with the default DNS-backed resolver.
func New(mandatory bool) *Verifier {
	return &Verifier{Resolver: DefaultResolver(), Mandatory: mandatory}
}

// Verify reports whether token appears verbatim (after trimming
// whitespace) in a TXT record of domain or any ancestor domain above it,
// excluding the bare TLD.
func (v *Verifier) Verify(ctx context.Context, domain, token string) bool {
	if !v.Mandatory {
		return true
	}
	metrics.VerifyAttemptsTotal.Inc()

	for {
		records, err := v.Resolver.LookupTXT(ctx, domain)
		if err != nil {
			// Not found and network failure rank the same: keep walking up,
			// the parent zone may still carry the record.
			zap.S().Debugw("txt lookup failed", "domain", domain, "err", err)
		}
		for _, rec := range records {
			if strings.TrimSpace(rec) == token {
				return true
			}
		}

		// Strip the leftmost label.  Stop once the remainder is a single
		// label (the bare TLD) or nothing is left to strip.
		i := strings.IndexByte(domain, '.')
		if i < 0 {
			break
		}
		domain = domain[i+1:]
		if domain == "" || !strings.Contains(domain, ".") {
			break
		}
	}

	metrics.VerifyFailuresTotal.Inc()
	return false
}
