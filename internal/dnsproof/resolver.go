// internal/dnsproof/resolver.go
//
// Production TXT resolver on top of miekg/dns.
//
// The stdlib resolver offers no per-query timeout knob, and verification
// runs inside an admin HTTP request, so the query must be bounded.  The
// miekg client gives us an explicit timeout and lets tests skip the
// network entirely via the TXTResolver seam.
package dnsproof

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// QueryTimeout bounds one TXT lookup end to end.  Admin actions wait on
	// this synchronously, so keep it well under typical proxy timeouts.
	QueryTimeout = 5 * time.Second

	fallbackServer = "1.1.1.1:53"
	resolvConf     = "/etc/resolv.conf"
)

var errNoAnswer = errors.New("dnsproof: no TXT answer")

// Resolver queries the configured nameservers for TXT records.
type Resolver struct {
	client  *dns.Client
	servers []string
}

// DefaultResolver builds a Resolver from /etc/resolv.conf, falling back to
// a public server when the file is unreadable (containers, odd jails).
func DefaultResolver() *Resolver {
	servers := []string{fallbackServer}
	if cfg, err := dns.ClientConfigFromFile(resolvConf); err == nil && len(cfg.Servers) > 0 {
		servers = servers[:0]
		for _, s := range cfg.Servers {
			servers = append(servers, s+":"+cfg.Port)
		}
	}
	return &Resolver{
		client:  &dns.Client{Timeout: QueryTimeout},
		servers: servers,
	}
}

// LookupTXT returns every TXT value published at name.  Multi-chunk
// records are joined, matching what resolvers hand applications.
func (r *Resolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true

	var lastErr error = errNoAnswer
	for _, server := range r.servers {
		in, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			lastErr = errNoAnswer
			continue
		}
		var out []string
		for _, ans := range in.Answer {
			if txt, ok := ans.(*dns.TXT); ok {
				out = append(out, strings.Join(txt.Txt, ""))
			}
		}
		return out, nil
	}
	return nil, lastErr
}
