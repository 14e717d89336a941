// internal/mapping/normalize.go
//
// Domain input normalization.
//
// Admins paste domains in every shape: uppercase, with "www.", with a
// trailing dot, or as raw IDN (όνομα.gr).  Everything is folded into the
// lowercase ASCII/punycode form before the TXT check and before storage,
// so the table never holds two spellings of the same hostname.
package mapping

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeDomain returns the canonical stored form of a user-supplied
// domain, or an error when the input is not a plausible hostname.
func NormalizeDomain(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	if d == "" {
		return "", fmt.Errorf("mapping: empty domain")
	}
	if strings.ContainsAny(d, " /\\:@") {
		return "", fmt.Errorf("mapping: %q is not a bare hostname", raw)
	}

	ascii, err := idna.Lookup.ToASCII(d)
	if err != nil {
		return "", fmt.Errorf("mapping: punycode conversion of %q: %w", raw, err)
	}
	return ascii, nil
}
