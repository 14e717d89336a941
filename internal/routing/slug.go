// internal/routing/slug.go
//
// Slug normalization.
//
// MakeSlug(raw) converts whatever an admin typed into a slug restricted to
// ASCII a-z, 0-9, and “-”; the result is what the mapping table stores and
// what the content lookup is keyed on.
//
// Rules
// -----
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one “-”.  That strips
//    spaces, punctuation, emoji, and non-ASCII.
// 3. Collapse consecutive “-” to a single “-”.
// 4. Trim leading / trailing “-”.
// 5. An input with no usable characters yields "": an empty slug is the
//    stored signal that the mapping routes nowhere yet.
//
// Slugs are capped at 200 runes to match the column width.
package routing

import (
	"strings"
)

// MakeSlug converts raw admin input → lower-kebab ASCII.
func MakeSlug(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastWasDash := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			// any non-ASCII or punctuation becomes a single dash
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > 200 {
		slug = slug[:200]
		// trim trailing dash if the cut landed on one
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}

// SlugPath returns the internal routing path for a slug, with exactly one
// leading slash.
func SlugPath(slug string) string {
	return "/" + strings.Trim(slug, "/")
}
