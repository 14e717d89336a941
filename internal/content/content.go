// internal/content/content.go
//
// Slug → content-type lookup against the site's content table.
//
// Context
// -------
// The content store belongs to the host platform; the mapping core only
// ever asks one question of it: "what published kind of thing carries
// this slug?".  Draft and trashed content never routes, so status is
// filtered at SQL level.
package content

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// TypeBySlug returns the content type for a published slug, or "" when no
// published content carries it.  The signature matches
// resolve.ContentTypeLookup when curried with a pool:
//
//	lookup := func(ctx context.Context, slug string) (string, error) {
//	    return content.TypeBySlug(ctx, db, slug)
//	}
func TypeBySlug(ctx context.Context, db *sqlx.DB, slug string) (string, error) {
	const q = `
        SELECT content_type
        FROM   content
        WHERE  slug = ? AND status = 'published'
        LIMIT  1`
	var t string
	if err := db.GetContext(ctx, &t, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return t, nil
}
