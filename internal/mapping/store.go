// internal/mapping/store.go
//
// Query helpers for the global `landingpage` table.
//
// Context
// -------
// Writes are rare and admin-driven; reads happen on every request that
// arrives via a mapped domain.  All helpers execute exactly one
// parameterised statement against the control-plane pool, and every read
// helper is safe to call on the hot path (no network beyond the DB, no
// writes).
//
// Notes
// -----
// • Column list matches the fields in `Entry`; update both together.
// • Oxford commas, two spaces after periods.
package mapping

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/landingpages/internal/routing"
)

// ErrDuplicateDomain is returned when an insert targets a domain that is
// already mapped anywhere in the installation, by any site.
var ErrDuplicateDomain = errors.New("mapping: domain already in use")

// TenantEnumerator lists the site IDs that still exist.  The site package
// provides the production implementation; PurgeOrphans is the only
// consumer.
type TenantEnumerator interface {
	List(ctx context.Context) ([]uint64, error)
}

// Store wraps the control-plane pool with landingpage-table operations.
type Store struct {
	db *sqlx.DB
}

// NewStore returns a Store bound to db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListForSite returns every entry for one site, any approval state,
// ordered by domain.  Used by the admin surface.
func (s *Store) ListForSite(ctx context.Context, siteID uint64) ([]Entry, error) {
	const q = `
        SELECT domain, site_id, network_id, slug, txt_token, created_at, approved
        FROM   landingpage
        WHERE  site_id = ?
        ORDER BY domain`
	var rows []Entry
	if err := s.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, err
	}
	return rows, nil
}

// ApprovedForSite returns only the approved entries for one site, oldest
// first.  The canonical index is built from this slice; the ordering makes
// its last-write-wins tie-break deterministic.
func (s *Store) ApprovedForSite(ctx context.Context, siteID uint64) ([]Entry, error) {
	const q = `
        SELECT domain, site_id, network_id, slug, txt_token, created_at, approved
        FROM   landingpage
        WHERE  site_id = ? AND approved = 1
        ORDER BY created_at, domain`
	var rows []Entry
	if err := s.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByDomain fetches the entry for one domain regardless of owner, or
// sql.ErrNoRows wrapped as (nil, nil) absence.
func (s *Store) ByDomain(ctx context.Context, domain string) (*Entry, error) {
	const q = `
        SELECT domain, site_id, network_id, slug, txt_token, created_at, approved
        FROM   landingpage
        WHERE  domain = ?
        LIMIT  1`
	var e Entry
	if err := s.db.GetContext(ctx, &e, q, domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Insert writes a fresh mapping with an empty slug.  The TXT ownership
// check happens before this call, in the caller; approved records its
// outcome.  A domain held by any site, approved or not, cannot be taken.
func (s *Store) Insert(ctx context.Context, domain string, siteID, networkID uint64, token string, approved bool) error {
	const q = `
        INSERT INTO landingpage (domain, site_id, network_id, slug, txt_token, approved)
        VALUES (?, ?, ?, '', ?, ?)`
	_, err := s.db.ExecContext(ctx, q, domain, siteID, networkID, token, approved)
	if err != nil {
		var my *mysql.MySQLError
		if errors.As(err, &my) && my.Number == 1062 { // duplicate primary key
			return ErrDuplicateDomain
		}
		return err
	}
	return nil
}

// SetApproved records the latest verification outcome for one domain.
// Approval is not re-checked on the request path; the admin surface calls
// this when it re-verifies at render time.
func (s *Store) SetApproved(ctx context.Context, domain string, approved bool) error {
	const q = `UPDATE landingpage SET approved = ? WHERE domain = ?`
	_, err := s.db.ExecContext(ctx, q, approved, domain)
	return err
}

// UpdateSlug reassigns the slug for one domain.  The raw value is pushed
// through the slugify transform first, so whatever the admin typed lands
// in the table in canonical form.  Unknown domains are a silent no-op.
func (s *Store) UpdateSlug(ctx context.Context, domain, rawSlug string) error {
	const q = `UPDATE landingpage SET slug = ? WHERE domain = ?`
	_, err := s.db.ExecContext(ctx, q, routing.MakeSlug(rawSlug), domain)
	return err
}

// Delete removes the entry for one domain.  Idempotent: deleting an
// absent domain is a no-op.  Callers invalidate derived caches afterwards.
func (s *Store) Delete(ctx context.Context, domain string) error {
	const q = `DELETE FROM landingpage WHERE domain = ?`
	_, err := s.db.ExecContext(ctx, q, domain)
	return err
}

// DeleteForSite removes every entry owned by one site.  Used when a site
// deactivates the feature.
func (s *Store) DeleteForSite(ctx context.Context, siteID uint64) error {
	const q = `DELETE FROM landingpage WHERE site_id = ?`
	_, err := s.db.ExecContext(ctx, q, siteID)
	return err
}

// DomainsForSite returns only the domain column for one site.  The bulk
// cache purge walks this list.
func (s *Store) DomainsForSite(ctx context.Context, siteID uint64) ([]string, error) {
	const q = `SELECT domain FROM landingpage WHERE site_id = ?`
	var domains []string
	if err := s.db.SelectContext(ctx, &domains, q, siteID); err != nil {
		return nil, err
	}
	return domains, nil
}

// PurgeOrphans deletes entries whose owning site no longer exists.  The
// host platform fires no hook on site deletion, so this runs
// opportunistically whenever the admin surface lists mappings.  An empty
// tenant list skips the delete: wiping the whole table on an enumeration
// hiccup would be worse than keeping orphans another day.
func (s *Store) PurgeOrphans(ctx context.Context, tenants TenantEnumerator) (int64, error) {
	ids, err := tenants.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]byte, 0, len(ids)*2)
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}

	q := `DELETE FROM landingpage WHERE site_id NOT IN (` + string(placeholders) + `)`
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
