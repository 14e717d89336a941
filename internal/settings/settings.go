// internal/settings/settings.go
//
// Per-site key-value options.
//
// Context
// -------
// Each site carries a handful of persisted flags in the shared
// `site_option` table, fetched once per request lifecycle and parsed into
// the typed Options struct.  The TXT ownership token lives here too: it
// is generated lazily the first time a site's options load, and the same
// token then proves ownership for every domain that site ever adds.
//
// Keys
// ----
//   use_canonical    rewrite emitted URLs to the mapped domain
//   use_www          canonical prefix includes "www."
//   use_ssl          canonical prefix uses https
//   remove_sitename  drop the site name from landing page titles
//   txt_record       the per-site ownership token (generated, stable)
//   db_version       schema version the row set was written by
package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Version is written into db_version for fresh installs.
const Version = "1.0.0"

// TokenPrefix namespaces our TXT records among whatever else is published
// on the domain.
const TokenPrefix = "landing-domains="

// Option keys as stored.
const (
	KeyUseCanonical   = "use_canonical"
	KeyUseWWW         = "use_www"
	KeyUseSSL         = "use_ssl"
	KeyRemoveSitename = "remove_sitename"
	KeyTxtRecord      = "txt_record"
	KeyDBVersion      = "db_version"
)

// Options is the typed view of one site's rows.
type Options struct {
	UseCanonical   bool
	UseWWW         bool
	UseSSL         bool
	RemoveSitename bool
	TxtRecord      string
	DBVersion      string
}

// Store wraps the control-plane pool with site_option access.
type Store struct {
	db *sqlx.DB
}

// NewStore returns a Store bound to db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Get returns one raw value, or "" when the key is absent.
func (s *Store) Get(ctx context.Context, siteID uint64, key string) (string, error) {
	const q = "SELECT value FROM site_option WHERE site_id = ? AND `key` = ? LIMIT 1"
	var val string
	err := s.db.GetContext(ctx, &val, q, siteID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// Set upserts one key for one site.
func (s *Store) Set(ctx context.Context, siteID uint64, key, value string) error {
	const q = "INSERT INTO site_option (site_id, `key`, value) VALUES (?, ?, ?)" +
		" ON DUPLICATE KEY UPDATE value = VALUES(value)"
	_, err := s.db.ExecContext(ctx, q, siteID, key, value)
	return err
}

// Load fetches every row for one site and parses it into Options,
// generating and persisting the TXT token and schema version when the
// site has none yet.
func (s *Store) Load(ctx context.Context, siteID uint64) (Options, error) {
	const q = "SELECT `key`, value FROM site_option WHERE site_id = ?"
	rows := make([]struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}, 0, 8)
	if err := s.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return Options{}, err
	}

	raw := make(map[string]string, len(rows))
	for _, r := range rows {
		raw[r.Key] = r.Value
	}

	opts := Options{
		UseCanonical:   raw[KeyUseCanonical] == "1",
		UseWWW:         raw[KeyUseWWW] == "1",
		UseSSL:         raw[KeyUseSSL] == "1",
		RemoveSitename: raw[KeyRemoveSitename] == "1",
		TxtRecord:      raw[KeyTxtRecord],
		DBVersion:      raw[KeyDBVersion],
	}

	if opts.TxtRecord == "" {
		opts.TxtRecord = TokenPrefix + uuid.NewString()
		if err := s.Set(ctx, siteID, KeyTxtRecord, opts.TxtRecord); err != nil {
			return Options{}, err
		}
	}
	if opts.DBVersion == "" {
		opts.DBVersion = Version
		if err := s.Set(ctx, siteID, KeyDBVersion, opts.DBVersion); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// SetFlag stores a boolean toggle in the stored "1"/"0" form.
func (s *Store) SetFlag(ctx context.Context, siteID uint64, key string, on bool) error {
	val := "0"
	if on {
		val = "1"
	}
	return s.Set(ctx, siteID, key, val)
}

// DeleteForSite removes every option row for one site.  Used on feature
// deactivation.
func (s *Store) DeleteForSite(ctx context.Context, siteID uint64) error {
	const q = "DELETE FROM site_option WHERE site_id = ?"
	_, err := s.db.ExecContext(ctx, q, siteID)
	return err
}
