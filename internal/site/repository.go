// internal/site/repository.go
//
// `site` table query helpers.
//
// Context
// -------
// The mapping core treats sites as an external collaborator: it only ever
// needs to know which site IDs still exist (orphan purge) and the odd
// single-row lookup for the admin surface.  Suspended and deleted rows are
// excluded at SQL level to keep callers simple.
package site

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Enumerator implements mapping.TenantEnumerator over the site table.
type Enumerator struct {
	DB *sqlx.DB
}

// List returns the IDs of every site that is neither suspended nor
// deleted.
func (e Enumerator) List(ctx context.Context) ([]uint64, error) {
	const q = `
        SELECT id
        FROM   site
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var ids []uint64
	if err := e.DB.SelectContext(ctx, &ids, q); err != nil {
		return nil, err
	}
	return ids, nil
}

// ByID fetches a single active site row, or nil when absent.
func ByID(ctx context.Context, db *sqlx.DB, id uint64) (*Record, error) {
	const q = `
        SELECT id, network_id, host, title,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  id = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
