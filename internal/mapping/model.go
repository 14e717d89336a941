// internal/mapping/model.go
//
// `landingpage` table row model.
//
// Context
// -------
// One row binds an external domain to a landing slug of one site.  The
// table is shared by every site in the installation, and `domain` is the
// global primary key: a domain can belong to exactly one site at a time,
// no matter how many sites exist.
//
// Schema reference
//
//	CREATE TABLE landingpage (
//	    domain      VARCHAR(200) NOT NULL PRIMARY KEY,
//	    site_id     BIGINT       NOT NULL,
//	    network_id  BIGINT       NOT NULL,
//	    slug        VARCHAR(200) NOT NULL DEFAULT '',
//	    txt_token   VARCHAR(200) NOT NULL,
//	    created_at  TIMESTAMP    NOT NULL DEFAULT NOW(),
//	    approved    TINYINT(1)   NOT NULL DEFAULT 0
//	);
//
// Notes
// -----
// • `slug` is empty until the admin assigns one; an empty slug means the
//   mapping routes nowhere yet.
// • `network_id` exists for cross-tenant auditing only; routing never
//   reads it.
// • `approved` reflects the TXT verification outcome at insert time; it is
//   not re-checked on the request path.
// • This struct contains no behaviour—pure data model for sqlx scans.
package mapping

import "time"

// Entry mirrors one row in the `landingpage` table.
type Entry struct {
	Domain    string    `db:"domain"`
	SiteID    uint64    `db:"site_id"`
	NetworkID uint64    `db:"network_id"`
	Slug      string    `db:"slug"`
	TXTToken  string    `db:"txt_token"`
	CreatedAt time.Time `db:"created_at"`
	Approved  bool      `db:"approved"`
}
