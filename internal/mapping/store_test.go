// internal/mapping/store_test.go
//
// Unit-tests for the landingpage store helpers using sqlmock.
//
// Run: go test ./internal/mapping -v
package mapping

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

var entryCols = []string{"domain", "site_id", "network_id", "slug", "txt_token", "created_at", "approved"}

func TestListForSite(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT domain, site_id, network_id, slug, txt_token, created_at, approved FROM landingpage WHERE site_id = ? ORDER BY domain`,
	)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow("a.example.com", 7, 1, "landing", "landing-domains=tok", now, true).
			AddRow("b.example.com", 7, 1, "", "landing-domains=tok", now, false))

	got, err := store.ListForSite(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForSite error: %v", err)
	}
	if len(got) != 2 || got[0].Domain != "a.example.com" || got[1].Approved {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsert_DuplicateDomain(t *testing.T) {
	store, mock := newMockStore(t)

	// Scenario: domain already mapped by another tenant.  The store must
	// surface ErrDuplicateDomain and write nothing.
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO landingpage (domain, site_id, network_id, slug, txt_token, approved) VALUES (?, ?, ?, '', ?, ?)`,
	)).
		WithArgs("shop.example.com", uint64(7), uint64(1), "landing-domains=tok", true).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.Insert(context.Background(), "shop.example.com", 7, 1, "landing-domains=tok", true)
	if !errors.Is(err, ErrDuplicateDomain) {
		t.Fatalf("err = %v, want ErrDuplicateDomain", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsert_EmptySlugAndApprovalOutcome(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO landingpage (domain, site_id, network_id, slug, txt_token, approved) VALUES (?, ?, ?, '', ?, ?)`,
	)).
		WithArgs("shop.example.com", uint64(7), uint64(1), "landing-domains=tok", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Insert(context.Background(), "shop.example.com", 7, 1, "landing-domains=tok", false); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetApproved_RoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	// Unverified row flips to approved once the TXT record propagates;
	// nothing but the flag changes.
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE landingpage SET approved = ? WHERE domain = ?`,
	)).
		WithArgs(true, "shop.example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetApproved(context.Background(), "shop.example.com", true); err != nil {
		t.Fatalf("SetApproved error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateSlug_Slugifies(t *testing.T) {
	store, mock := newMockStore(t)

	// Raw admin input is pushed through the slugify transform before it
	// hits the table.
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE landingpage SET slug = ? WHERE domain = ?`,
	)).
		WithArgs("my-landing-page", "shop.example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateSlug(context.Background(), "shop.example.com", "My Landing Page!"); err != nil {
		t.Fatalf("UpdateSlug error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDelete_IdempotentOnAbsent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM landingpage WHERE domain = ?`,
	)).
		WithArgs("gone.example.com").
		WillReturnResult(sqlmock.NewResult(0, 0)) // zero rows is fine

	if err := store.Delete(context.Background(), "gone.example.com"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByDomain_AbsentIsNilNil(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT domain, site_id, network_id, slug, txt_token, created_at, approved FROM landingpage WHERE domain = ? LIMIT 1`,
	)).
		WithArgs("unmapped.example.com").
		WillReturnRows(sqlmock.NewRows(entryCols))

	entry, err := store.ByDomain(context.Background(), "unmapped.example.com")
	if err != nil {
		t.Fatalf("ByDomain error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry for unmapped domain, got %#v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

type fakeTenants struct {
	ids []uint64
	err error
}

func (f fakeTenants) List(context.Context) ([]uint64, error) { return f.ids, f.err }

func TestPurgeOrphans(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM landingpage WHERE site_id NOT IN (?,?)`,
	)).
		WithArgs(uint64(1), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.PurgeOrphans(context.Background(), fakeTenants{ids: []uint64{1, 7}})
	if err != nil {
		t.Fatalf("PurgeOrphans error: %v", err)
	}
	if n != 3 {
		t.Fatalf("purged = %d, want 3", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPurgeOrphans_EmptyTenantListIsNoop(t *testing.T) {
	store, mock := newMockStore(t)

	// No expectations: an empty enumeration must not touch the table.
	n, err := store.PurgeOrphans(context.Background(), fakeTenants{})
	if err != nil || n != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL activity: %v", err)
	}
}
