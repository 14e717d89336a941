// internal/settings/settings_test.go
//
// Unit-tests for the site_option store using sqlmock.
//
// Run: go test ./internal/settings -v
package settings

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestLoad_ParsesFlags(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT `key`, value FROM site_option WHERE site_id = ?",
	)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(KeyUseCanonical, "1").
			AddRow(KeyUseSSL, "1").
			AddRow(KeyUseWWW, "0").
			AddRow(KeyTxtRecord, "landing-domains=abc123").
			AddRow(KeyDBVersion, Version))

	opts, err := store.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !opts.UseCanonical || !opts.UseSSL || opts.UseWWW || opts.RemoveSitename {
		t.Fatalf("flags parsed wrong: %+v", opts)
	}
	if opts.TxtRecord != "landing-domains=abc123" {
		t.Fatalf("token = %q", opts.TxtRecord)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLoad_GeneratesTokenOnce(t *testing.T) {
	store, mock := newMockStore(t)

	// Fresh site: no rows yet.  Load must mint a token and a schema
	// version and persist both.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT `key`, value FROM site_option WHERE site_id = ?",
	)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	upsert := regexp.QuoteMeta(
		"INSERT INTO site_option (site_id, `key`, value) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
	)
	mock.ExpectExec(upsert).
		WithArgs(uint64(7), KeyTxtRecord, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).
		WithArgs(uint64(7), KeyDBVersion, Version).
		WillReturnResult(sqlmock.NewResult(0, 1))

	opts, err := store.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !strings.HasPrefix(opts.TxtRecord, TokenPrefix) {
		t.Fatalf("token %q lacks prefix %q", opts.TxtRecord, TokenPrefix)
	}
	if len(opts.TxtRecord) <= len(TokenPrefix) {
		t.Fatal("token has no random part")
	}
	if opts.DBVersion != Version {
		t.Fatalf("db_version = %q, want %q", opts.DBVersion, Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetFlag(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO site_option (site_id, `key`, value) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
	)).
		WithArgs(uint64(7), KeyUseSSL, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetFlag(context.Background(), 7, KeyUseSSL, true); err != nil {
		t.Fatalf("SetFlag error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
