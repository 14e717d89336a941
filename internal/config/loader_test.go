// internal/config/loader_test.go
//
// Loader tests around defaulting.  Each case lays out a throwaway
// <root>/conf/global.yaml and points LANDING_ROOT at it, so discovery
// never climbs out of the test sandbox.
//
// Run: go test ./internal/config -v
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeRoot creates <tmp>/conf/global.yaml with the given body and
// returns the root directory.
func writeRoot(t *testing.T, yamlBody string) string {
	t.Helper()
	root := t.TempDir()
	confDir := filepath.Join(root, "conf")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("mkdir conf: %v", err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "global.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write global.yaml: %v", err)
	}
	return root
}

const minimalYAML = `
http:
  listen_addr: "127.0.0.1:8080"
database:
  dsn: "app:%s@tcp(localhost:3306)/landing"
  password: "hunter2"
`

func TestLoad_TXTMandatoryDefaultsOnWhenAbsent(t *testing.T) {
	// No dns: section at all.  The ownership gate must come up enabled;
	// a config omission must never mean "accept every domain".
	t.Setenv("LANDING_ROOT", writeRoot(t, minimalYAML))

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.DNS.TXTRecordMandatory {
		t.Fatal("TXTRecordMandatory = false for absent key, want true")
	}
	if cfg.PageCache.Mode != "none" {
		t.Fatalf("PageCache.Mode = %q for absent key, want none", cfg.PageCache.Mode)
	}
}

func TestLoad_TXTMandatoryExplicitFalseSticks(t *testing.T) {
	t.Setenv("LANDING_ROOT", writeRoot(t, minimalYAML+`
dns:
  txt_record_mandatory: false
`))

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DNS.TXTRecordMandatory {
		t.Fatal("TXTRecordMandatory = true, want explicit false honored")
	}
}

func TestLoad_TXTMandatoryExplicitTrue(t *testing.T) {
	t.Setenv("LANDING_ROOT", writeRoot(t, minimalYAML+`
dns:
  txt_record_mandatory: true
`))

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.DNS.TXTRecordMandatory {
		t.Fatal("TXTRecordMandatory = false, want true")
	}
}
