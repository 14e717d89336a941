// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `LANDING_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so the model never
// stores Vault URIs beyond boot—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.
package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the control-plane DSN.  The *template* (`DSN`) lives in
// YAML so operators can tweak host, port, or flags without touching Vault.
// The *secret* portion (`Password`) may be a `vault:` URI resolved at boot,
// keeping credentials out of flat files and git history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// DNS section
//

// DNS controls the TXT ownership check.  `TXTRecordMandatory` is the
// installation-wide kill switch: when false, every domain is accepted
// without a DNS round trip (ownership proof not required).  The loader
// defaults it to true when the key is absent, so disabling the gate
// always takes an explicit `false`.
type DNS struct {
	TXTRecordMandatory bool `koanf:"txt_record_mandatory"`
}

//
// PageCache section
//

// PageCache selects the derived-cache invalidator.  Mode "none" is a
// valid production setting; "dir" points at a file-based page cache laid
// out one directory per domain; "redis" purges keys under Prefix+domain.
type PageCache struct {
	Mode      string `koanf:"mode" validate:"omitempty,oneof=none dir redis"`
	Dir       string `koanf:"dir"`
	RedisAddr string `koanf:"redis_addr"`
	Prefix    string `koanf:"prefix"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or LANDING_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // LANDING_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Database  Database  `koanf:"database"`
	DNS       DNS       `koanf:"dns"`
	PageCache PageCache `koanf:"page_cache"`
	Paths     Paths     `koanf:"-"` // not loaded from config files
}
