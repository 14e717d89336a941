// cmd/web/main.go
//
// Landing-domain service – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load typed config (YAML + env overlays, Vault-resolved secrets).
//
//  4. Open the global control-plane DB.
//
//  5. Wire the stores, the TXT verifier, and the page-cache invalidator.
//
//  6. Build the router: landing middleware first, then /metrics, the
//     admin API, and the placeholder site handler.
//
// The landing middleware consults the resolver once per request and
// rewrites mapped hosts to their slug path; everything downstream sees a
// normal slug request.  The site handler rebuilds the canonical index per
// request and emits a Link header so crawlers pick up the mapped domain.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/landingpages/internal/admin"
	"github.com/yanizio/landingpages/internal/cachepurge"
	"github.com/yanizio/landingpages/internal/canonical"
	"github.com/yanizio/landingpages/internal/config"
	"github.com/yanizio/landingpages/internal/content"
	"github.com/yanizio/landingpages/internal/database"
	"github.com/yanizio/landingpages/internal/dnsproof"
	"github.com/yanizio/landingpages/internal/logger"
	"github.com/yanizio/landingpages/internal/mapping"
	"github.com/yanizio/landingpages/internal/resolve"
	"github.com/yanizio/landingpages/internal/routing"
	"github.com/yanizio/landingpages/internal/server"
	"github.com/yanizio/landingpages/internal/settings"
	"github.com/yanizio/landingpages/internal/site"
)

const serverEnvPath = "/usr/local/etc/landingpages/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 1.  Global DB connect ───────────────────────────────────────────
	//
	dsn := fmt.Sprintf(cfg.Database.DSN, cfg.Database.Password)
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect global DB: %v", err)
	}
	defer db.Close()
	logOut.Infow("global DB online")

	//
	// ── 2.  Stores, verifier, invalidator ──────────────────────────────
	//
	mappings := mapping.NewStore(db)
	options := settings.NewStore(db)
	verifier := dnsproof.New(cfg.DNS.TXTRecordMandatory)
	tenants := site.Enumerator{DB: db}

	var invalidator cachepurge.Invalidator
	switch cfg.PageCache.Mode {
	case "dir":
		invalidator = cachepurge.Dir{Root: cfg.PageCache.Dir}
	case "redis":
		invalidator = cachepurge.NewRedis(cfg.PageCache.RedisAddr, cfg.PageCache.Prefix)
	default:
		invalidator = cachepurge.Noop{}
	}

	resolver := &resolve.Resolver{
		Mappings: mappings,
		Lookup: func(ctx context.Context, slug string) (string, error) {
			return content.TypeBySlug(ctx, db, slug)
		},
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(routing.Middleware(resolver))

	r.Handle("/metrics", promhttp.Handler())

	adm := &admin.Handler{
		DB:       db,
		Mappings: mappings,
		Settings: options,
		Verifier: verifier,
		Tenants:  tenants,
		Cache:    invalidator,
	}
	r.Route("/admin", adm.Routes)

	// Placeholder site handler: the real content renderer sits behind
	// this service.  It still exercises the canonical fixup so crawlers
	// see the mapped domain.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		slug, served := routing.ServedSlug(req.Context())
		if !served {
			http.NotFound(w, req)
			return
		}

		host := routing.StripPort(req.Host)
		entry, err := mappings.ByDomain(req.Context(), host)
		if err != nil || entry == nil {
			http.NotFound(w, req)
			return
		}
		opts, err := options.Load(req.Context(), entry.SiteID)
		if err == nil && opts.UseCanonical {
			approved, err := mappings.ApprovedForSite(req.Context(), entry.SiteID)
			if err == nil {
				idx := canonical.BuildIndex(approved)
				prefix := canonical.Prefix(opts.UseSSL, opts.UseWWW)
				u := canonical.FixURL(req.URL.Path, idx, prefix)
				w.Header().Set("Link", `<`+u+`>; rel="canonical"`)
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "landing %s\n", slug)
	})

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := server.Run(ctx, srv); err != nil {
		logOut.Fatalf("server: %v", err)
	}
	logOut.Infow("drained, bye")
}
