// internal/admin/handlers.go
//
// Administrative JSON surface.
//
// Context
// -------
// Everything an operator can do to landing mappings flows through these
// handlers: add a domain (TXT check, then insert), delete one, reassign a
// slug, and flip the four per-site toggles.  None of it touches the core
// algorithms; the handlers are glue between HTTP and the stores.
//
// Listing a site's domains doubles as housekeeping, the way the original
// settings screen did: orphaned rows are purged and every listed domain is
// re-verified, so `approved` always reflects the latest DNS state an admin
// has looked at.
//
// Warnings (DNS propagation, duplicate domain) are returned in the JSON
// body with a 4xx status; they are admin-facing notices, not server
// errors.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/landingpages/internal/cachepurge"
	"github.com/yanizio/landingpages/internal/dnsproof"
	"github.com/yanizio/landingpages/internal/mapping"
	"github.com/yanizio/landingpages/internal/settings"
	"github.com/yanizio/landingpages/internal/site"
)

// Handler bundles the collaborators the admin surface needs.
type Handler struct {
	DB       *sqlx.DB
	Mappings *mapping.Store
	Settings *settings.Store
	Verifier *dnsproof.Verifier
	Tenants  mapping.TenantEnumerator
	Cache    cachepurge.Invalidator
}

// Routes mounts the admin API under the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/sites/{siteID}", func(r chi.Router) {
		r.Get("/domains", h.listDomains)
		r.Post("/domains", h.addDomain)
		r.Delete("/domains/{domain}", h.deleteDomain)
		r.Put("/domains/{domain}/slug", h.updateSlug)
		r.Put("/options", h.updateOptions)
		r.Delete("/", h.deactivate)
	})
}

//
// Responses
//

type domainView struct {
	Domain    string `json:"domain"`
	Slug      string `json:"slug"`
	Approved  bool   `json:"approved"`
	CreatedAt string `json:"created_at"`
}

type listResponse struct {
	TxtRecord string       `json:"txt_record"`
	Domains   []domainView `json:"domains"`
}

type warningResponse struct {
	Warning string `json:"warning"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) siteID(w http.ResponseWriter, r *http.Request) (*site.Record, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "siteID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, warningResponse{Warning: "invalid site id"})
		return nil, false
	}
	rec, err := site.ByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, warningResponse{Warning: "site not found"})
		return nil, false
	}
	return rec, true
}

// domainParam normalizes the {domain} URL parameter into the stored
// form.  Rows are keyed on the normalized spelling, so a mixed-case or
// raw-IDN param would otherwise silently miss them.
func (h *Handler) domainParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	domain, err := mapping.NormalizeDomain(chi.URLParam(r, "domain"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, warningResponse{Warning: "invalid domain"})
		return "", false
	}
	return domain, true
}

//
// GET /sites/{siteID}/domains
//

func (h *Handler) listDomains(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	// Housekeeping: the host platform fires no hook when a site goes away,
	// so sweep orphans whenever an admin looks at the list.
	if n, err := h.Mappings.PurgeOrphans(ctx, h.Tenants); err != nil {
		zap.S().Warnw("orphan purge failed", "err", err)
	} else if n > 0 {
		zap.S().Infow("orphan mappings purged", "count", n)
	}

	opts, err := h.Settings.Load(ctx, rec.ID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entries, err := h.Mappings.ListForSite(ctx, rec.ID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := listResponse{TxtRecord: opts.TxtRecord, Domains: make([]domainView, 0, len(entries))}
	for _, e := range entries {
		// Render-time re-verification: approval tracks the latest observed
		// DNS state, so a record published after insertion flips the row
		// to approved here.
		approved := h.Verifier.Verify(ctx, e.Domain, opts.TxtRecord)
		if approved != e.Approved {
			if err := h.Mappings.SetApproved(ctx, e.Domain, approved); err != nil {
				zap.S().Warnw("approval update failed", "domain", e.Domain, "err", err)
				approved = e.Approved
			}
		}
		resp.Domains = append(resp.Domains, domainView{
			Domain:    e.Domain,
			Slug:      e.Slug,
			Approved:  approved,
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

//
// POST /sites/{siteID}/domains
//

func (h *Handler) addDomain(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, warningResponse{Warning: "domain is required"})
		return
	}

	domain, err := mapping.NormalizeDomain(req.Domain)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, warningResponse{
			Warning: "not a valid domain name; international names must be entered in ascii notation (punycode)",
		})
		return
	}

	opts, err := h.Settings.Load(ctx, rec.ID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !h.Verifier.Verify(ctx, domain, opts.TxtRecord) {
		writeJSON(w, http.StatusUnprocessableEntity, warningResponse{
			Warning: "please add the required TXT record; note that DNS propagation can take several hours",
		})
		return
	}

	err = h.Mappings.Insert(ctx, domain, rec.ID, rec.NetworkID, opts.TxtRecord, true)
	if errors.Is(err, mapping.ErrDuplicateDomain) {
		writeJSON(w, http.StatusConflict, warningResponse{
			Warning: "domain " + domain + " already in use",
		})
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	zap.S().Infow("domain added", "domain", domain, "site", rec.ID)
	writeJSON(w, http.StatusCreated, domainView{Domain: domain, Approved: true})
}

//
// DELETE /sites/{siteID}/domains/{domain}
//

func (h *Handler) deleteDomain(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}

	if err := h.Mappings.Delete(r.Context(), domain); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Best-effort, non-blocking: stale cached pages for the domain go
	// away in the background; a failure is warned about, never fatal.
	go cachepurge.Purge(context.Background(), h.Cache, domain)

	zap.S().Infow("domain deleted", "domain", domain, "site", rec.ID)
	w.WriteHeader(http.StatusNoContent)
}

//
// PUT /sites/{siteID}/domains/{domain}/slug
//

func (h *Handler) updateSlug(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, warningResponse{Warning: "slug is required"})
		return
	}

	if err := h.Mappings.UpdateSlug(r.Context(), domain, req.Slug); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	go cachepurge.Purge(context.Background(), h.Cache, domain)

	zap.S().Infow("slug reassigned", "domain", domain, "site", rec.ID)
	w.WriteHeader(http.StatusNoContent)
}

//
// PUT /sites/{siteID}/options
//

func (h *Handler) updateOptions(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	// Pointers so absent keys stay untouched.
	var req struct {
		UseCanonical   *bool `json:"use_canonical"`
		UseWWW         *bool `json:"use_www"`
		UseSSL         *bool `json:"use_ssl"`
		RemoveSitename *bool `json:"remove_sitename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, warningResponse{Warning: "invalid options payload"})
		return
	}

	changed := false
	for key, val := range map[string]*bool{
		settings.KeyUseCanonical:   req.UseCanonical,
		settings.KeyUseWWW:         req.UseWWW,
		settings.KeyUseSSL:         req.UseSSL,
		settings.KeyRemoveSitename: req.RemoveSitename,
	} {
		if val == nil {
			continue
		}
		if err := h.Settings.SetFlag(ctx, rec.ID, key, *val); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		changed = true
	}

	if changed {
		// A toggle shifts the canonical prefix for every mapped page of
		// the site, so everything cached under its domains is stale.
		domains, err := h.Mappings.DomainsForSite(ctx, rec.ID)
		if err == nil {
			go func() {
				_ = cachepurge.PurgeAll(context.Background(), h.Cache, domains)
			}()
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

//
// DELETE /sites/{siteID}
//

// deactivate tears the feature down for one site: every mapping row,
// every option row, and the cached pages of every domain the site served
// under.  Mirrors the original uninstall path.
func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.siteID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	domains, err := h.Mappings.DomainsForSite(ctx, rec.ID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.Mappings.DeleteForSite(ctx, rec.ID); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.Settings.DeleteForSite(ctx, rec.ID); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	go func() {
		_ = cachepurge.PurgeAll(context.Background(), h.Cache, domains)
	}()

	zap.S().Infow("site deactivated", "site", rec.ID, "domains", len(domains))
	w.WriteHeader(http.StatusNoContent)
}
