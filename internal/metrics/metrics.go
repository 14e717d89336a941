// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	VerifyAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landing_txt_verify_attempts_total",
			Help: "Cumulative number of TXT ownership verifications started.",
		})

	VerifyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landing_txt_verify_failures_total",
			Help: "Cumulative number of TXT ownership verifications that found no token.",
		})

	MappingLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landing_mapping_load_errors_total",
			Help: "Cumulative number of mapping-table read failures on the request path.",
		})

	ResolveDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landing_resolve_decisions_total",
			Help: "Routing decisions by outcome (serve or unchanged).",
		},
		[]string{"outcome"})

	CachePurgeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landing_cache_purge_failures_total",
			Help: "Cumulative number of best-effort page-cache purges that failed.",
		})
)

func init() {
	prometheus.MustRegister(
		VerifyAttemptsTotal,
		VerifyFailuresTotal,
		MappingLoadErrorsTotal,
		ResolveDecisionsTotal,
		CachePurgeFailuresTotal,
	)
}
