// internal/server/server.go
//
// HTTP serving with hardened timeouts and clean shutdown.
//
// Context
// -------
// The landing resolver sits on the request hot path of every mapped
// domain, so a restart must not drop in-flight requests: deploys would
// otherwise surface as 502s on customer domains.  Run blocks until the
// process receives SIGINT or SIGTERM, then drains connections for up to
// ShutdownGrace before forcing the close.
//
// Timeout defaults:
//
//   - ReadHeaderTimeout – abort slow-loris headers (5 s)
//   - ReadTimeout       – cap full request read (10 s)
//   - WriteTimeout      – cap total response time (15 s)
//   - IdleTimeout       – close keep-alives on idle clients (60 s)
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// ShutdownGrace bounds how long Run waits for in-flight requests.
const ShutdownGrace = 15 * time.Second

// New constructs an *http.Server with the package defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains.  A nil return means a clean drain; http.ErrServerClosed is
// swallowed.
func Run(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		_ = srv.Close()
		return err
	}
	return nil
}
