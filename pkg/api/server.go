// Package api contains the REST API for the mcpdock catalog server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v1 "github.com/drydocklabs/mcpdock/pkg/api/v1"
	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

const (
	middlewareTimeout = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter assembles the catalog API routes over the given provider.
// Metrics may be nil, in which case the /metrics endpoint is not mounted.
func NewRouter(provider catalog.Provider, metrics *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(middlewareTimeout),
		headersMiddleware,
	)

	routers := map[string]http.Handler{
		"/health":          v1.HealthcheckRouter(),
		"/api/registry":    v1.RegistryDocumentRouter(provider),
		"/api/v1/registry": v1.RegistryRouter(provider),
		"/api/v1/version":  v1.VersionRouter(),
	}
	if metrics != nil {
		routers["/metrics"] = metrics.Handler()
	}

	for prefix, router := range routers {
		r.Mount(prefix, router)
	}

	return r
}

// Serve starts the catalog API server on the given address and blocks until
// the context is cancelled, then shuts down gracefully. It is assumed that
// the caller sets up appropriate signal handling.
func Serve(ctx context.Context, address string, provider catalog.Provider, metrics *Metrics) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              address,
		Handler:           NewRouter(provider, metrics),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	// Prime the snapshot so the first request is served from cache. The
	// server still starts when the upstream is down; lookups degrade per
	// the cache contract.
	go warmUpRegistry(ctx, provider)

	logger.Infof("starting catalog API server on %s", address)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped with error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Infof("catalog API server stopped")
	return nil
}
