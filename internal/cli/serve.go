package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	apihttp "github.com/aretw0/wayfinder/pkg/adapters/http"
)

// ShutdownTimeout bounds how long outstanding requests may run after a stop signal.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	// Watch reloads the engine when the sources change.
	Watch bool
	// Metrics exposes the workspace registry on /metrics.
	Metrics bool
}

// Serve loads the workspace and serves its API on ln until ctx ends.
func Serve(ctx context.Context, ws *Workspace, ln net.Listener, opts ServeOptions) error {
	p, err := ws.Load(ctx)
	if err != nil {
		return err
	}

	apiOpts := []apihttp.Option{apihttp.WithLogger(ws.logger)}
	if opts.Metrics {
		apiOpts = append(apiOpts, apihttp.WithMetrics(ws.Registry))
	}
	api := apihttp.NewServer(p.Engine, apiOpts...)
	srv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if opts.Watch {
		go func() {
			err := ws.Reload(ctx, func(p *Project) {
				api.Reload(p.Engine)
				ws.logger.Info("Engine reloaded", "automata", p.Engine.Automata())
			})
			if err != nil {
				ws.logger.Error("Watcher failed", "err", err)
			}
		}()
	}

	serverErrors := make(chan error, 1)
	go func() {
		ws.logger.Info("Starting server", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		ws.logger.Info("Start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			ws.logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		ws.logger.Info("Server stopped gracefully")
		return nil
	}
}

