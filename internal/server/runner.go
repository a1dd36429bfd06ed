// Package server runs the HTTP API and the background jobs of the daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/animelib/internal/events"
)

// Config for the daemon runner.
type Config struct {
	Addr            string
	EventRetention  time.Duration // 0 keeps events forever
	PruneInterval   time.Duration
	ShutdownTimeout time.Duration
}

// EventPruner deletes logged events older than a cutoff.
type EventPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Runner manages the HTTP server and the event log pruner.
type Runner struct {
	handler http.Handler
	pruner  EventPruner
	bus     *events.Bus
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner. pruner and bus may be nil.
func NewRunner(handler http.Handler, pruner EventPruner, bus *events.Bus, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Runner{
		handler: handler,
		pruner:  pruner,
		bus:     bus,
		config:  cfg,
		logger:  logger.With("component", "runner"),
	}
}

// Run listens on Config.Addr and blocks until the context is canceled or a
// component fails.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: r.handler, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	if r.pruner != nil && r.config.EventRetention > 0 {
		g.Go(func() error {
			r.runPruner(ctx)
			return nil
		})
	}

	err := g.Wait()
	if r.bus != nil {
		if cerr := r.bus.Close(); cerr != nil {
			r.logger.Warn("close event bus", "error", cerr)
		}
	}
	return err
}

func (r *Runner) runPruner(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.logger.Info("event pruner started", "interval", r.config.PruneInterval, "retention", r.config.EventRetention)
	r.PruneOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("event pruner stopped")
			return
		case <-ticker.C:
			r.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes events older than the retention window.
func (r *Runner) PruneOnce(ctx context.Context) {
	n, err := r.pruner.Prune(ctx, r.config.EventRetention)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("prune events failed", "error", err)
		}
		return
	}
	if n > 0 {
		r.logger.Info("pruned events", "count", n)
	}
}
