package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"tubetracker/internal/httpapi"
	"tubetracker/internal/scheduler"
	"tubetracker/internal/tracker"
)

const shutdownTimeout = 30 * time.Second

// Serve runs the HTTP API and the sweep scheduler until ctx is cancelled,
// then shuts both down and waits for in-flight sweeps.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTP.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.HTTP.Listen, err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	handler, err := httpapi.NewServer(a.service, a.registry, a.logger)
	if err != nil {
		ln.Close()
		return err
	}

	spec, err := scheduler.Spec(a.cfg.Sync.Cron, a.cfg.Sync.IntervalHours)
	if err != nil {
		ln.Close()
		return err
	}

	var sweeps sync.WaitGroup
	runSweep := func(trigger string) {
		if _, err := a.sweep(ctx, trigger); err != nil {
			a.logger.Error("sweep failed", "trigger", trigger, "error", err)
		}
	}

	sched := scheduler.New(a.logger)
	if _, err := sched.Register(scheduler.SyncJobID, "Sync all videos", spec, func() {
		runSweep(tracker.TriggerSchedule)
	}); err != nil {
		ln.Close()
		return err
	}
	sched.Start()

	if a.cfg.Sync.SyncOnStart {
		background(&sweeps, func() { runSweep(tracker.TriggerStartup) })
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	a.logger.Info("server started", "listen", ln.Addr().String(), "schedule", spec)

	var serveErr error
	select {
	case err := <-errCh:
		serveErr = fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		serveErr = errors.Join(serveErr, fmt.Errorf("shutting down http server: %w", err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}
	sweeps.Wait()

	a.logger.Info("server stopped")
	return serveErr
}
