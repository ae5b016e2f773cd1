package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSync records an enumeration into the inventory on every tick of the
// cron schedule. The returned func stops the schedule and waits for a running
// sync to finish.
func (s *Server) StartSync(schedule string) (stop func(), err error) {
	if s.opts.Inventory == nil {
		return nil, fmt.Errorf("sync schedule %q set but no inventory configured", schedule)
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.syncOnce); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info().Str("schedule", schedule).Msg("inventory sync scheduled")

	return func() {
		<-c.Stop().Done()
	}, nil
}

func (s *Server) syncOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := s.Sync(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("inventory sync failed")
		return
	}
	s.logger.Info().
		Str("scan_id", res.ScanID).
		Int("recorded", res.Recorded).
		Strs("attached", res.Attached).
		Strs("detached", res.Detached).
		Msg("inventory sync")
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
