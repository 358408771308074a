// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package auth

import (
	"context"
	"log/slog"
	"time"
)

// Reaper periodically purges expired sessions from storage.
//
// # Lifecycle
//
// Start launches a single background goroutine driven by a ticker. The
// goroutine exits when the provided context is cancelled, making shutdown
// deterministic.
type Reaper struct {
	sessionRepository SessionRepository
	activity          ActivityRecorder
	interval          time.Duration
	log               *slog.Logger
}

// NewReaper constructs a session [Reaper] with the default sweep interval.
func NewReaper(sessionRepo SessionRepository, activity ActivityRecorder, logger *slog.Logger) *Reaper {
	return &Reaper{
		sessionRepository: sessionRepo,
		activity:          activity,
		interval:          ExpiryCheckInterval,
		log:               logger,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (reaper *Reaper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(reaper.interval)
		defer ticker.Stop()

		reaper.log.Info("session_reaper_started", "interval", reaper.interval.String())

		for {
			select {
			case <-ctx.Done():
				reaper.log.Info("session_reaper_stopped")
				return
			case <-ticker.C:
				reaper.sweep(ctx)
			}
		}
	}()
}

// sweep performs a single expired-session purge pass.
func (reaper *Reaper) sweep(ctx context.Context) {
	userIDs, err := reaper.sessionRepository.DeleteExpired(ctx)
	if err != nil {
		reaper.log.Error("session_reaper_sweep_failed", "error", err)
		return
	}

	if len(userIDs) == 0 {
		return
	}

	reaper.log.Info("session_reaper_purged", "count", len(userIDs))

	// Each purged session is a forced logout from the user's perspective.
	for _, userID := range userIDs {
		reaper.activity.Record(ctx, userID, "session_expired", nil, "", "")
	}
}
