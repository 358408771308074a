// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package activity

import (
	"context"
	"log/slog"

	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// Recorder is the best-effort write facade over the activity log.
//
// # Failure Policy
//
// Record never returns an error. Storage failures are logged and swallowed so
// that activity logging can never break a login, a progress update, or any
// other primary operation.
type Recorder struct {
	repository Repository
	log        *slog.Logger
}

// NewRecorder constructs a [Recorder] over the given repository.
func NewRecorder(repository Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repository: repository, log: logger}
}

// Record appends an activity entry, swallowing any storage failure.
func (recorder *Recorder) Record(context context.Context, userID, action string, details map[string]any, ipAddress, userAgent string) {
	entry := &Entry{
		ID:        uuidv7.New(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := recorder.repository.Append(context, entry); err != nil {
		recorder.log.Warn("activity_record_failed", "action", action, "error", err)
	}
}
