// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package library

import (
	"context"
	"fmt"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// ActivityRecorder defines the contract for best-effort activity logging.
type ActivityRecorder interface {
	Record(context context.Context, userID, action string, details map[string]any, ipAddress, userAgent string)
}

// Service implements viewing-state use cases.
type Service struct {
	repository   Repository
	pendingWatch PendingWatchRepository
	activity     ActivityRecorder
}

// NewService constructs a new library [Service].
func NewService(repository Repository, pendingWatch PendingWatchRepository, activity ActivityRecorder) *Service {
	return &Service{
		repository:   repository,
		pendingWatch: pendingWatch,
		activity:     activity,
	}
}

// # Progress Tracking

// ProgressInput holds one progress report from a player.
type ProgressInput struct {
	AnimeID  string
	Episode  int
	Progress float64
	Duration int
}

/*
RecordProgress records or updates how far the user got into an episode.

Description: An episode at or beyond the completion threshold is marked
completed. Writes are upserts on (user, anime, episode) so a rewatch simply
refreshes the existing entry.

Parameters:
  - context: context.Context
  - userID: string
  - input: ProgressInput

Returns:
  - *WatchHistoryEntry: The stored entry
  - err: NotFound, validation, or storage failures
*/
func (service *Service) RecordProgress(context context.Context, userID string, input ProgressInput) (*WatchHistoryEntry, error) {
	if input.Progress < 0 || input.Progress > 100 {
		return nil, apperr.ValidationError("Progress must be between 0 and 100")
	}
	if input.Episode < 1 {
		return nil, apperr.ValidationError("Episode must be positive")
	}

	entry := &WatchHistoryEntry{
		ID:        uuidv7.New(),
		UserID:    userID,
		AnimeID:   input.AnimeID,
		Episode:   input.Episode,
		Progress:  input.Progress,
		Duration:  input.Duration,
		Completed: input.Progress >= CompletedThreshold,
	}

	if err := service.repository.UpsertProgress(context, entry); err != nil {
		return nil, err
	}

	service.activity.Record(context, userID, "watch_progress", map[string]any{
		"anime_id":  input.AnimeID,
		"episode":   input.Episode,
		"progress":  input.Progress,
		"completed": entry.Completed,
	}, "", "")

	return entry, nil
}

/*
History returns the user's watch history, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int (0 falls back to the default, capped at the maximum)

Returns:
  - []WatchHistoryEntry: Recent entries
  - err: Retrieval failures
*/
func (service *Service) History(context context.Context, userID string, limit int) ([]WatchHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	return service.repository.History(context, userID, limit)
}

// # Favorites

/*
ToggleFavorite flips the favorite state of (user, anime).

Description: Idempotent two-state toggle. Calling twice returns the library
to its original state.

Parameters:
  - context: context.Context
  - userID: string
  - animeID: string

Returns:
  - bool: true when the series was added, false when removed
  - err: NotFound or storage failures
*/
func (service *Service) ToggleFavorite(context context.Context, userID, animeID string) (bool, error) {
	added, err := service.repository.ToggleFavorite(context, userID, animeID)
	if err != nil {
		return false, err
	}

	action := "favorite_removed"
	if added {
		action = "favorite_added"
	}
	service.activity.Record(context, userID, action, map[string]any{
		"anime_id": animeID,
	}, "", "")

	return added, nil
}

/*
Favorites returns the user's bookmarked series, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Favorite: Bookmarked series
  - err: Retrieval failures
*/
func (service *Service) Favorites(context context.Context, userID string) ([]Favorite, error) {
	return service.repository.Favorites(context, userID)
}

// # Pending Watch

/*
StashPendingWatch remembers what a visitor tried to play before logging in.

Parameters:
  - context: context.Context
  - userID: string
  - pending: PendingWatch

Returns:
  - err: Storage failures
*/
func (service *Service) StashPendingWatch(context context.Context, userID string, pending PendingWatch) error {
	if pending.AnimeID == "" {
		return apperr.ValidationError("Anime ID is required")
	}
	if pending.Episode < 1 {
		pending.Episode = 1
	}

	if err := service.pendingWatch.Set(context, userID, pending); err != nil {
		return fmt.Errorf("library_service_stash_failed: %w", err)
	}

	return nil
}

/*
TakePendingWatch consumes the stashed watch intent, if any.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *PendingWatch: The stashed intent, or nil when none exists
  - err: Retrieval failures
*/
func (service *Service) TakePendingWatch(context context.Context, userID string) (*PendingWatch, error) {
	return service.pendingWatch.Take(context, userID)
}
