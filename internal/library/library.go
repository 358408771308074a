// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package library implements the per-user viewing state: watch history,
favorites, and the volatile pending-watch stash.

# Consistency

Watch history and favorites are stored twice: as normalized rows under the
library schema and as denormalized arrays embedded in the user account —
full progress entries keyed by (anime, episode) for history, anime IDs for
favorites. Every write touches both representations inside a single
transaction so the two can never disagree.
*/
package library

import (
	"context"
	"time"
)

// # Domain Entities

// WatchHistoryEntry records how far a user got into one episode.
type WatchHistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AnimeID   string    `json:"anime_id"`
	Episode   int       `json:"episode"`
	Progress  float64   `json:"progress"` // Percent, 0..100.
	Duration  int       `json:"duration"` // Seconds.
	Completed bool      `json:"completed"`
	WatchedAt time.Time `json:"watched_at"`

	// Joined catalog fields, populated on reads only.
	AnimeTitle string `json:"anime_title,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// Favorite marks a series a user has bookmarked.
type Favorite struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	AnimeID string    `json:"anime_id"`
	AddedAt time.Time `json:"added_at"`

	// Joined catalog fields, populated on reads only.
	AnimeTitle string  `json:"anime_title,omitempty"`
	CoverURL   string  `json:"cover_url,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// PendingWatch is a stashed watch intent: what a logged-out visitor tried to
// play. It is replayed once the visitor authenticates.
type PendingWatch struct {
	AnimeID string `json:"anime_id"`
	Episode int    `json:"episode"`
}

// # Constraints

const (
	// CompletedThreshold is the progress percentage at which an episode
	// counts as completed.
	CompletedThreshold = 95.0

	// DefaultHistoryLimit bounds a history read when the client asks for
	// no specific limit.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit is the hard ceiling for a single history read.
	MaxHistoryLimit = 200

	// PendingWatchTTL bounds how long a stashed watch intent survives.
	PendingWatchTTL = 24 * time.Hour
)

// # Field Identifiers

const (
	FieldAnimeID  = "anime_id"
	FieldEpisode  = "episode"
	FieldProgress = "progress"
	FieldDuration = "duration"
	FieldLimit    = "limit"
	FieldAdded    = "added"
)

// # Data Access

// Repository defines the transactional storage contract for viewing state.
type Repository interface {

	/*
		UpsertProgress records or updates progress for (user, anime, episode).
		The normalized row and the user's embedded watch-history array change
		in one transaction.

		Parameters:
		  - context: context.Context
		  - entry: *WatchHistoryEntry

		Returns:
		  - error: apperr.NotFound (unknown anime or user) or persistence failures
	*/
	UpsertProgress(context context.Context, entry *WatchHistoryEntry) error

	/*
		History returns the user's watch history, newest first, joined against
		the catalog.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int

		Returns:
		  - []WatchHistoryEntry: Recent entries
		  - error: Retrieval failures
	*/
	History(context context.Context, userID string, limit int) ([]WatchHistoryEntry, error)

	/*
		ToggleFavorite flips the favorite state of (user, anime). Both the
		favorite row and the user's embedded favorites array change in one
		transaction.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - animeID: string

		Returns:
		  - bool: true when the series was added, false when removed
		  - error: apperr.NotFound (unknown anime or user) or persistence failures
	*/
	ToggleFavorite(context context.Context, userID, animeID string) (bool, error)

	/*
		Favorites returns the user's favorites, newest first, joined against
		the catalog.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []Favorite: Bookmarked series
		  - error: Retrieval failures
	*/
	Favorites(context context.Context, userID string) ([]Favorite, error)
}

// PendingWatchRepository defines the contract for the volatile watch stash.
type PendingWatchRepository interface {

	/*
		Set stashes the watch intent for a user, replacing any previous stash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - pending: PendingWatch

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, userID string, pending PendingWatch) error

	/*
		Take returns and removes the stashed intent in one step.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *PendingWatch: The stashed intent, or nil when none exists
		  - error: Retrieval failures
	*/
	Take(context context.Context, userID string) (*PendingWatch, error)

	/*
		Clear removes the stashed intent, if any.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context, userID string) error
}
