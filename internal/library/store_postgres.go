// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

// PostgreSQL implementation of the viewing-state storage contract.
//
// # Dual Writes
//
// UpsertProgress and ToggleFavorite update the normalized library rows AND
// the denormalized JSONB arrays on users.account inside a single pgx
// transaction. The remove-then-append pattern keeps the arrays duplicate-free
// with the most recent entry last: watchhistory holds full progress objects
// keyed by (anime_id, episode), favorites holds anime IDs.
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/platform/database/schema"
	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// wrapReferenceError maps foreign-key violations onto NotFound so that a
// progress write against an unknown series answers 404, not 500.
func wrapReferenceError(err error, action string) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.ForeignKeyViolation {
		return apperr.NotFound("Anime")
	}
	return fmt.Errorf("%s: %w", action, err)
}

/*
UpsertProgress records or updates progress for (user, anime, episode).

Description: One transaction covers the ON CONFLICT upsert of the history row
and the refresh of the embedded watch-history array on the account. The array
keeps distinct anime IDs with the most recently watched last.

Parameters:
  - context: context.Context
  - entry: *WatchHistoryEntry

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) UpsertProgress(context context.Context, entry *WatchHistoryEntry) error {
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = time.Now()
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_library_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// 1. Upsert the normalized history row
	upsertQuery := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (%s, %s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s
		RETURNING %s`,
		schema.LibraryWatchHistory.Table,
		schema.LibraryWatchHistory.ID, schema.LibraryWatchHistory.UserID, schema.LibraryWatchHistory.AnimeID,
		schema.LibraryWatchHistory.Episode, schema.LibraryWatchHistory.Progress, schema.LibraryWatchHistory.Duration,
		schema.LibraryWatchHistory.Completed, schema.LibraryWatchHistory.WatchedAt,
		schema.LibraryWatchHistory.UserID, schema.LibraryWatchHistory.AnimeID, schema.LibraryWatchHistory.Episode,
		schema.LibraryWatchHistory.Progress, schema.LibraryWatchHistory.Progress,
		schema.LibraryWatchHistory.Duration, schema.LibraryWatchHistory.Duration,
		schema.LibraryWatchHistory.Completed, schema.LibraryWatchHistory.Completed,
		schema.LibraryWatchHistory.WatchedAt, schema.LibraryWatchHistory.WatchedAt,
		schema.LibraryWatchHistory.ID,
	)

	err = transaction.QueryRow(context, upsertQuery,
		entry.ID,
		entry.UserID,
		entry.AnimeID,
		entry.Episode,
		entry.Progress,
		entry.Duration,
		entry.Completed,
		entry.WatchedAt,
	).Scan(&entry.ID)
	if err != nil {
		return wrapReferenceError(err, "postgres_library_repo_upsert_failed")
	}

	// 2. Refresh the denormalized entry on the account. The embedded array
	// holds full progress objects keyed by (anime_id, episode): the keyed
	// element is filtered out, then the fresh object is appended last.
	accountQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE((
				SELECT jsonb_agg(ref)
				FROM jsonb_array_elements(%s) AS ref
				WHERE NOT (ref->>'anime_id' = $2 AND (ref->>'episode')::int = $3)
			), '[]'::jsonb) || jsonb_build_object(
				'anime_id', $2::text,
				'episode', $3::int,
				'progress', $4::numeric,
				'duration', $5::int,
				'timestamp', $6::timestamptz),
			%s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.WatchHistory, schema.UserAccount.WatchHistory,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := transaction.Exec(context, accountQuery,
		entry.UserID, entry.AnimeID, entry.Episode, entry.Progress, entry.Duration, entry.WatchedAt)
	if err != nil {
		return fmt.Errorf("postgres_library_repo_account_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_library_repo_commit_failed: %w", err)
	}

	return nil
}

/*
History returns the user's watch history, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int

Returns:
  - []WatchHistoryEntry: Recent entries joined against the catalog
  - error: Retrieval failures
*/
func (repository *PostgresRepository) History(context context.Context, userID string, limit int) ([]WatchHistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, a.%s, a.%s
		FROM %s h
		JOIN %s a ON a.%s = h.%s
		WHERE h.%s = $1
		ORDER BY h.%s DESC
		LIMIT $2`,
		schema.LibraryWatchHistory.ID, schema.LibraryWatchHistory.UserID, schema.LibraryWatchHistory.AnimeID,
		schema.LibraryWatchHistory.Episode, schema.LibraryWatchHistory.Progress, schema.LibraryWatchHistory.Duration,
		schema.LibraryWatchHistory.Completed, schema.LibraryWatchHistory.WatchedAt,
		schema.CatalogAnime.Title, schema.CatalogAnime.CoverURL,
		schema.LibraryWatchHistory.Table,
		schema.CatalogAnime.Table, schema.CatalogAnime.ID, schema.LibraryWatchHistory.AnimeID,
		schema.LibraryWatchHistory.UserID,
		schema.LibraryWatchHistory.WatchedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_library_repo_history_failed: %w", err)
	}
	defer rows.Close()

	var entries []WatchHistoryEntry
	for rows.Next() {
		var entry WatchHistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.AnimeID,
			&entry.Episode,
			&entry.Progress,
			&entry.Duration,
			&entry.Completed,
			&entry.WatchedAt,
			&entry.AnimeTitle,
			&entry.CoverURL,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_library_repo_history_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_library_repo_history_rows_failed: %w", err)
	}

	return entries, nil
}

/*
ToggleFavorite flips the favorite state of (user, anime).

Description: Tries to delete the favorite row first. A deleted row means the
series was bookmarked and is now removed; otherwise a fresh row is inserted.
The embedded favorites array on the account changes in the same transaction.

Parameters:
  - context: context.Context
  - userID: string
  - animeID: string

Returns:
  - bool: true when added, false when removed
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) ToggleFavorite(context context.Context, userID, animeID string) (bool, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, fmt.Errorf("postgres_library_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// 1. Attempt removal
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.AnimeID)
	tag, err := transaction.Exec(context, deleteQuery, userID, animeID)
	if err != nil {
		return false, fmt.Errorf("postgres_library_repo_unfavorite_failed: %w", err)
	}

	added := tag.RowsAffected() == 0

	if added {
		// 2a. Not bookmarked yet: insert the favorite row
		insertQuery := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s)
			VALUES ($1, $2, $3, NOW())`,
			schema.LibraryFavorite.Table,
			schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID,
			schema.LibraryFavorite.AnimeID, schema.LibraryFavorite.AddedAt,
		)

		if _, err := transaction.Exec(context, insertQuery, uuidv7.New(), userID, animeID); err != nil {
			return false, wrapReferenceError(err, "postgres_library_repo_favorite_failed")
		}

		// 2b. Append to the embedded array
		appendQuery := fmt.Sprintf(`
			UPDATE %s
			SET %s = (%s - $2::text) || to_jsonb($2::text), %s = NOW()
			WHERE %s = $1`,
			schema.UserAccount.Table,
			schema.UserAccount.Favorites, schema.UserAccount.Favorites, schema.UserAccount.UpdatedAt,
			schema.UserAccount.ID,
		)

		tag, err = transaction.Exec(context, appendQuery, userID, animeID)
		if err != nil {
			return false, fmt.Errorf("postgres_library_repo_favorites_append_failed: %w", err)
		}
	} else {
		// 2c. Remove from the embedded array
		removeQuery := fmt.Sprintf(`
			UPDATE %s
			SET %s = %s - $2::text, %s = NOW()
			WHERE %s = $1`,
			schema.UserAccount.Table,
			schema.UserAccount.Favorites, schema.UserAccount.Favorites, schema.UserAccount.UpdatedAt,
			schema.UserAccount.ID,
		)

		tag, err = transaction.Exec(context, removeQuery, userID, animeID)
		if err != nil {
			return false, fmt.Errorf("postgres_library_repo_favorites_remove_failed: %w", err)
		}
	}

	if tag.RowsAffected() == 0 {
		return false, apperr.NotFound("User")
	}

	if err := transaction.Commit(context); err != nil {
		return false, fmt.Errorf("postgres_library_repo_commit_failed: %w", err)
	}

	return added, nil
}

/*
Favorites returns the user's favorites, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Favorite: Bookmarked series joined against the catalog
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Favorites(context context.Context, userID string) ([]Favorite, error) {
	query := fmt.Sprintf(`
		SELECT f.%s, f.%s, f.%s, f.%s, a.%s, a.%s, a.%s
		FROM %s f
		JOIN %s a ON a.%s = f.%s
		WHERE f.%s = $1
		ORDER BY f.%s DESC`,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID, schema.LibraryFavorite.AnimeID,
		schema.LibraryFavorite.AddedAt,
		schema.CatalogAnime.Title, schema.CatalogAnime.CoverURL, schema.CatalogAnime.Rating,
		schema.LibraryFavorite.Table,
		schema.CatalogAnime.Table, schema.CatalogAnime.ID, schema.LibraryFavorite.AnimeID,
		schema.LibraryFavorite.UserID,
		schema.LibraryFavorite.AddedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_library_repo_favorites_failed: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var favorite Favorite
		err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.AnimeID,
			&favorite.AddedAt,
			&favorite.AnimeTitle,
			&favorite.CoverURL,
			&favorite.Rating,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_library_repo_favorites_scan_failed: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_library_repo_favorites_rows_failed: %w", err)
	}

	return favorites, nil
}
