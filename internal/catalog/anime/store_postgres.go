// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

// PostgreSQL implementation of the catalog storage contract.
//
// # Query Building
//
// List composes its WHERE clause dynamically with numbered arguments.
// Set operations use the array overlap operator (&&) against the genres
// column, which is served by a GIN index.
package anime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/platform/database/schema"
	"github.com/hikari-tv/hikari/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// animeColumns is the full select list for catalog.anime, derived from the
// schema definition so the scan order below cannot drift from the table.
var animeColumns = strings.Join(schema.CatalogAnime.Columns(), ", ")

// scanAnime hydrates an Anime entity from a single row.
func scanAnime(row pgx.Row) (*Anime, error) {
	entry := &Anime{}
	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.AltTitle,
		&entry.Description,
		&entry.CoverURL,
		&entry.BannerURL,
		&entry.Genres,
		&entry.Studio,
		&entry.Year,
		&entry.Status,
		&entry.Rating,
		&entry.EpisodeCount,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

/*
List returns catalog entries matching the filters, newest first.

Parameters:
  - context: context.Context
  - filters: ListFilters

Returns:
  - []Anime: Matching series (episodes not hydrated)
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filters ListFilters) ([]Anime, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + animeColumns + " FROM " + schema.CatalogAnime.Table + " WHERE 1=1")

	args := []any{}
	argID := 1

	if filters.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.CatalogAnime.Title, argID, schema.CatalogAnime.AltTitle, argID))
		args = append(args, "%"+filters.Search+"%")
		argID++
	}

	if len(filters.Genres) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s && $%d::text[]", schema.CatalogAnime.Genres, argID))
		args = append(args, filters.Genres)
		argID++
	}

	if filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CatalogAnime.Status, argID))
		args = append(args, filters.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC",
		schema.CatalogAnime.CreatedAt, schema.CatalogAnime.ID))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_anime_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var entries []Anime
	for rows.Next() {
		entry, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_anime_repo_scan_failed: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_anime_repo_rows_failed: %w", err)
	}

	return entries, nil
}

/*
FindByID returns a single series with its episode list hydrated.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Anime: Hydrated entity including episodes ordered by number
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Anime, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		animeColumns, schema.CatalogAnime.Table, schema.CatalogAnime.ID)

	entry, err := scanAnime(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Anime")
		}
		return nil, fmt.Errorf("postgres_anime_repo_find_failed: %w", err)
	}

	episodeQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogEpisode.ID, schema.CatalogEpisode.AnimeID, schema.CatalogEpisode.Number,
		schema.CatalogEpisode.Title, schema.CatalogEpisode.Duration, schema.CatalogEpisode.SourceURL,
		schema.CatalogEpisode.CreatedAt,
		schema.CatalogEpisode.Table,
		schema.CatalogEpisode.AnimeID,
		schema.CatalogEpisode.Number,
	)

	rows, err := repository.pool.Query(context, episodeQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_anime_repo_episodes_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var episode Episode
		err := rows.Scan(
			&episode.ID,
			&episode.AnimeID,
			&episode.Number,
			&episode.Title,
			&episode.Duration,
			&episode.SourceURL,
			&episode.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_anime_repo_episode_scan_failed: %w", err)
		}
		entry.Episodes = append(entry.Episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_anime_repo_episode_rows_failed: %w", err)
	}

	return entry, nil
}

/*
Create persists a new series and its episodes in a single transaction.

Description: The series row and every episode row land atomically. A title
collision surfaces as apperr.Conflict through the unique index on lower(title).

Parameters:
  - context: context.Context
  - anime: *Anime

Returns:
  - error: apperr.Conflict or persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, anime *Anime) error {
	now := time.Now()
	if anime.CreatedAt.IsZero() {
		anime.CreatedAt = now
	}
	anime.UpdatedAt = now

	if anime.Genres == nil {
		anime.Genres = []string{}
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_anime_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		schema.CatalogAnime.Table, animeColumns)

	_, err = transaction.Exec(context, query,
		anime.ID,
		anime.Title,
		anime.AltTitle,
		anime.Description,
		anime.CoverURL,
		anime.BannerURL,
		anime.Genres,
		anime.Studio,
		anime.Year,
		anime.Status,
		anime.Rating,
		anime.EpisodeCount,
		anime.CreatedAt,
		anime.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_anime_repo_create_failed")
	}

	episodeQuery := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.CatalogEpisode.Table,
		schema.CatalogEpisode.ID, schema.CatalogEpisode.AnimeID, schema.CatalogEpisode.Number,
		schema.CatalogEpisode.Title, schema.CatalogEpisode.Duration, schema.CatalogEpisode.SourceURL,
		schema.CatalogEpisode.CreatedAt,
	)

	for index := range anime.Episodes {
		episode := &anime.Episodes[index]
		episode.AnimeID = anime.ID
		if episode.CreatedAt.IsZero() {
			episode.CreatedAt = now
		}

		_, err = transaction.Exec(context, episodeQuery,
			episode.ID,
			episode.AnimeID,
			episode.Number,
			episode.Title,
			episode.Duration,
			episode.SourceURL,
			episode.CreatedAt,
		)
		if err != nil {
			return dberr.Wrap(err, "postgres_anime_repo_create_episode_failed")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_anime_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Count returns the total number of series in the catalog.

Parameters:
  - context: context.Context

Returns:
  - int: Row count
  - error: Execution errors
*/
func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var count int
	err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM "+schema.CatalogAnime.Table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_anime_repo_count_failed: %w", err)
	}
	return count, nil
}
