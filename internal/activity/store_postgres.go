// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikari-tv/hikari/internal/platform/database/schema"
	"github.com/hikari-tv/hikari/pkg/pagination"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Append persists a new activity entry into the system.activity table.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`,
		schema.SystemActivity.Table,
		schema.SystemActivity.ID, schema.SystemActivity.UserID, schema.SystemActivity.Action,
		schema.SystemActivity.Details, schema.SystemActivity.IPAddress, schema.SystemActivity.UserAgent,
		schema.SystemActivity.CreatedAt,
	)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.Details,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_activity_repo_append_failed: %w", err)
	}

	return nil
}

/*
List returns activity entries newest first, optionally filtered by user.

Parameters:
  - context: context.Context
  - userID: string (empty matches all users)
  - params: pagination.Params

Returns:
  - []Entry: Page of entries
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, userID string, params pagination.Params) ([]Entry, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE (NULLIF($1, '') IS NULL OR %s = NULLIF($1, '')::uuid)`,
		schema.SystemActivity.Table, schema.SystemActivity.UserID,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_activity_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, COALESCE(%s::text, ''), %s, %s, %s, %s, %s
		FROM %s
		WHERE (NULLIF($1, '') IS NULL OR %s = NULLIF($1, '')::uuid)
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.SystemActivity.ID, schema.SystemActivity.UserID, schema.SystemActivity.Action,
		schema.SystemActivity.Details, schema.SystemActivity.IPAddress, schema.SystemActivity.UserAgent,
		schema.SystemActivity.CreatedAt,
		schema.SystemActivity.Table,
		schema.SystemActivity.UserID,
		schema.SystemActivity.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_activity_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_activity_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_activity_repo_rows_failed: %w", err)
	}

	return entries, total, nil
}
