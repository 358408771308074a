// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package activity implements the append-only user activity log.

Entries record what happened (login, logout, progress updates, favorites) and
are never updated or deleted. Recording is best-effort everywhere: a failure
to write an activity entry must never fail the operation that produced it.
*/
package activity

import (
	"context"
	"time"

	"github.com/hikari-tv/hikari/pkg/pagination"
)

// Entry is a single append-only activity record.
type Entry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// # Data Access

// Repository defines the storage contract for activity entries.
//
// There are deliberately no update or delete methods.
type Repository interface {

	/*
		Append persists a new activity entry.

		Parameters:
		  - context: context.Context
		  - entry: *Entry

		Returns:
		  - error: Persistence failures
	*/
	Append(context context.Context, entry *Entry) error

	/*
		List returns entries newest first, optionally filtered by user.

		Parameters:
		  - context: context.Context
		  - userID: string (empty matches all users)
		  - params: pagination.Params

		Returns:
		  - []Entry: Page of entries
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, userID string, params pagination.Params) ([]Entry, int, error)
}
