// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hikari-tv/hikari/internal/platform/constants"
)

// RedisPendingWatchRepository implements PendingWatchRepository using Redis.
//
// One key per user; setting a new stash replaces the old one. Keys expire on
// their own after [PendingWatchTTL] even if the user never returns.
type RedisPendingWatchRepository struct {
	client *redis.Client
}

// NewPendingWatchRepository creates a new Redis-backed PendingWatchRepository.
func NewPendingWatchRepository(client *redis.Client) *RedisPendingWatchRepository {
	return &RedisPendingWatchRepository{client: client}
}

/*
Set stashes the watch intent for a user, replacing any previous stash.

Parameters:
  - context: context.Context
  - userID: string
  - pending: PendingWatch

Returns:
  - error: Serialization or execution errors
*/
func (repository *RedisPendingWatchRepository) Set(context context.Context, userID string, pending PendingWatch) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixPendingWatch, userID)

	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("redis_pending_watch_marshal_failed: %w", err)
	}

	// Set the stash with TTL
	if err := repository.client.Set(context, key, payload, PendingWatchTTL).Err(); err != nil {
		return fmt.Errorf("redis_pending_watch_set_failed: %w", err)
	}

	return nil
}

/*
Take returns and removes the stashed intent in one step.

Description: Uses GETDEL so the stash is consumed atomically; replaying the
same intent twice is impossible.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *PendingWatch: The stashed intent, or nil when none exists
  - error: Retrieval failures
*/
func (repository *RedisPendingWatchRepository) Take(context context.Context, userID string) (*PendingWatch, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixPendingWatch, userID)

	payload, err := repository.client.GetDel(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_pending_watch_take_failed: %w", err)
	}

	var pending PendingWatch
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		return nil, fmt.Errorf("redis_pending_watch_unmarshal_failed: %w", err)
	}

	return &pending, nil
}

/*
Clear removes the stashed intent, if any.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisPendingWatchRepository) Clear(context context.Context, userID string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixPendingWatch, userID)

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_pending_watch_clear_failed: %w", err)
	}

	return nil
}
