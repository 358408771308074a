// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package datastore owns the lifecycle of the durable record store.

Every repository obtains its connection pool through [Store.Pool], which
enforces the engine state machine:

	Closed → Opening → (schema upgrade if version behind) → Open

All operations besides Open fail with a NOT_READY error unless the store
has reached the Open state. Closing the store returns it to Closed.

The schema upgrade step is delegated to golang-migrate and runs exactly
once per version bump, mirroring a versioned on-disk database that applies
its upgrade callback when the stored version is behind the code's.
*/
package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/platform/migration"
	"github.com/hikari-tv/hikari/internal/platform/postgres"
)

// State is the lifecycle phase of the record store engine.
type State int32

const (
	// StateClosed means no connection pool exists. Initial and final state.
	StateClosed State = iota

	// StateOpening means the pool is being established and pending schema
	// upgrades are being applied.
	StateOpening

	// StateOpen means the engine accepts operations.
	StateOpen
)

// String returns the lowercase name of the state for logs.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Store is the handle every repository uses to reach the durable database.
//
// # Concurrency
//
// Pool is safe for concurrent use once Open has returned. Open and Close
// serialize against each other and against Pool via the internal mutex.
type Store struct {
	mu    sync.RWMutex
	state State
	pool  *pgxpool.Pool
	log   *slog.Logger
}

// New constructs a Store in the Closed state.
func New(logger *slog.Logger) *Store {
	return &Store{state: StateClosed, log: logger}
}

// Open transitions Closed → Opening → Open.
//
// It establishes the connection pool and applies any pending schema
// migrations before the store becomes usable. Calling Open on a store that
// is not Closed fails with a CONFLICT error.
//
// Parameters:
//   - context: context.Context for the connection attempt
//   - dsn: PostgreSQL connection URL
//   - migrationPath: filesystem path to the SQL migrations directory
//
// Returns:
//   - error: Connection or migration failures (the store stays Closed)
func (store *Store) Open(context context.Context, dsn, migrationPath string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.state != StateClosed {
		return apperr.Conflict("Record store is already " + store.state.String())
	}

	store.state = StateOpening
	store.log.Info("datastore_opening")

	pool, err := postgres.NewPool(context, dsn, store.log)
	if err != nil {
		store.state = StateClosed
		return fmt.Errorf("datastore: open failed: %w", err)
	}

	// Schema upgrade phase: runs only when the stored version is behind.
	if err := migration.RunUp(dsn, migrationPath, store.log); err != nil {
		pool.Close()
		store.state = StateClosed
		return fmt.Errorf("datastore: schema upgrade failed: %w", err)
	}

	store.pool = pool
	store.state = StateOpen
	store.log.Info("datastore_open")

	return nil
}

// Pool returns the live connection pool.
//
// Returns:
//   - *pgxpool.Pool: usable pool when the store is Open
//   - error: apperr.NotReady in any other state
func (store *Store) Pool() (*pgxpool.Pool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.state != StateOpen {
		return nil, apperr.NotReady("Record store is " + store.state.String())
	}
	return store.pool, nil
}

// State reports the current lifecycle phase.
func (store *Store) State() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Ping verifies connectivity to the underlying engine.
func (store *Store) Ping(context context.Context) error {
	pool, err := store.Pool()
	if err != nil {
		return err
	}
	return postgres.Ping(context, pool)
}

// Close releases the pool and returns the store to Closed. Idempotent.
func (store *Store) Close() {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.pool != nil {
		store.pool.Close()
		store.pool = nil
	}

	if store.state != StateClosed {
		store.log.Info("datastore_closed")
	}
	store.state = StateClosed
}
