// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package library_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikari-tv/hikari/internal/library"
	"github.com/hikari-tv/hikari/internal/platform/apperr"
	"github.com/hikari-tv/hikari/internal/users/auth"
)

// # In-Memory Fakes

type historyKey struct {
	userID  string
	animeID string
	episode int
}

// fakeRepository mimics the transactional viewing-state store, including the
// dual-write of the embedded per-account history: full progress entries keyed
// by (anime, episode), keyed element replaced and appended last.
type fakeRepository struct {
	entries      map[historyKey]*library.WatchHistoryEntry
	embedded     map[string][]auth.WatchHistoryRef // userID -> account array
	favorites    map[string]map[string]bool        // userID -> animeID set
	knownAnime   map[string]bool
	historyLimit int // last limit passed to History
}

func newFakeRepository(animeIDs ...string) *fakeRepository {
	known := map[string]bool{}
	for _, id := range animeIDs {
		known[id] = true
	}
	return &fakeRepository{
		entries:    map[historyKey]*library.WatchHistoryEntry{},
		embedded:   map[string][]auth.WatchHistoryRef{},
		favorites:  map[string]map[string]bool{},
		knownAnime: known,
	}
}

func (repo *fakeRepository) UpsertProgress(_ context.Context, entry *library.WatchHistoryEntry) error {
	if !repo.knownAnime[entry.AnimeID] {
		return apperr.NotFound("Anime")
	}
	copied := *entry
	repo.entries[historyKey{entry.UserID, entry.AnimeID, entry.Episode}] = &copied

	kept := repo.embedded[entry.UserID][:0:0]
	for _, ref := range repo.embedded[entry.UserID] {
		if ref.AnimeID != entry.AnimeID || ref.Episode != entry.Episode {
			kept = append(kept, ref)
		}
	}
	repo.embedded[entry.UserID] = append(kept, auth.WatchHistoryRef{
		AnimeID:   entry.AnimeID,
		Episode:   entry.Episode,
		Progress:  entry.Progress,
		Duration:  entry.Duration,
		Timestamp: entry.WatchedAt,
	})
	return nil
}

func (repo *fakeRepository) History(_ context.Context, userID string, limit int) ([]library.WatchHistoryEntry, error) {
	repo.historyLimit = limit

	var out []library.WatchHistoryEntry
	for key, entry := range repo.entries {
		if key.userID == userID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (repo *fakeRepository) ToggleFavorite(_ context.Context, userID, animeID string) (bool, error) {
	if !repo.knownAnime[animeID] {
		return false, apperr.NotFound("Anime")
	}
	if repo.favorites[userID] == nil {
		repo.favorites[userID] = map[string]bool{}
	}
	if repo.favorites[userID][animeID] {
		delete(repo.favorites[userID], animeID)
		return false, nil
	}
	repo.favorites[userID][animeID] = true
	return true, nil
}

func (repo *fakeRepository) Favorites(_ context.Context, userID string) ([]library.Favorite, error) {
	var out []library.Favorite
	for animeID := range repo.favorites[userID] {
		out = append(out, library.Favorite{UserID: userID, AnimeID: animeID})
	}
	return out, nil
}

// fakePendingWatchRepository is an in-memory stand-in for the Redis stash.
type fakePendingWatchRepository struct {
	stash map[string]library.PendingWatch
}

func newFakePendingWatchRepository() *fakePendingWatchRepository {
	return &fakePendingWatchRepository{stash: map[string]library.PendingWatch{}}
}

func (repo *fakePendingWatchRepository) Set(_ context.Context, userID string, pending library.PendingWatch) error {
	repo.stash[userID] = pending
	return nil
}

func (repo *fakePendingWatchRepository) Take(_ context.Context, userID string) (*library.PendingWatch, error) {
	pending, ok := repo.stash[userID]
	if !ok {
		return nil, nil
	}
	delete(repo.stash, userID)
	return &pending, nil
}

func (repo *fakePendingWatchRepository) Clear(_ context.Context, userID string) error {
	delete(repo.stash, userID)
	return nil
}

// fakeActivityRecorder captures recorded actions for assertions.
type fakeActivityRecorder struct {
	actions []string
}

func (recorder *fakeActivityRecorder) Record(_ context.Context, _, action string, _ map[string]any, _, _ string) {
	recorder.actions = append(recorder.actions, action)
}

// # Test Harness

type libraryFixture struct {
	service      *library.Service
	repository   *fakeRepository
	pendingWatch *fakePendingWatchRepository
	activity     *fakeActivityRecorder
}

func newLibraryFixture(animeIDs ...string) *libraryFixture {
	fixture := &libraryFixture{
		repository:   newFakeRepository(animeIDs...),
		pendingWatch: newFakePendingWatchRepository(),
		activity:     &fakeActivityRecorder{},
	}
	fixture.service = library.NewService(fixture.repository, fixture.pendingWatch, fixture.activity)
	return fixture
}

// # Progress Tracking

/*
TestService_RecordProgress verifies storage, completion marking, and upserts.
*/
func TestService_RecordProgress(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	entry, err := fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
		AnimeID:  "anime-1",
		Episode:  3,
		Progress: 42.5,
		Duration: 1420,
	})
	require.NoError(t, err)
	assert.False(t, entry.Completed)
	assert.NotEmpty(t, entry.ID)

	// A later report on the same episode refreshes the entry, not a new row.
	entry, err = fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
		AnimeID:  "anime-1",
		Episode:  3,
		Progress: 97.0,
		Duration: 1420,
	})
	require.NoError(t, err)
	assert.True(t, entry.Completed)
	assert.Len(t, fixture.repository.entries, 1)

	assert.Contains(t, fixture.activity.actions, "watch_progress")
}

/*
TestService_RecordProgress_EmbeddedHistory verifies the denormalized account
array: full progress entries keyed by (anime, episode), so two episodes of
the same series stay distinct, and re-reporting an episode replaces its entry
and moves it last.
*/
func TestService_RecordProgress_EmbeddedHistory(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	// 1. Two episodes of the same series produce two embedded entries
	_, err := fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
		AnimeID: "anime-1", Episode: 1, Progress: 40, Duration: 1400,
	})
	require.NoError(t, err)
	_, err = fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
		AnimeID: "anime-1", Episode: 2, Progress: 10, Duration: 1400,
	})
	require.NoError(t, err)

	embedded := fixture.repository.embedded["user-1"]
	require.Len(t, embedded, 2)

	// 2. Re-reporting episode 1 replaces its entry and appends it last
	_, err = fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
		AnimeID: "anime-1", Episode: 1, Progress: 96, Duration: 1400,
	})
	require.NoError(t, err)

	embedded = fixture.repository.embedded["user-1"]
	require.Len(t, embedded, 2)
	assert.Equal(t, 2, embedded[0].Episode)
	assert.Equal(t, 1, embedded[1].Episode)
	assert.InDelta(t, 96, embedded[1].Progress, 0.001)
	assert.Len(t, fixture.repository.entries, 2)
}

/*
TestService_RecordProgress_CompletionThreshold verifies the boundary.
*/
func TestService_RecordProgress_CompletionThreshold(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	tests := []struct {
		name      string
		progress  float64
		completed bool
	}{
		{"below_threshold", 94.9, false},
		{"exact_threshold", 95.0, true},
		{"above_threshold", 100.0, true},
		{"zero", 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := fixture.service.RecordProgress(context.Background(), "user-1", library.ProgressInput{
				AnimeID:  "anime-1",
				Episode:  1,
				Progress: tt.progress,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.completed, entry.Completed)
		})
	}
}

/*
TestService_RecordProgress_Validation verifies input rejection.
*/
func TestService_RecordProgress_Validation(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	tests := []struct {
		name  string
		input library.ProgressInput
		code  string
	}{
		{"negative_progress", library.ProgressInput{AnimeID: "anime-1", Episode: 1, Progress: -1}, "VALIDATION_ERROR"},
		{"over_hundred", library.ProgressInput{AnimeID: "anime-1", Episode: 1, Progress: 100.1}, "VALIDATION_ERROR"},
		{"zero_episode", library.ProgressInput{AnimeID: "anime-1", Episode: 0, Progress: 50}, "VALIDATION_ERROR"},
		{"unknown_anime", library.ProgressInput{AnimeID: "ghost", Episode: 1, Progress: 50}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := fixture.service.RecordProgress(context.Background(), "user-1", tt.input)
			assert.Nil(t, entry)
			assert.True(t, apperr.IsCode(err, tt.code))
		})
	}
}

/*
TestService_History verifies defaulting and capping of the read limit.
*/
func TestService_History(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	_, err := fixture.service.History(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, library.DefaultHistoryLimit, fixture.repository.historyLimit)

	_, err = fixture.service.History(context.Background(), "user-1", 10_000)
	require.NoError(t, err)
	assert.Equal(t, library.MaxHistoryLimit, fixture.repository.historyLimit)

	_, err = fixture.service.History(context.Background(), "user-1", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, fixture.repository.historyLimit)
}

// # Favorites

/*
TestService_ToggleFavorite verifies the two-state toggle and its activities.
*/
func TestService_ToggleFavorite(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	added, err := fixture.service.ToggleFavorite(context.Background(), "user-1", "anime-1")
	require.NoError(t, err)
	assert.True(t, added)

	favorites, err := fixture.service.Favorites(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	// Toggling again removes the bookmark.
	added, err = fixture.service.ToggleFavorite(context.Background(), "user-1", "anime-1")
	require.NoError(t, err)
	assert.False(t, added)

	favorites, err = fixture.service.Favorites(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	assert.Contains(t, fixture.activity.actions, "favorite_added")
	assert.Contains(t, fixture.activity.actions, "favorite_removed")
}

/*
TestService_ToggleFavorite_UnknownAnime verifies the catalog guard.
*/
func TestService_ToggleFavorite_UnknownAnime(t *testing.T) {
	fixture := newLibraryFixture("anime-1")

	_, err := fixture.service.ToggleFavorite(context.Background(), "user-1", "ghost")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

// # Pending Watch

/*
TestService_PendingWatch verifies stash, consume-once, and validation.
*/
func TestService_PendingWatch(t *testing.T) {
	fixture := newLibraryFixture()

	// Missing anime is rejected.
	err := fixture.service.StashPendingWatch(context.Background(), "user-1", library.PendingWatch{})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	// Episode defaults to 1 when unset.
	err = fixture.service.StashPendingWatch(context.Background(), "user-1", library.PendingWatch{AnimeID: "anime-1"})
	require.NoError(t, err)

	pending, err := fixture.service.TakePendingWatch(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "anime-1", pending.AnimeID)
	assert.Equal(t, 1, pending.Episode)

	// Take consumes the stash.
	pending, err = fixture.service.TakePendingWatch(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, pending)
}
