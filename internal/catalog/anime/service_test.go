// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package anime_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikari-tv/hikari/internal/catalog/anime"
	"github.com/hikari-tv/hikari/internal/platform/apperr"
)

// fakeRepository mimics the Postgres catalog store, including the
// case-insensitive unique title constraint.
type fakeRepository struct {
	entries     []*anime.Anime
	lastFilters anime.ListFilters
}

func (repo *fakeRepository) List(_ context.Context, filters anime.ListFilters) ([]anime.Anime, error) {
	repo.lastFilters = filters

	var out []anime.Anime
	for _, entry := range repo.entries {
		if filters.Search != "" && !strings.Contains(strings.ToLower(entry.Title), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, *entry)
	}
	return out, nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*anime.Anime, error) {
	for _, entry := range repo.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Anime")
}

func (repo *fakeRepository) Create(_ context.Context, entry *anime.Anime) error {
	for _, existing := range repo.entries {
		if strings.EqualFold(existing.Title, entry.Title) {
			return apperr.Conflict("Resource already exists")
		}
	}
	copied := *entry
	repo.entries = append(repo.entries, &copied)
	return nil
}

func (repo *fakeRepository) Count(_ context.Context) (int, error) {
	return len(repo.entries), nil
}

/*
TestService_List verifies filter normalization before repository dispatch.
*/
func TestService_List(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	_, err := service.List(context.Background(), anime.ListFilters{
		Genres: []string{"Action", "ISEKAI"},
		Status: anime.StatusOngoing,
	})
	require.NoError(t, err)

	// Genres reach the repository lowercased.
	assert.Equal(t, []string{"action", "isekai"}, repo.lastFilters.Genres)
	assert.Equal(t, anime.StatusOngoing, repo.lastFilters.Status)
}

/*
TestService_Search verifies case-insensitive substring matching.
*/
func TestService_Search(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	_, err := service.Create(context.Background(), anime.CreateInput{Title: "Solo Leveling", Status: anime.StatusOngoing})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), anime.CreateInput{Title: "Jujutsu Kaisen", Status: anime.StatusCompleted})
	require.NoError(t, err)

	results, err := service.Search(context.Background(), "leveling")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Solo Leveling", results[0].Title)

	results, err = service.Search(context.Background(), "no such title")
	require.NoError(t, err)
	assert.Empty(t, results)
}

/*
TestService_Create verifies entity assembly, IDs, and the episode count rule.
*/
func TestService_Create(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	created, err := service.Create(context.Background(), anime.CreateInput{
		Title:        "Solo Leveling",
		Genres:       []string{"Action", "Fantasy"},
		Status:       anime.StatusOngoing,
		EpisodeCount: 12,
		Episodes: []anime.EpisodeInput{
			{Number: 1, Title: "I'm Used to It", Duration: 1420, SourceURL: "https://cdn.example.com/sl/1.m3u8"},
			{Number: 2, Title: "If I Had One More Chance", Duration: 1415, SourceURL: "https://cdn.example.com/sl/2.m3u8"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"action", "fantasy"}, created.Genres)

	// Declared count wins when it exceeds the supplied episode list.
	assert.Equal(t, 12, created.EpisodeCount)

	require.Len(t, created.Episodes, 2)
	assert.NotEmpty(t, created.Episodes[0].ID)
	assert.NotEqual(t, created.Episodes[0].ID, created.Episodes[1].ID)
}

/*
TestService_Create_EpisodeCountFloor verifies the count never undercuts the
supplied episode list.
*/
func TestService_Create_EpisodeCountFloor(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	created, err := service.Create(context.Background(), anime.CreateInput{
		Title:        "Jujutsu Kaisen",
		Status:       anime.StatusCompleted,
		EpisodeCount: 1,
		Episodes: []anime.EpisodeInput{
			{Number: 1, Title: "Ryomen Sukuna"},
			{Number: 2, Title: "For Myself"},
			{Number: 3, Title: "Girl of Steel"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.EpisodeCount)
}

/*
TestService_Create_DuplicateTitle verifies the conflict mapping.
*/
func TestService_Create_DuplicateTitle(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	_, err := service.Create(context.Background(), anime.CreateInput{Title: "Solo Leveling", Status: anime.StatusOngoing})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), anime.CreateInput{Title: "solo leveling", Status: anime.StatusOngoing})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

/*
TestService_Get verifies lookup dispatch and the not-found path.
*/
func TestService_Get(t *testing.T) {
	repo := &fakeRepository{}
	service := anime.NewService(repo)

	created, err := service.Create(context.Background(), anime.CreateInput{Title: "Solo Leveling", Status: anime.StatusOngoing})
	require.NoError(t, err)

	found, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)

	_, err = service.Get(context.Background(), "missing-id")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
