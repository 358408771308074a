// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package anime

import (
	"context"
	"strings"

	"github.com/hikari-tv/hikari/pkg/slice"
	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// Service implements catalog use cases on top of the [Repository].
type Service struct {
	repository Repository
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
List returns catalog entries matching the filters.

Parameters:
  - context: context.Context
  - filters: ListFilters

Returns:
  - []Anime: Matching series
  - err: Retrieval failures
*/
func (service *Service) List(context context.Context, filters ListFilters) ([]Anime, error) {
	// Genre filters are normalized to lowercase to match seeded data.
	filters.Genres = slice.Map(filters.Genres, strings.ToLower)

	return service.repository.List(context, filters)
}

/*
Get returns a single series with its episodes.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Anime: Hydrated entity
  - err: NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id string) (*Anime, error) {
	return service.repository.FindByID(context, id)
}

/*
Search returns series whose title contains the given query, case-insensitive.

Parameters:
  - context: context.Context
  - query: string

Returns:
  - []Anime: Matching series
  - err: Retrieval failures
*/
func (service *Service) Search(context context.Context, query string) ([]Anime, error) {
	return service.repository.List(context, ListFilters{Search: query})
}

// # Admin Operations

// CreateInput holds the data required to add a new series to the catalog.
type CreateInput struct {
	Title        string
	AltTitle     string
	Description  string
	CoverURL     string
	BannerURL    string
	Genres       []string
	Studio       string
	Year         int
	Status       string
	Rating       float64
	EpisodeCount int
	Episodes     []EpisodeInput
}

// EpisodeInput describes a single episode of a new series.
type EpisodeInput struct {
	Number    int
	Title     string
	Duration  int
	SourceURL string
}

/*
Create adds a new series to the catalog.

Description: Admin-only. Builds the entity graph with fresh time-sortable IDs
and persists it atomically. A duplicate title answers with Conflict.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Anime: Created entity
  - err: Conflict or persistence failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Anime, error) {
	entry := &Anime{
		ID:          uuidv7.New(),
		Title:       input.Title,
		AltTitle:    input.AltTitle,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		BannerURL:   input.BannerURL,
		Genres:      slice.Map(input.Genres, strings.ToLower),
		Studio:      input.Studio,
		Year:        input.Year,
		Status:      input.Status,
		Rating:      input.Rating,
	}

	entry.Episodes = slice.Map(input.Episodes, func(episode EpisodeInput) Episode {
		return Episode{
			ID:        uuidv7.New(),
			Number:    episode.Number,
			Title:     episode.Title,
			Duration:  episode.Duration,
			SourceURL: episode.SourceURL,
		}
	})

	// The stored count covers declared episodes even when sources arrive later.
	entry.EpisodeCount = input.EpisodeCount
	if entry.EpisodeCount < len(entry.Episodes) {
		entry.EpisodeCount = len(entry.Episodes)
	}

	if err := service.repository.Create(context, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
