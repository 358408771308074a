// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package anime

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hikari-tv/hikari/internal/platform/middleware"
	requestutil "github.com/hikari-tv/hikari/internal/platform/request"
	"github.com/hikari-tv/hikari/internal/platform/respond"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/internal/platform/validate"
	"github.com/hikari-tv/hikari/pkg/query"
)

// Handler implements catalog-related HTTP endpoints.
type Handler struct {
	animeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{animeService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET  /           : Lists the catalog with optional filters.
//   - GET  /search     : Title substring search.
//   - GET  /{animeID}  : Fetches one series with episodes.
//   - POST /           : Adds a series (admin only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/search", handler.search)
	router.Get("/{animeID}", handler.get)

	// Admin endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
	})

	return router
}

// # Request Payloads

type createAnimeRequest struct {
	Title        string               `json:"title"`
	AltTitle     string               `json:"alt_title"`
	Description  string               `json:"description"`
	CoverURL     string               `json:"cover_url"`
	BannerURL    string               `json:"banner_url"`
	Genres       []string             `json:"genres"`
	Studio       string               `json:"studio"`
	Year         int                  `json:"year"`
	Status       string               `json:"status"`
	Rating       float64              `json:"rating"`
	EpisodeCount int                  `json:"episode_count"`
	Episodes     []createEpisodeInput `json:"episodes"`
}

type createEpisodeInput struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	SourceURL string `json:"source_url"`
}

/*
List returns the catalog, optionally filtered.

GET /api/v1/anime?q=&genres=action,drama&status=ongoing

Response:
  - 200: []Anime: Matching series
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	queryValues := request.URL.Query()

	filters := ListFilters{
		Search: queryValues.Get(FieldSearch),
		Genres: query.StringSlice(queryValues.Get(FieldGenres)),
		Status: queryValues.Get(FieldStatus),
	}

	entries, err := handler.animeService.List(request.Context(), filters)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []Anime{}
	}

	respond.OK(writer, entries)
}

/*
Search returns series whose title contains the query string.

GET /api/v1/anime/search?q=naruto

Response:
  - 200: []Anime: Matching series
  - 400: ErrValidation: Missing query
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	searchQuery := request.URL.Query().Get(FieldSearch)

	v := &validate.Validator{}
	v.Required(FieldSearch, searchQuery)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.animeService.Search(request.Context(), searchQuery)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []Anime{}
	}

	respond.OK(writer, entries)
}

/*
Get fetches one series with its episode list.

GET /api/v1/anime/{animeID}

Response:
  - 200: Anime: Hydrated series
  - 404: ErrNotFound: Unknown ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	animeID := requestutil.Param(request, "animeID")

	v := &validate.Validator{}
	v.UUID("anime_id", animeID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.animeService.Get(request.Context(), animeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
Create adds a new series to the catalog.

POST /api/v1/anime

Description: Admin only. A duplicate title answers 409.

Request:
  - Body: createAnimeRequest

Response:
  - 201: Anime: Created series
  - 403: ErrForbidden: Caller is not an admin
  - 409: ErrConflict: Title already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createAnimeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Status == "" {
		input.Status = StatusOngoing
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 255).
		OneOf(FieldStatus, input.Status, Statuses...).
		Custom(FieldRating, input.Rating < 0 || input.Rating > 10, "Must be between 0 and 10")
	if input.Year != 0 {
		v.Range(FieldYear, input.Year, 1950, 2100)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodes := make([]EpisodeInput, 0, len(input.Episodes))
	for _, episode := range input.Episodes {
		episodes = append(episodes, EpisodeInput{
			Number:    episode.Number,
			Title:     episode.Title,
			Duration:  episode.Duration,
			SourceURL: episode.SourceURL,
		})
	}

	entry, err := handler.animeService.Create(request.Context(), CreateInput{
		Title:        input.Title,
		AltTitle:     input.AltTitle,
		Description:  input.Description,
		CoverURL:     input.CoverURL,
		BannerURL:    input.BannerURL,
		Genres:       input.Genres,
		Studio:       input.Studio,
		Year:         input.Year,
		Status:       input.Status,
		Rating:       input.Rating,
		EpisodeCount: input.EpisodeCount,
		Episodes:     episodes,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}
