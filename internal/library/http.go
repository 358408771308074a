// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hikari-tv/hikari/internal/platform/middleware"
	requestutil "github.com/hikari-tv/hikari/internal/platform/request"
	"github.com/hikari-tv/hikari/internal/platform/respond"
	"github.com/hikari-tv/hikari/internal/platform/validate"
	"github.com/hikari-tv/hikari/pkg/convert"
)

// Handler implements viewing-state HTTP endpoints. Every route is gated.
type Handler struct {
	libraryService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{libraryService: service}
}

// Routes returns a [chi.Router] configured with library routes.
//
// # Endpoints
//   - GET    /history        : Watch history, newest first.
//   - PUT    /progress       : Records episode progress.
//   - GET    /favorites      : Bookmarked series.
//   - POST   /favorites      : Toggles a favorite.
//   - PUT    /pending-watch  : Stashes a watch intent.
//   - DELETE /pending-watch  : Consumes the stashed intent.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/history", handler.history)
	router.Put("/progress", handler.recordProgress)
	router.Get("/favorites", handler.favorites)
	router.Post("/favorites", handler.toggleFavorite)
	router.Put("/pending-watch", handler.stashPendingWatch)
	router.Delete("/pending-watch", handler.takePendingWatch)

	return router
}

// # Request Payloads

type progressRequest struct {
	AnimeID  string  `json:"anime_id"`
	Episode  int     `json:"episode"`
	Progress float64 `json:"progress"`
	Duration int     `json:"duration"`
}

type toggleFavoriteRequest struct {
	AnimeID string `json:"anime_id"`
}

type pendingWatchRequest struct {
	AnimeID string `json:"anime_id"`
	Episode int    `json:"episode"`
}

/*
History returns the authenticated user's watch history.

GET /api/v1/library/history?limit=20

Response:
  - 200: []WatchHistoryEntry: Newest first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := convert.ToInt(request.URL.Query().Get(FieldLimit))

	entries, err := handler.libraryService.History(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []WatchHistoryEntry{}
	}

	respond.OK(writer, entries)
}

/*
RecordProgress stores one progress report from the player.

PUT /api/v1/library/progress

Request:
  - Body: progressRequest (AnimeID, Episode, Progress, Duration)

Response:
  - 200: WatchHistoryEntry: Stored entry (completed flag computed)
  - 400: ErrValidation: Progress outside 0..100
  - 404: ErrNotFound: Unknown anime
*/
func (handler *Handler) recordProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input progressRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldAnimeID, input.AnimeID).
		UUID(FieldAnimeID, input.AnimeID).
		Custom(FieldEpisode, input.Episode < 1, "Must be positive").
		Custom(FieldProgress, input.Progress < 0 || input.Progress > 100, "Must be between 0 and 100")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.libraryService.RecordProgress(request.Context(), userID, ProgressInput{
		AnimeID:  input.AnimeID,
		Episode:  input.Episode,
		Progress: input.Progress,
		Duration: input.Duration,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
Favorites returns the authenticated user's bookmarked series.

GET /api/v1/library/favorites

Response:
  - 200: []Favorite: Newest first
*/
func (handler *Handler) favorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorites, err := handler.libraryService.Favorites(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if favorites == nil {
		favorites = []Favorite{}
	}

	respond.OK(writer, favorites)
}

/*
ToggleFavorite flips the favorite state of a series.

POST /api/v1/library/favorites

Request:
  - Body: toggleFavoriteRequest (AnimeID)

Response:
  - 200: {added: bool}: Resulting state
  - 404: ErrNotFound: Unknown anime
*/
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input toggleFavoriteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldAnimeID, input.AnimeID).UUID(FieldAnimeID, input.AnimeID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	added, err := handler.libraryService.ToggleFavorite(request.Context(), userID, input.AnimeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldAdded: added})
}

/*
StashPendingWatch remembers what the user tried to play.

PUT /api/v1/library/pending-watch

Request:
  - Body: pendingWatchRequest (AnimeID, Episode)

Response:
  - 204: No Content: Intent stashed
*/
func (handler *Handler) stashPendingWatch(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input pendingWatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldAnimeID, input.AnimeID).UUID(FieldAnimeID, input.AnimeID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.libraryService.StashPendingWatch(request.Context(), userID, PendingWatch{
		AnimeID: input.AnimeID,
		Episode: input.Episode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
TakePendingWatch consumes the stashed watch intent.

DELETE /api/v1/library/pending-watch

Description: Returns the stash and removes it in one step. A missing stash
answers 200 with a null body so the client can branch without error handling.

Response:
  - 200: PendingWatch | null: The consumed intent
*/
func (handler *Handler) takePendingWatch(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pending, err := handler.libraryService.TakePendingWatch(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pending)
}
