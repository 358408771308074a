// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hikari-tv/hikari/internal/platform/middleware"
	"github.com/hikari-tv/hikari/internal/platform/respond"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/pkg/pagination"
)

// Handler exposes the admin-facing activity listing.
type Handler struct {
	repository Repository
}

// NewHandler constructs a new [Handler].
func NewHandler(repository Repository) *Handler {
	return &Handler{repository: repository}
}

// Routes returns a [chi.Router] for the activity endpoints. All routes are
// admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
	})

	return router
}

/*
List returns activity entries newest first.

GET /api/v1/activities?user_id=&page=&limit=

Description: Admin view over the append-only activity log, optionally
filtered by user.

Response:
  - 200: Paginated []Entry
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	userID := request.URL.Query().Get("user_id")

	entries, total, err := handler.repository.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if entries == nil {
		entries = []Entry{}
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}
