// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package anime

import "context"

// ListFilters narrows a catalog listing. Zero values match everything.
type ListFilters struct {
	// Search matches the title or alternative title, case-insensitive substring.
	Search string
	// Genres matches series tagged with ANY of the given genres.
	Genres []string
	// Status matches a single series status.
	Status string
}

// Repository defines the data access contract for the anime catalog.
type Repository interface {

	/*
		List returns catalog entries matching the filters, newest first.
		Episodes are not hydrated by List.

		Parameters:
		  - context: context.Context
		  - filters: ListFilters

		Returns:
		  - []Anime: Matching series
		  - error: Retrieval failures
	*/
	List(context context.Context, filters ListFilters) ([]Anime, error)

	/*
		FindByID returns a single series with its episode list hydrated.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Anime: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Anime, error)

	/*
		Create persists a new series and its episodes.

		Parameters:
		  - context: context.Context
		  - anime: *Anime

		Returns:
		  - error: apperr.Conflict on duplicate identity or persistence failures
	*/
	Create(context context.Context, anime *Anime) error

	/*
		Count returns the total number of series in the catalog.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Row count
		  - error: Retrieval failures
	*/
	Count(context context.Context) (int, error)
}
