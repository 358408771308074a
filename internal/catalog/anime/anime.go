// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package anime implements the streaming catalog domain.

It owns the titles users browse and watch: series metadata, genres, and the
per-episode streaming sources. The catalog is read-mostly; only admins may
mutate it.
*/
package anime

import "time"

// # Domain Entities

// Anime represents a single series in the catalog.
type Anime struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AltTitle     string    `json:"alt_title,omitempty"`
	Description  string    `json:"description"`
	CoverURL     string    `json:"cover_url"`
	BannerURL    string    `json:"banner_url,omitempty"`
	Genres       []string  `json:"genres"`
	Studio       string    `json:"studio,omitempty"`
	Year         int       `json:"year"`
	Status       string    `json:"status"`
	Rating       float64   `json:"rating"`
	EpisodeCount int       `json:"episode_count"`
	Episodes     []Episode `json:"episodes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Episode represents one watchable episode of a series.
type Episode struct {
	ID        string    `json:"id"`
	AnimeID   string    `json:"anime_id"`
	Number    int       `json:"number"`
	Title     string    `json:"title,omitempty"`
	Duration  int       `json:"duration"` // Seconds.
	SourceURL string    `json:"source_url"`
	CreatedAt time.Time `json:"created_at"`
}

// # Series Status

const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusUpcoming  = "upcoming"
)

// Statuses lists every valid series status value.
var Statuses = []string{StatusOngoing, StatusCompleted, StatusUpcoming}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldGenres      = "genres"
	FieldYear        = "year"
	FieldStatus      = "status"
	FieldRating      = "rating"
	FieldSearch      = "q"
)
