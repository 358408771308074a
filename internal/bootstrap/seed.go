// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

/*
Package bootstrap populates an empty database with demo content.

Seeding runs once at startup when the relevant tables are empty. It exists so
a fresh development environment is immediately usable: two accounts (one
admin, one member) and a small catalog to browse.
*/
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hikari-tv/hikari/internal/catalog/anime"
	"github.com/hikari-tv/hikari/internal/platform/sec"
	"github.com/hikari-tv/hikari/internal/users/auth"
	"github.com/hikari-tv/hikari/pkg/uuidv7"
)

// Seeder wires the repositories needed to plant demo data.
type Seeder struct {
	userRepository auth.UserRepository
	animeService   *anime.Service
	animeCounter   anime.Repository
	log            *slog.Logger
}

// NewSeeder constructs a [Seeder].
func NewSeeder(userRepo auth.UserRepository, animeService *anime.Service, animeRepo anime.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{
		userRepository: userRepo,
		animeService:   animeService,
		animeCounter:   animeRepo,
		log:            logger,
	}
}

// Run seeds demo users and catalog entries if the tables are empty.
func (seeder *Seeder) Run(ctx context.Context) error {
	if err := seeder.seedUsers(ctx); err != nil {
		return fmt.Errorf("bootstrap_seed_users_failed: %w", err)
	}

	if err := seeder.seedCatalog(ctx); err != nil {
		return fmt.Errorf("bootstrap_seed_catalog_failed: %w", err)
	}

	return nil
}

type demoUser struct {
	username    string
	email       string
	password    string
	displayName string
	role        sec.UserRole
	preferences map[string]any
}

// seedUsers plants the two demo accounts when no users exist yet.
//
// Demo credentials are for local development only. Passwords go through the
// same bcrypt path as real registrations.
func (seeder *Seeder) seedUsers(ctx context.Context) error {
	count, err := seeder.userRepository.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demoUsers := []demoUser{
		{
			username:    "admin",
			email:       "admin@hikari.tv",
			password:    "admin123",
			displayName: "Hikari Admin",
			role:        sec.RoleAdmin,
			preferences: map[string]any{
				"notifications": true,
				"language":      "id",
				"quality":       "1080p",
				"autoplay":      true,
				"subtitle":      true,
			},
		},
		{
			username:    "userdemo",
			email:       "user@hikari.tv",
			password:    "user123",
			displayName: "Demo User",
			role:        sec.RoleUser,
			preferences: map[string]any{
				"notifications": true,
				"language":      "id",
				"quality":       "720p",
				"autoplay":      false,
				"subtitle":      true,
			},
		},
	}

	for _, demo := range demoUsers {
		hash, err := sec.HashPassword(demo.password)
		if err != nil {
			return err
		}

		user := &auth.User{
			ID:           uuidv7.New(),
			Username:     demo.username,
			Email:        demo.email,
			PasswordHash: hash,
			DisplayName:  demo.displayName,
			AvatarURL:    "https://api.dicebear.com/7.x/avataaars/svg?seed=" + demo.username,
			Role:         demo.role,
			IsActive:     true,
			Preferences:  demo.preferences,
		}

		if err := seeder.userRepository.Create(ctx, user); err != nil {
			return err
		}
	}

	seeder.log.Info("demo_users_seeded", "count", len(demoUsers))
	return nil
}

// seedCatalog plants two series when the catalog is empty.
func (seeder *Seeder) seedCatalog(ctx context.Context) error {
	count, err := seeder.animeCounter.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := []anime.CreateInput{
		{
			Title:        "Solo Leveling",
			AltTitle:     "Only I Level Up",
			Description:  "Sung Jin-Woo rises as the strongest hunter after the events in the double dungeon.",
			CoverURL:     "https://images.unsplash.com/photo-1639322537228-f710d846310a?w=400&h=600&fit=crop",
			BannerURL:    "https://images.unsplash.com/photo-1639322537508-6b4b5c6c5c5c?w=1200&h=400&fit=crop",
			Genres:       []string{"action", "adventure", "fantasy", "supernatural"},
			Studio:       "A-1 Pictures",
			Year:         2024,
			Status:       anime.StatusOngoing,
			Rating:       9.1,
			EpisodeCount: 12,
			Episodes:     []anime.EpisodeInput{
				{Number: 1, Title: "I'm Used to It", Duration: 1425, SourceURL: "https://bitdash-a.akamaihd.net/s/content/media/Manifest.m3u8"},
				{Number: 2, Title: "If I Had One More Chance", Duration: 1450, SourceURL: "https://bitdash-a.akamaihd.net/s/content/media/Manifest.m3u8"},
				{Number: 3, Title: "It's Like a Dream", Duration: 1410, SourceURL: "https://bitdash-a.akamaihd.net/s/content/media/Manifest.m3u8"},
			},
		},
		{
			Title:        "Jujutsu Kaisen",
			AltTitle:     "Sorcery Fight",
			Description:  "Yuji Itadori swallows a cursed finger and joins a school of jujutsu sorcerers.",
			CoverURL:     "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400&h=600&fit=crop",
			BannerURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=1200&h=400&fit=crop",
			Genres:       []string{"action", "supernatural", "horror", "school"},
			Studio:       "MAPPA",
			Year:         2023,
			Status:       anime.StatusCompleted,
			Rating:       9.0,
			EpisodeCount: 47,
			Episodes:     []anime.EpisodeInput{
				{Number: 1, Title: "Ryomen Sukuna", Duration: 1430, SourceURL: "https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8"},
				{Number: 2, Title: "For Myself", Duration: 1445, SourceURL: "https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8"},
			},
		},
	}

	for _, input := range entries {
		if _, err := seeder.animeService.Create(ctx, input); err != nil {
			return err
		}
	}

	seeder.log.Info("demo_catalog_seeded", "count", len(entries))
	return nil
}
