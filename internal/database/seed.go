// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: an editor
// account for foreign keys and a starter category set, including the
// media-affine Audio and Videos categories used by attachment policy.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO users (email, display_name)
		VALUES ($1, $2)
	`, "editor@mediapress.local", "Editor")
	if err != nil {
		return fmt.Errorf("seed insert editor: %w", err)
	}

	categories := []struct {
		name, slug, description string
		showOnMenu              bool
		menuOrder               int
	}{
		{"News", "news", "General news publications", true, 0},
		{"Videos", "videos", "Video publications", true, 1},
		{"Audio", "audio", "Audio publications and podcasts", true, 2},
	}
	for _, c := range categories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description, show_on_menu, menu_order)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.description, c.showOnMenu, c.menuOrder)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded with editor user and starter categories")
	return nil
}
