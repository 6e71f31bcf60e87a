// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mediapress/internal/models"
)

// TagStore manages tags and the publication-tag join table.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, created_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindBySlug retrieves a tag by its slug. Returns nil if not found.
func (s *TagStore) FindBySlug(slug string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, slug)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// FindBySlugs returns all tags whose slug is in the given set, in one
// batch query.
func (s *TagStore) FindBySlugs(slugs []string) ([]models.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+tagColumns+` FROM tags WHERE slug = ANY($1)`, slugs)
	if err != nil {
		return nil, fmt.Errorf("find tags by slugs: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Create inserts a new tag. A unique-violation on the slug is returned
// unwrapped enough for the resolver to detect and recover from the
// concurrent-create race.
func (s *TagStore) Create(name, slug string) (*models.Tag, error) {
	row := s.db.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		RETURNING `+tagColumns,
		name, slug,
	)
	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// ReplaceForPublication wholesale-replaces a publication's tag
// associations: delete all, then insert one row per tag id, in one
// transaction. An empty list simply clears the associations.
func (s *TagStore) ReplaceForPublication(publicationID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM publication_tags WHERE publication_id = $1`, publicationID); err != nil {
		return fmt.Errorf("clear publication tags: %w", err)
	}
	if err := insertTags(tx, publicationID, tagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns all tags ordered by name.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT ` + tagColumns + ` FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}
