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

// FolderStore manages folder records.
type FolderStore struct {
	db *sql.DB
}

// NewFolderStore returns a new FolderStore.
func NewFolderStore(db *sql.DB) *FolderStore {
	return &FolderStore{db: db}
}

const folderColumns = `id, name, parent_id, user_id, access_type, is_public, created_at, updated_at`

func scanFolder(scanner interface{ Scan(...any) error }) (*models.Folder, error) {
	var f models.Folder
	err := scanner.Scan(
		&f.ID, &f.Name, &f.ParentID, &f.UserID, &f.AccessType,
		&f.IsPublic, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new folder and returns it.
func (s *FolderStore) Create(f *models.Folder) (*models.Folder, error) {
	row := s.db.QueryRow(`
		INSERT INTO folders (name, parent_id, user_id, access_type, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+folderColumns,
		f.Name, f.ParentID, f.UserID, f.AccessType, f.IsPublic,
	)
	result, err := scanFolder(row)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return result, nil
}

// FindByID retrieves a folder by ID. Returns nil if not found.
func (s *FolderStore) FindByID(id uuid.UUID) (*models.Folder, error) {
	row := s.db.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = $1`, id)
	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find folder by id: %w", err)
	}
	return f, nil
}

// ListChildren returns folders under a parent, or root folders when
// parentID is nil, ordered by name.
func (s *FolderStore) ListChildren(parentID *uuid.UUID) ([]models.Folder, error) {
	var rows *sql.Rows
	var err error
	if parentID == nil {
		rows, err = s.db.Query(`SELECT ` + folderColumns + ` FROM folders WHERE parent_id IS NULL ORDER BY name`)
	} else {
		rows, err = s.db.Query(`SELECT `+folderColumns+` FROM folders WHERE parent_id = $1 ORDER BY name`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var items []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// Update modifies a folder's name and visibility. Existing files keep the
// access type resolved when they were created; visibility changes here do
// not rewrite them.
func (s *FolderStore) Update(f *models.Folder) error {
	_, err := s.db.Exec(`
		UPDATE folders SET
			name = $1, access_type = $2, is_public = $3, updated_at = NOW()
		WHERE id = $4
	`, f.Name, f.AccessType, f.IsPublic, f.ID)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	return nil
}

// Delete removes a folder. Files and child folders are re-parented to
// root (ON DELETE SET NULL). Returns false if nothing was deleted.
func (s *FolderStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete folder rows: %w", err)
	}
	return n > 0, nil
}
