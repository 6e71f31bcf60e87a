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

// FileStore handles file metadata records. The bytes live in object
// storage; only metadata is kept here.
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a new FileStore with the given database connection.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

const fileColumns = `id, filename, original_name, file_path, thumbnail_path,
	file_size, mime_type, folder_id, user_id, access_type, created_at, updated_at`

func scanFile(scanner interface{ Scan(...any) error }) (*models.File, error) {
	var f models.File
	err := scanner.Scan(
		&f.ID, &f.Filename, &f.OriginalName, &f.FilePath, &f.ThumbnailPath,
		&f.FileSize, &f.MimeType, &f.FolderID, &f.UserID, &f.AccessType,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new file record and returns it with the generated ID.
func (s *FileStore) Create(f *models.File) (*models.File, error) {
	row := s.db.QueryRow(`
		INSERT INTO files (filename, original_name, file_path, thumbnail_path,
			file_size, mime_type, folder_id, user_id, access_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+fileColumns,
		f.Filename, f.OriginalName, f.FilePath, f.ThumbnailPath,
		f.FileSize, f.MimeType, f.FolderID, f.UserID, f.AccessType,
	)
	result, err := scanFile(row)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return result, nil
}

// FindByID retrieves a file by its UUID. Returns nil if not found.
func (s *FileStore) FindByID(id uuid.UUID) (*models.File, error) {
	row := s.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return f, nil
}

// FindByIDs returns files for the given ids, in the order the ids were
// supplied. Attachment policy checks depend on that order. Returns an
// error naming the first missing id.
func (s *FileStore) FindByIDs(ids []uuid.UUID) ([]models.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+fileColumns+` FROM files WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find files by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.File, len(ids))
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		byID[f.ID] = *f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ordered := make([]models.File, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("file %s: %w", id, sql.ErrNoRows)
		}
		ordered = append(ordered, f)
	}
	return ordered, nil
}

// ListByFolder returns files in a folder, or root files when folderID is
// nil, newest first.
func (s *FileStore) ListByFolder(folderID *uuid.UUID) ([]models.File, error) {
	var rows *sql.Rows
	var err error
	if folderID == nil {
		rows, err = s.db.Query(`SELECT ` + fileColumns + ` FROM files WHERE folder_id IS NULL ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+fileColumns+` FROM files WHERE folder_id = $1 ORDER BY created_at DESC`, *folderID)
	}
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var items []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// Delete removes a file record by ID. Returns false if nothing was
// deleted. Fails with an FK violation while the file is still attached
// to a publication.
func (s *FileStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete file rows: %w", err)
	}
	return n > 0, nil
}
