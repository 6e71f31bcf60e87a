// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package files is the media library: folders, uploads, and download
// URLs. A file's effective access level is fixed at upload time from the
// caller's request and the parent folder's public flag; it is metadata
// in PostgreSQL plus an object in S3-compatible storage.
package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"mediapress/internal/access"
	"mediapress/internal/apperr"
	"mediapress/internal/models"
	"mediapress/internal/storage"
	"mediapress/internal/store"
)

// MaxUploadSize caps a single upload at 512 MiB, large enough for
// long-form video while keeping memory use bounded by streaming.
const MaxUploadSize = 512 << 20

// Service coordinates file metadata, folder structure, and object
// storage. The storage client may be nil; uploads then keep metadata
// only, which is how local development runs.
type Service struct {
	files   *store.FileStore
	folders *store.FolderStore
	objects *storage.Client
}

// NewService creates a file service. objects may be nil when no object
// storage is configured.
func NewService(files *store.FileStore, folders *store.FolderStore, objects *storage.Client) *Service {
	return &Service{files: files, folders: folders, objects: objects}
}

// UploadInput carries one file upload. AccessType is a request, not a
// guarantee: the parent folder's public flag can override it.
type UploadInput struct {
	OriginalName string
	Content      io.Reader
	Size         int64
	FolderID     *uuid.UUID
	UserID       *uuid.UUID
	AccessType   models.AccessType
}

// Upload sniffs the content type, resolves the effective access level
// from the parent folder, stores the object, and records the metadata
// row. The MIME type is detected from the bytes, never trusted from the
// client.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.File, error) {
	if strings.TrimSpace(in.OriginalName) == "" {
		return nil, apperr.Validationf("originalName", "file name is required")
	}
	if in.Size <= 0 {
		return nil, apperr.Validationf("file", "file is empty")
	}
	if in.Size > MaxUploadSize {
		return nil, apperr.Validationf("file", "file exceeds the %d MiB upload limit", MaxUploadSize>>20)
	}
	if in.AccessType != "" && !in.AccessType.Valid() {
		return nil, apperr.Validationf("accessType", "access type must be private or public")
	}

	var parent *models.Folder
	if in.FolderID != nil {
		var err error
		parent, err = s.folders.FindByID(*in.FolderID)
		if err != nil {
			return nil, fmt.Errorf("find folder: %w", err)
		}
		if parent == nil {
			return nil, apperr.Validationf("folderId", "folder %s does not exist", *in.FolderID)
		}
	}
	effective := access.Effective(in.AccessType, parent)

	data, err := io.ReadAll(io.LimitReader(in.Content, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, apperr.Validationf("file", "file exceeds the %d MiB upload limit", MaxUploadSize>>20)
	}
	mime := mimetype.Detect(data)

	filename := uuid.NewString() + strings.ToLower(path.Ext(in.OriginalName))
	key := "uploads/" + filename

	if s.objects != nil {
		if err := s.objects.Upload(ctx, effective, key, mime.String(), bytes.NewReader(data), int64(len(data))); err != nil {
			return nil, apperr.Storage("upload object", err)
		}
	}

	f := &models.File{
		Filename:     filename,
		OriginalName: in.OriginalName,
		FilePath:     key,
		FileSize:     int64(len(data)),
		MimeType:     mime.String(),
		FolderID:     in.FolderID,
		UserID:       in.UserID,
		AccessType:   effective,
	}
	created, err := s.files.Create(f)
	if err != nil {
		// Metadata failed after the object went up; orphaned objects are
		// cheap and swept by a bucket lifecycle rule.
		if s.objects != nil {
			if delErr := s.objects.Delete(ctx, effective, key); delErr != nil {
				slog.Warn("orphaned object after failed metadata insert",
					"key", key, "error", delErr)
			}
		}
		return nil, err
	}
	return created, nil
}

// Get returns a file's metadata.
func (s *Service) Get(id uuid.UUID) (*models.File, error) {
	f, err := s.files.FindByID(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound("file")
	}
	return f, nil
}

// List returns the files in a folder; nil means the root.
func (s *Service) List(folderID *uuid.UUID) ([]models.File, error) {
	return s.files.ListByFolder(folderID)
}

// DownloadURL returns a URL the caller can fetch the file's bytes from:
// a direct URL for public files, a short-lived pre-signed URL for
// private ones. Fails when no object storage is configured.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	f, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if s.objects == nil {
		return "", apperr.Storage("download url", fmt.Errorf("object storage not configured"))
	}
	if f.AccessType == models.AccessPublic {
		return s.objects.FileURL(f.FilePath), nil
	}
	return s.objects.PresignedURL(ctx, f.FilePath, storage.DefaultPresignTTL)
}

// Content fetches the file's bytes from object storage. Used to proxy
// private files through the API when handing out pre-signed URLs is not
// wanted.
func (s *Service) Content(ctx context.Context, id uuid.UUID) ([]byte, *models.File, error) {
	f, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if s.objects == nil {
		return nil, nil, apperr.Storage("download", fmt.Errorf("object storage not configured"))
	}
	data, err := s.objects.Download(ctx, f.AccessType, f.FilePath)
	if err != nil {
		return nil, nil, apperr.Storage("download", err)
	}
	return data, f, nil
}

// Delete removes the metadata row and the stored object. Attachment join
// rows referencing the file block deletion at the schema level; the
// caller sees that as a validation error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.files.FindByID(id)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.NotFound("file")
	}

	deleted, err := s.files.Delete(id)
	if apperr.IsForeignKeyViolation(err) {
		return apperr.Validationf("", "file is attached to one or more publications")
	}
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("file")
	}

	if s.objects != nil {
		if err := s.objects.Delete(ctx, f.AccessType, f.FilePath); err != nil {
			slog.Warn("object delete failed after metadata delete",
				"key", f.FilePath, "error", err)
		}
	}
	return nil
}

// CreateFolder creates a folder. The folder's own access type is
// advisory for the UI; the IsPublic flag is what file uploads inherit
// from.
func (s *Service) CreateFolder(name string, parentID, userID *uuid.UUID, accessType models.AccessType, isPublic bool) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("name", "folder name is required")
	}
	if accessType == "" {
		accessType = models.AccessPrivate
	}
	if !accessType.Valid() {
		return nil, apperr.Validationf("accessType", "access type must be private or public")
	}
	if parentID != nil {
		parent, err := s.folders.FindByID(*parentID)
		if err != nil {
			return nil, fmt.Errorf("find parent folder: %w", err)
		}
		if parent == nil {
			return nil, apperr.Validationf("parentId", "folder %s does not exist", *parentID)
		}
	}
	return s.folders.Create(&models.Folder{
		Name:       name,
		ParentID:   parentID,
		UserID:     userID,
		AccessType: accessType,
		IsPublic:   isPublic,
	})
}

// GetFolder returns a folder with its immediate children and files.
func (s *Service) GetFolder(id uuid.UUID) (*models.Folder, []models.Folder, []models.File, error) {
	f, err := s.folders.FindByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if f == nil {
		return nil, nil, nil, apperr.NotFound("folder")
	}
	children, err := s.folders.ListChildren(&id)
	if err != nil {
		return nil, nil, nil, err
	}
	contents, err := s.files.ListByFolder(&id)
	if err != nil {
		return nil, nil, nil, err
	}
	return f, children, contents, nil
}

// ListRoot returns top-level folders and root files.
func (s *Service) ListRoot() ([]models.Folder, []models.File, error) {
	folders, err := s.folders.ListChildren(nil)
	if err != nil {
		return nil, nil, err
	}
	rootFiles, err := s.files.ListByFolder(nil)
	if err != nil {
		return nil, nil, err
	}
	return folders, rootFiles, nil
}

// UpdateFolder renames a folder or changes its access flags. Changing
// IsPublic does not touch existing files; inheritance is copy-on-create.
func (s *Service) UpdateFolder(f *models.Folder) (*models.Folder, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.Validationf("name", "folder name is required")
	}
	if !f.AccessType.Valid() {
		return nil, apperr.Validationf("accessType", "access type must be private or public")
	}
	existing, err := s.folders.FindByID(f.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("folder")
	}
	if err := s.folders.Update(f); err != nil {
		return nil, err
	}
	return s.folders.FindByID(f.ID)
}

// DeleteFolder removes a folder. Its files and child folders are
// re-parented to the root at the schema level, never deleted.
func (s *Service) DeleteFolder(id uuid.UUID) error {
	deleted, err := s.folders.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("folder")
	}
	return nil
}
