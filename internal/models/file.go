// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccessType controls whether a file is served from the public or the
// private bucket.
type AccessType string

const (
	AccessPrivate AccessType = "private"
	AccessPublic  AccessType = "public"
)

// Valid reports whether a is a known access type.
func (a AccessType) Valid() bool {
	return a == AccessPrivate || a == AccessPublic
}

// File is an uploaded object. Metadata lives in PostgreSQL; the bytes live
// in S3-compatible storage. Files are independent of publications and are
// never deleted by a publication cascade.
type File struct {
	ID            uuid.UUID  `json:"id"`
	Filename      string     `json:"filename"`
	OriginalName  string     `json:"original_name"`
	FilePath      string     `json:"file_path"`
	ThumbnailPath *string    `json:"thumbnail_path,omitempty"`
	FileSize      int64      `json:"file_size"`
	MimeType      string     `json:"mime_type"`
	FolderID      *uuid.UUID `json:"folder_id,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	AccessType    AccessType `json:"access_type"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsAudio returns true for audio MIME types.
func (f *File) IsAudio() bool {
	return strings.HasPrefix(f.MimeType, "audio/")
}

// IsVideo returns true for video MIME types.
func (f *File) IsVideo() bool {
	return strings.HasPrefix(f.MimeType, "video/")
}

// HumanSize returns a human-readable file size string.
func (f *File) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case f.FileSize >= mb:
		return fmt.Sprintf("%.1f MB", float64(f.FileSize)/float64(mb))
	case f.FileSize >= kb:
		return fmt.Sprintf("%.0f KB", float64(f.FileSize)/float64(kb))
	default:
		return fmt.Sprintf("%d B", f.FileSize)
	}
}

// Folder groups files. IsPublic is authoritative for access inheritance:
// files created inside a public folder are forced public at creation time.
type Folder struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	AccessType AccessType `json:"access_type"`
	IsPublic   bool       `json:"is_public"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
