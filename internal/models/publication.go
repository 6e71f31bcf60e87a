// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PublicationStatus represents the moderation state of a publication.
type PublicationStatus string

const (
	StatusDraft    PublicationStatus = "draft"
	StatusPending  PublicationStatus = "pending"
	StatusApproved PublicationStatus = "approved"
	StatusRejected PublicationStatus = "rejected"
)

// Valid reports whether s is one of the four known moderation states.
func (s PublicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Publication is a categorized content item moving through the moderation
// workflow. The counters (Views, UniqueHits, LikesCount, CommentsCount)
// are denormalized mirrors of the engagement tables and are maintained
// incrementally, never recomputed on read.
type Publication struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	MetaTitle       *string           `json:"meta_title,omitempty"`
	MetaDescription *string           `json:"meta_description,omitempty"`
	CoverImage      *string           `json:"cover_image,omitempty"`
	CategoryID      uuid.UUID         `json:"category_id"`
	CreatorID       uuid.UUID         `json:"creator_id"`
	ApprovedBy      *uuid.UUID        `json:"approved_by,omitempty"`
	Status          PublicationStatus `json:"status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	PublicationDate *time.Time        `json:"publication_date,omitempty"`
	HasComments     bool              `json:"has_comments"`
	IsFeatured      bool              `json:"is_featured"`
	IsLeaderboard   bool              `json:"is_leaderboard"`
	Views           int64             `json:"views"`
	UniqueHits      int64             `json:"unique_hits"`
	LikesCount      int64             `json:"likes_count"`
	CommentsCount   int64             `json:"comments_count"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Populated by store methods on detail fetches.
	Tags        []Tag        `json:"tags,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// IsApproved returns true if the publication passed moderation.
func (p *Publication) IsApproved() bool {
	return p.Status == StatusApproved
}

// Attachment is the ordered association between a publication and a file.
// Position is significant: category media policy checks inspect the first
// element, and the order must survive storage round-trips as submitted.
type Attachment struct {
	ID            uuid.UUID `json:"id"`
	PublicationID uuid.UUID `json:"publication_id"`
	FileID        uuid.UUID `json:"file_id"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`

	// Virtual, joined from the files table.
	MimeType string `json:"mime_type,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}
