// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediapress/internal/apperr"
	"mediapress/internal/models"
	"mediapress/internal/policy"
	"mediapress/internal/slug"
	"mediapress/internal/store"
	"mediapress/internal/tags"
)

// Manager orchestrates publication writes: field validation, tag
// resolution, the category media policy, and the moderation state
// machine. All mutations to a publication's record and its join tables
// go through here.
type Manager struct {
	pubs     *store.PublicationStore
	files    *store.FileStore
	cats     *store.CategoryStore
	resolver *tags.Resolver
}

// NewManager creates a Manager from its store collaborators.
func NewManager(pubs *store.PublicationStore, files *store.FileStore, cats *store.CategoryStore, resolver *tags.Resolver) *Manager {
	return &Manager{pubs: pubs, files: files, cats: cats, resolver: resolver}
}

// CreateInput carries the fields accepted when creating a publication.
// Status is deliberately absent: new publications always start as
// drafts, whatever the caller asked for.
type CreateInput struct {
	Title           string
	Slug            string
	Description     string
	MetaTitle       *string
	MetaDescription *string
	CoverImage      *string
	CategoryID      uuid.UUID
	CreatorID       uuid.UUID
	PublicationDate *time.Time
	HasComments     bool
	IsFeatured      bool
	IsLeaderboard   bool
	FileIDs         []uuid.UUID
	Tags            []string
}

// UpdateInput supports partial replacement: nil pointer fields are left
// untouched. FileIDs and Tags replace their join sets wholesale when
// non-nil; an empty non-nil slice clears the set.
type UpdateInput struct {
	Title           *string
	Slug            *string
	Description     *string
	MetaTitle       *string
	MetaDescription *string
	CoverImage      *string
	CategoryID      *uuid.UUID
	PublicationDate *time.Time
	HasComments     *bool
	IsFeatured      *bool
	IsLeaderboard   *bool
	FileIDs         []uuid.UUID
	Tags            []string
}

// Create validates the input, resolves tags, and persists the
// publication with its attachment and tag joins in one transaction. The
// media policy is not consulted here: drafts are never publicly visible,
// and the check gates SubmitForReview instead.
func (m *Manager) Create(in CreateInput) (*models.Publication, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validationf("title", "title is required")
	}
	if in.CategoryID == uuid.Nil {
		return nil, apperr.Validationf("categoryId", "category is required")
	}
	if in.CreatorID == uuid.Nil {
		return nil, apperr.Validationf("creatorId", "creator is required")
	}

	slugValue := slug.Normalize(in.Slug)
	if slugValue == "" {
		slugValue = slug.Normalize(title)
	}
	if slugValue == "" {
		return nil, apperr.Validationf("slug", "slug is required")
	}
	taken, err := m.pubs.SlugExists(slugValue, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, apperr.Validationf("slug", "slug %q is already in use", slugValue)
	}

	category, err := m.cats.FindByID(in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, apperr.Validationf("categoryId", "category %s does not exist", in.CategoryID)
	}

	fileIDs := dedupIDs(in.FileIDs)
	if _, err := m.loadFiles(fileIDs); err != nil {
		return nil, err
	}

	resolved, err := m.resolver.Resolve(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	p := &models.Publication{
		Title:           title,
		Slug:            slugValue,
		Description:     in.Description,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		CoverImage:      in.CoverImage,
		CategoryID:      in.CategoryID,
		CreatorID:       in.CreatorID,
		Status:          models.StatusDraft,
		PublicationDate: in.PublicationDate,
		HasComments:     in.HasComments,
		IsFeatured:      in.IsFeatured,
		IsLeaderboard:   in.IsLeaderboard,
	}

	created, err := m.pubs.Create(p, fileIDs, tagIDs(resolved))
	if apperr.IsUniqueViolation(err, "publications_slug_key") {
		return nil, apperr.Validationf("slug", "slug %q is already in use", slugValue)
	}
	if err != nil {
		return nil, err
	}
	return m.hydrate(created)
}

// Update applies a partial field replacement. When the category or the
// attachment set changes on a publication that already left draft, the
// media policy is re-evaluated against the resulting combination before
// anything is committed.
func (m *Manager) Update(id uuid.UUID, in UpdateInput) (*models.Publication, error) {
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validationf("title", "title is required")
		}
		p.Title = title
	}
	if in.Slug != nil {
		slugValue := slug.Normalize(*in.Slug)
		if slugValue == "" {
			return nil, apperr.Validationf("slug", "slug is required")
		}
		taken, err := m.pubs.SlugExists(slugValue, id)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return nil, apperr.Validationf("slug", "slug %q is already in use", slugValue)
		}
		p.Slug = slugValue
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.MetaTitle != nil {
		p.MetaTitle = in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = in.MetaDescription
	}
	if in.CoverImage != nil {
		p.CoverImage = in.CoverImage
	}
	if in.PublicationDate != nil {
		p.PublicationDate = in.PublicationDate
	}
	if in.HasComments != nil {
		p.HasComments = *in.HasComments
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsLeaderboard != nil {
		p.IsLeaderboard = *in.IsLeaderboard
	}

	categoryChanged := in.CategoryID != nil && *in.CategoryID != p.CategoryID
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	category, err := m.cats.FindByID(p.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, apperr.Validationf("categoryId", "category %s does not exist", p.CategoryID)
	}

	replaceAttachments := in.FileIDs != nil
	fileIDs := dedupIDs(in.FileIDs)
	var attachments []models.Attachment
	if replaceAttachments {
		attachments, err = m.loadFiles(fileIDs)
		if err != nil {
			return nil, err
		}
	} else {
		attachments, err = m.pubs.Attachments(id)
		if err != nil {
			return nil, err
		}
	}

	if (categoryChanged || replaceAttachments) && p.Status != models.StatusDraft {
		if v := policy.Evaluate(category, attachments); v != nil {
			return nil, apperr.Validationf("attachments", "%s", v.Reason)
		}
	}

	var ids []uuid.UUID
	replaceTags := in.Tags != nil
	if replaceTags {
		resolved, err := m.resolver.Resolve(in.Tags)
		if err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
		ids = tagIDs(resolved)
	}

	updated, err := m.pubs.Update(p, fileIDs, replaceAttachments, ids, replaceTags)
	if apperr.IsUniqueViolation(err, "publications_slug_key") {
		return nil, apperr.Validationf("slug", "slug %q is already in use", p.Slug)
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("publication")
	}
	return m.hydrate(updated)
}

// SubmitForReview moves a draft into the moderation queue. The category
// media policy must pass against the publication's stored category and
// attachment order as they are now, not as the client last saw them.
func (m *Manager) SubmitForReview(id uuid.UUID) (*models.Publication, error) {
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	if err := Transition(p.Status, models.StatusPending); err != nil {
		return nil, err
	}

	category, err := m.cats.FindByID(p.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, apperr.Validationf("categoryId", "category %s does not exist", p.CategoryID)
	}
	attachments, err := m.pubs.Attachments(id)
	if err != nil {
		return nil, err
	}
	if v := policy.Evaluate(category, attachments); v != nil {
		return nil, apperr.Validationf("attachments", "%s", v.Reason)
	}

	updated, err := m.pubs.UpdateStatus(id, models.StatusPending, nil, nil)
	if err != nil {
		return nil, err
	}
	return m.hydrate(updated)
}

// Approve moves a pending publication to approved, recording who
// approved it and clearing any earlier rejection reason.
func (m *Manager) Approve(id, approverID uuid.UUID) (*models.Publication, error) {
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	if err := Transition(p.Status, models.StatusApproved); err != nil {
		return nil, err
	}
	updated, err := m.pubs.UpdateStatus(id, models.StatusApproved, &approverID, nil)
	if err != nil {
		return nil, err
	}
	return m.hydrate(updated)
}

// Reject moves a pending publication to rejected. The reason is
// mandatory and stored verbatim.
func (m *Manager) Reject(id uuid.UUID, reason string) (*models.Publication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validationf("reason", "rejection reason is required")
	}
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	if err := Transition(p.Status, models.StatusRejected); err != nil {
		return nil, err
	}
	updated, err := m.pubs.UpdateStatus(id, models.StatusRejected, nil, &reason)
	if err != nil {
		return nil, err
	}
	return m.hydrate(updated)
}

// Unpublish sends an approved or rejected publication back to draft.
// Authorization is the caller's business; this only enforces the state
// machine and clears the moderation fields.
func (m *Manager) Unpublish(id uuid.UUID) (*models.Publication, error) {
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	if err := Transition(p.Status, models.StatusDraft); err != nil {
		return nil, err
	}
	updated, err := m.pubs.UpdateStatus(id, models.StatusDraft, nil, nil)
	if err != nil {
		return nil, err
	}
	return m.hydrate(updated)
}

// Delete removes the publication; its join rows cascade and referenced
// files are left alone.
func (m *Manager) Delete(id uuid.UUID) error {
	deleted, err := m.pubs.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("publication")
	}
	return nil
}

// Get returns a publication with its tags and attachments hydrated.
func (m *Manager) Get(id uuid.UUID) (*models.Publication, error) {
	p, err := m.pubs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	return m.hydrate(p)
}

// GetApprovedBySlug serves the public read path: only approved
// publications are visible by slug.
func (m *Manager) GetApprovedBySlug(s string) (*models.Publication, error) {
	p, err := m.pubs.FindApprovedBySlug(s)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("publication")
	}
	return m.hydrate(p)
}

// loadFiles resolves attachment file ids into policy-checkable
// attachments, preserving the submitted order.
func (m *Manager) loadFiles(fileIDs []uuid.UUID) ([]models.Attachment, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	files, err := m.files.FindByIDs(fileIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Validationf("attachments", "one or more attachment files do not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("load attachment files: %w", err)
	}
	attachments := make([]models.Attachment, len(files))
	for i, f := range files {
		attachments[i] = models.Attachment{
			FileID:   f.ID,
			Position: i,
			MimeType: f.MimeType,
			FilePath: f.FilePath,
		}
	}
	return attachments, nil
}

func (m *Manager) hydrate(p *models.Publication) (*models.Publication, error) {
	attachments, err := m.pubs.Attachments(p.ID)
	if err != nil {
		return nil, err
	}
	tags, err := m.pubs.Tags(p.ID)
	if err != nil {
		return nil, err
	}
	p.Attachments = attachments
	p.Tags = tags
	return p, nil
}

// dedupIDs drops repeated ids, keeping each first occurrence's position
// so attachment order survives.
func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func tagIDs(resolved []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(resolved))
	for i, t := range resolved {
		ids[i] = t.ID
	}
	return ids
}
