// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mediapress/internal/cache"
	"mediapress/internal/lifecycle"
	"mediapress/internal/models"
	"mediapress/internal/store"
)

// Publications groups the editorial and public publication endpoints.
// responseCache may be nil; the public read path then always hits the DB.
type Publications struct {
	manager       *lifecycle.Manager
	pubs          *store.PublicationStore
	responseCache *cache.PublicationCache
}

// NewPublications creates the publication handler group.
func NewPublications(manager *lifecycle.Manager, pubs *store.PublicationStore, responseCache *cache.PublicationCache) *Publications {
	return &Publications{manager: manager, pubs: pubs, responseCache: responseCache}
}

type createPublicationRequest struct {
	Title           string      `json:"title" validate:"required,max=300"`
	Slug            string      `json:"slug" validate:"max=300"`
	Description     string      `json:"description" validate:"max=100000"`
	MetaTitle       *string     `json:"meta_title" validate:"omitempty,max=300"`
	MetaDescription *string     `json:"meta_description" validate:"omitempty,max=500"`
	CoverImage      *string     `json:"cover_image"`
	CategoryID      uuid.UUID   `json:"category_id" validate:"required"`
	PublicationDate *time.Time  `json:"publication_date"`
	HasComments     bool        `json:"has_comments"`
	IsFeatured      bool        `json:"is_featured"`
	IsLeaderboard   bool        `json:"is_leaderboard"`
	FileIDs         []uuid.UUID `json:"file_ids"`
	Tags            []string    `json:"tags" validate:"max=50,dive,max=100"`

	// Accepted and ignored: creation always starts at draft.
	Status string `json:"status"`
}

type updatePublicationRequest struct {
	Title           *string     `json:"title" validate:"omitempty,max=300"`
	Slug            *string     `json:"slug" validate:"omitempty,max=300"`
	Description     *string     `json:"description" validate:"omitempty,max=100000"`
	MetaTitle       *string     `json:"meta_title" validate:"omitempty,max=300"`
	MetaDescription *string     `json:"meta_description" validate:"omitempty,max=500"`
	CoverImage      *string     `json:"cover_image"`
	CategoryID      *uuid.UUID  `json:"category_id"`
	PublicationDate *time.Time  `json:"publication_date"`
	HasComments     *bool       `json:"has_comments"`
	IsFeatured      *bool       `json:"is_featured"`
	IsLeaderboard   *bool       `json:"is_leaderboard"`
	FileIDs         []uuid.UUID `json:"file_ids"`
	Tags            []string    `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// List returns publications filtered by moderation status
// (?status=draft|pending|approved|rejected, default pending) or, when
// ?category= is given, by category instead.
func (h *Publications) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid category id", Field: "category"})
			return
		}
		items, err := h.pubs.ListByCategory(categoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	status := models.PublicationStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "unknown status", Field: "status"})
		return
	}
	items, err := h.pubs.ListByStatus(status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single publication with tags and attachments, whatever
// its status. Editorial endpoint.
func (h *Publications) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.manager.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PublicBySlug serves the public read path: approved publications only,
// cached by slug.
func (h *Publications) PublicBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if h.responseCache != nil {
		if body, ok := h.responseCache.Get(r.Context(), slug); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	p, err := h.manager.GetApprovedBySlug(slug)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := json.Marshal(p)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.responseCache != nil {
		h.responseCache.Set(r.Context(), slug, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Create makes a new draft publication.
func (h *Publications) Create(w http.ResponseWriter, r *http.Request) {
	creator, err := requireCaller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createPublicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.manager.Create(lifecycle.CreateInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CoverImage:      req.CoverImage,
		CategoryID:      req.CategoryID,
		CreatorID:       creator,
		PublicationDate: req.PublicationDate,
		HasComments:     req.HasComments,
		IsFeatured:      req.IsFeatured,
		IsLeaderboard:   req.IsLeaderboard,
		FileIDs:         req.FileIDs,
		Tags:            req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update applies a partial edit and invalidates the cached response.
func (h *Publications) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updatePublicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	before, err := h.manager.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.manager.Update(id, lifecycle.UpdateInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CoverImage:      req.CoverImage,
		CategoryID:      req.CategoryID,
		PublicationDate: req.PublicationDate,
		HasComments:     req.HasComments,
		IsFeatured:      req.IsFeatured,
		IsLeaderboard:   req.IsLeaderboard,
		FileIDs:         req.FileIDs,
		Tags:            req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r, before.Slug, p.Slug)
	writeJSON(w, http.StatusOK, p)
}

// SubmitForReview moves a draft into the moderation queue.
func (h *Publications) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id uuid.UUID) (*models.Publication, error) {
		return h.manager.SubmitForReview(id)
	})
}

// Approve publishes a pending publication, recording the approver.
func (h *Publications) Approve(w http.ResponseWriter, r *http.Request) {
	approver, err := requireCaller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id uuid.UUID) (*models.Publication, error) {
		return h.manager.Approve(id, approver)
	})
}

// Reject declines a pending publication with a mandatory reason.
func (h *Publications) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id uuid.UUID) (*models.Publication, error) {
		return h.manager.Reject(id, req.Reason)
	})
}

// Unpublish sends an approved or rejected publication back to draft.
func (h *Publications) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id uuid.UUID) (*models.Publication, error) {
		return h.manager.Unpublish(id)
	})
}

// Delete removes a publication and its join rows.
func (h *Publications) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.manager.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.manager.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(r, p.Slug, "")
	w.WriteHeader(http.StatusNoContent)
}

// transition runs a status-changing action and invalidates the cache,
// since visibility may flip either way.
func (h *Publications) transition(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID) (*models.Publication, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := fn(id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(r, p.Slug, "")
	writeJSON(w, http.StatusOK, p)
}

func (h *Publications) invalidate(r *http.Request, slugs ...string) {
	if h.responseCache == nil {
		return
	}
	seen := map[string]bool{}
	for _, s := range slugs {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		h.responseCache.Invalidate(r.Context(), s)
	}
}
