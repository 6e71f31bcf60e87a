// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mediapress/internal/apperr"
	"mediapress/internal/store"
	"mediapress/internal/viewer"
)

// Engagement groups the public like/comment/view endpoints. Every
// mutation keeps the publication's denormalized counters in lock-step
// with the child tables; handlers return the fresh counter so clients
// never have to recompute it.
type Engagement struct {
	engagement *store.EngagementStore
	pubs       *store.PublicationStore
	viewers    *viewer.Store
}

// NewEngagement creates the engagement handler group. viewers may be
// nil; anonymous views are then counted but never deduplicated.
func NewEngagement(engagement *store.EngagementStore, pubs *store.PublicationStore, viewers *viewer.Store) *Engagement {
	return &Engagement{engagement: engagement, pubs: pubs, viewers: viewers}
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type likeResponse struct {
	LikesCount int64 `json:"likes_count"`
}

type viewResponse struct {
	Views      int64 `json:"views"`
	UniqueHits int64 `json:"unique_hits"`
}

// Like records a like. Liking twice is a no-op: the count comes back
// unchanged.
func (h *Engagement) Like(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := requireCaller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := h.engagement.AddLike(id, user)
	if apperr.IsForeignKeyViolation(err) || errors.Is(err, sql.ErrNoRows) {
		writeError(w, apperr.NotFound("publication"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{LikesCount: count})
}

// Unlike removes the caller's like; the counter never goes below zero.
func (h *Engagement) Unlike(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := requireCaller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := h.engagement.RemoveLike(id, user)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, apperr.NotFound("publication"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{LikesCount: count})
}

// Comment adds a comment when the publication allows them.
func (h *Engagement) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	author, err := requireCaller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, apperr.Validationf("content", "comment content is required"))
		return
	}

	p, err := h.pubs.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if p == nil {
		writeError(w, apperr.NotFound("publication"))
		return
	}
	if !p.HasComments {
		writeError(w, apperr.Validationf("", "comments are disabled for this publication"))
		return
	}

	comment, count, err := h.engagement.AddComment(id, author, content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"comment":        comment,
		"comments_count": count,
	})
}

// DeleteComment removes a comment and decrements the counter.
func (h *Engagement) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathUUID(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}
	deleted, err := h.engagement.RemoveComment(commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperr.NotFound("comment"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Comments lists a publication's comments, newest first.
func (h *Engagement) Comments(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.engagement.Comments(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// View records a view. Signed-in callers deduplicate by user id;
// anonymous callers by viewer token. With neither identity, the view
// bumps the total but never the unique counter.
func (h *Engagement) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var userID *uuid.UUID
	var token *string
	if caller := callerID(r); caller != uuid.Nil {
		userID = &caller
	} else if h.viewers != nil {
		t, err := h.viewers.Token(r.Context(), w, r)
		if err == nil && t != "" {
			token = &t
		}
		// Token failures degrade to an undeduplicated view.
	}

	views, uniqueHits, err := h.engagement.RecordView(id, userID, token)
	if apperr.IsForeignKeyViolation(err) || errors.Is(err, sql.ErrNoRows) {
		writeError(w, apperr.NotFound("publication"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{Views: views, UniqueHits: uniqueHits})
}
