// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mediapress/internal/models"
)

func TestPublicationCreateRequiresIdentity(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)

	req := httptest.NewRequest(http.MethodPost, "/api/publications", strings.NewReader(`{"title":"X"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestPublicationModerationFlow(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)
	creator := testUser(t, db)
	approver := testUser(t, db)
	videosID := testCategory(t, db, "Videos")
	imageID := testFile(t, db, "image/png")
	videoID := testFile(t, db, "video/mp4")

	slug := "clip-" + uuid.NewString()[:8]
	body, _ := json.Marshal(map[string]any{
		"title":       "Clip of the Day",
		"slug":        slug,
		"category_id": videosID,
		"file_ids":    []uuid.UUID{imageID},
		"status":      "approved", // ignored: creation floors to draft
	})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/publications", bytes.NewReader(body)), creator)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}

	var created models.Publication
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM publications WHERE id = $1", created.ID) })
	if created.Status != models.StatusDraft {
		t.Errorf("created status = %s, want draft", created.Status)
	}

	// Draft is not publicly visible.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/"+slug, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("public draft read: status = %d, want 404", w.Code)
	}

	// Submit fails the video policy while the first attachment is an image.
	submitPath := fmt.Sprintf("/api/publications/%s/submit", created.ID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, submitPath, nil), creator))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("submit with image: status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "video") {
		t.Errorf("policy violation should mention video, got %s", w.Body.String())
	}

	// Replace the attachment order so the video comes first.
	patch, _ := json.Marshal(map[string]any{"file_ids": []uuid.UUID{videoID, imageID}})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPatch, "/api/publications/"+created.ID.String(), bytes.NewReader(patch)), creator))
	if w.Code != http.StatusOK {
		t.Fatalf("update attachments: status = %d, body %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, submitPath, nil), creator))
	if w.Code != http.StatusOK {
		t.Fatalf("submit after fix: status = %d, body %s", w.Code, w.Body.String())
	}

	// Approve and verify the public read path opens up.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/publications/%s/approve", created.ID), nil), approver))
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d, body %s", w.Code, w.Body.String())
	}
	var approved models.Publication
	if err := json.NewDecoder(w.Body).Decode(&approved); err != nil {
		t.Fatalf("decode approved: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("approved status = %s", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != approver {
		t.Errorf("approved_by = %v, want %s", approved.ApprovedBy, approver)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/"+slug, nil))
	if w.Code != http.StatusOK {
		t.Errorf("public approved read: status = %d", w.Code)
	}
}

func TestPublicationRejectNeedsReason(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)
	creator := testUser(t, db)
	catID := testCategory(t, db, "News")

	body, _ := json.Marshal(map[string]any{
		"title":       "Needs Work",
		"slug":        "needs-work-" + uuid.NewString()[:8],
		"category_id": catID,
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, "/api/publications", bytes.NewReader(body)), creator))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", w.Code)
	}
	var created models.Publication
	json.NewDecoder(w.Body).Decode(&created)
	t.Cleanup(func() { db.Exec("DELETE FROM publications WHERE id = $1", created.ID) })

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/publications/%s/submit", created.ID), nil), creator))
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status = %d", w.Code)
	}

	rejectPath := fmt.Sprintf("/api/publications/%s/reject", created.ID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, rejectPath, strings.NewReader(`{"reason":""}`)), creator))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank reason: status = %d, want 422", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, rejectPath, strings.NewReader(`{"reason":"thin sourcing"}`)), creator))
	if w.Code != http.StatusOK {
		t.Fatalf("reject: status = %d, body %s", w.Code, w.Body.String())
	}
	var rejected models.Publication
	json.NewDecoder(w.Body).Decode(&rejected)
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "thin sourcing" {
		t.Errorf("rejection_reason = %v", rejected.RejectionReason)
	}
}

func TestPublicationListFiltersByStatus(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/publications?status=bogus", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bogus status: got %d, want 422", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/publications?status=draft", nil))
	if w.Code != http.StatusOK {
		t.Errorf("draft list: got %d, want 200", w.Code)
	}
}
