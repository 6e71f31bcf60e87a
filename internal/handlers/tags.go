// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"mediapress/internal/store"
	"mediapress/internal/tags"
)

// Tags exposes the tag list and the resolver endpoint editors use for
// autocomplete-style "create on first use" tagging.
type Tags struct {
	store    *store.TagStore
	resolver *tags.Resolver
}

// NewTags creates the tag handler group.
func NewTags(s *store.TagStore, resolver *tags.Resolver) *Tags {
	return &Tags{store: s, resolver: resolver}
}

type resolveTagsRequest struct {
	Names []string `json:"names" validate:"required,max=50,dive,max=100"`
}

// List returns all tags ordered by name.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Resolve turns free-text names into persisted tags, creating the
// missing ones. Duplicate names collapsing to one slug yield one tag.
func (h *Tags) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	resolved, err := h.resolver.Resolve(req.Names)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
