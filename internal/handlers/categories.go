// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"mediapress/internal/cache"
	"mediapress/internal/categories"
	"mediapress/internal/models"
)

// Categories groups the category management endpoints. Deleting or
// renaming a category can affect many cached publications, so writes
// flush the whole response cache.
type Categories struct {
	service       *categories.Service
	responseCache *cache.PublicationCache
}

// NewCategories creates the category handler group.
func NewCategories(service *categories.Service, responseCache *cache.PublicationCache) *Categories {
	return &Categories{service: service, responseCache: responseCache}
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"max=300"`
	Description string  `json:"description" validate:"max=2000"`
	CoverImage  *string `json:"cover_image"`
	ShowOnMenu  bool    `json:"show_on_menu"`
	MenuOrder   int     `json:"menu_order"`
}

type subcategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// List returns all categories with their publication counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one category with its subcategories.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create makes a new category; the slug is derived from the name.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.service.Create(&models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		ShowOnMenu:  req.ShowOnMenu,
		MenuOrder:   req.MenuOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update edits a category and flushes the response cache.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.service.Update(&models.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		ShowOnMenu:  req.ShowOnMenu,
		MenuOrder:   req.MenuOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if h.responseCache != nil {
		h.responseCache.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a category when nothing references it; the guard turns
// a referenced delete into a validation error naming the count.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	if h.responseCache != nil {
		h.responseCache.InvalidateAll(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSubcategory attaches a subcategory, creating or reusing it by slug.
func (h *Categories) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req subcategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	sc, err := h.service.AddSubcategory(id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}
