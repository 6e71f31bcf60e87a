// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package categories manages the category catalog and guards destructive
// operations that would orphan referencing publications.
package categories

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mediapress/internal/apperr"
	"mediapress/internal/models"
	"mediapress/internal/slug"
	"mediapress/internal/store"
)

// Service wraps the category store with naming rules and the delete guard.
type Service struct {
	store *store.CategoryStore
}

// NewService returns a category Service.
func NewService(s *store.CategoryStore) *Service {
	return &Service{store: s}
}

// List returns all categories with publication counts.
func (s *Service) List() ([]models.Category, error) {
	return s.store.List()
}

// Get returns a category by id, or NotFoundError.
func (s *Service) Get(id uuid.UUID) (*models.Category, error) {
	c, err := s.store.FindByID(id)
	if err != nil {
		return nil, apperr.Storage("find category", err)
	}
	if c == nil {
		return nil, apperr.NotFound("category")
	}
	subs, err := s.store.Subcategories(id)
	if err != nil {
		return nil, apperr.Storage("list subcategories", err)
	}
	c.Subcategories = subs
	return c, nil
}

// Create validates the name, derives the slug when absent, and inserts
// the category. Name and slug collisions surface as validation errors.
func (s *Service) Create(c *models.Category) (*models.Category, error) {
	if c.Name == "" {
		return nil, apperr.Validationf("name", "is required")
	}
	if c.Slug != "" {
		c.Slug = slug.Normalize(c.Slug)
	}
	if c.Slug == "" {
		c.Slug = slug.Normalize(c.Name)
	}
	if c.Slug == "" {
		return nil, apperr.Validationf("slug", "cannot be derived from name %q", c.Name)
	}

	created, err := s.store.Create(c)
	if err != nil {
		if apperr.IsUniqueViolation(err, "") {
			return nil, apperr.Validationf("name", "a category with this name or slug already exists")
		}
		return nil, apperr.Storage("create category", err)
	}
	return created, nil
}

// Update modifies an existing category's fields. The slug only moves
// when the caller supplies one: renaming a category must not silently
// break its public URLs.
func (s *Service) Update(c *models.Category) (*models.Category, error) {
	existing, err := s.store.FindByID(c.ID)
	if err != nil {
		return nil, apperr.Storage("find category", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("category")
	}
	if c.Name == "" {
		return nil, apperr.Validationf("name", "is required")
	}
	if c.Slug != "" {
		c.Slug = slug.Normalize(c.Slug)
	}
	if c.Slug == "" {
		c.Slug = existing.Slug
	}

	if err := s.store.Update(c); err != nil {
		if apperr.IsUniqueViolation(err, "") {
			return nil, apperr.Validationf("name", "a category with this name or slug already exists")
		}
		return nil, apperr.Storage("update category", err)
	}
	return s.store.FindByID(c.ID)
}

// Delete removes a category after the reference guard passes.
//
// The guard counts referencing publications and blocks deletion with a
// validation error naming the count. If the count query itself fails the
// guard logs and lets the deletion proceed — category management must
// not be bricked by a half-provisioned publications table. A foreign-key
// failure on the delete itself (a publication created between check and
// delete) is translated to the same user-facing validation error.
func (s *Service) Delete(id uuid.UUID) (bool, error) {
	existing, err := s.store.FindByID(id)
	if err != nil {
		return false, apperr.Storage("find category", err)
	}
	if existing == nil {
		return false, apperr.NotFound("category")
	}

	count, err := s.store.CountPublications(id)
	if err != nil {
		slog.Error("category delete guard count failed, proceeding",
			"category_id", id,
			"error", err,
		)
	} else if count > 0 {
		return false, apperr.Validationf("", "category is referenced by %d publication(s); reassign or delete them first", count)
	}

	deleted, err := s.store.Delete(id)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return false, apperr.Validationf("", "category is referenced by other records")
		}
		return false, apperr.Storage("delete category", err)
	}
	return deleted, nil
}

// AddSubcategory creates (or reuses) a subcategory by name and links it
// to the category.
func (s *Service) AddSubcategory(categoryID uuid.UUID, name string) (*models.Subcategory, error) {
	if name == "" {
		return nil, apperr.Validationf("name", "is required")
	}
	normalized := slug.Normalize(name)
	if normalized == "" {
		return nil, apperr.Validationf("name", "cannot be normalized to a slug")
	}

	sc, err := s.store.CreateSubcategory(name, normalized)
	if err != nil {
		if !apperr.IsUniqueViolation(err, "") {
			return nil, apperr.Storage("create subcategory", err)
		}
		// Already exists; link the existing row.
		subs, ferr := s.findSubcategoryBySlug(normalized)
		if ferr != nil {
			return nil, ferr
		}
		sc = subs
	}

	if err := s.store.AssignSubcategory(categoryID, sc.ID); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("category")
		}
		return nil, apperr.Storage("assign subcategory", err)
	}
	return sc, nil
}

func (s *Service) findSubcategoryBySlug(normalized string) (*models.Subcategory, error) {
	sc, err := s.store.FindSubcategoryBySlug(normalized)
	if err != nil {
		return nil, apperr.Storage("find subcategory", err)
	}
	if sc == nil {
		return nil, fmt.Errorf("subcategory %q vanished after unique violation", normalized)
	}
	return sc, nil
}
