// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups publications. A category's media affinity (audio/video)
// is derived purely from its name and slug, never stored.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"cover_image,omitempty"`
	ShowOnMenu  bool      `json:"show_on_menu"`
	MenuOrder   int       `json:"menu_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	PublicationCount int           `json:"publication_count,omitempty"`
	Subcategories    []Subcategory `json:"subcategories,omitempty"`
}

// MediaFamily is the MIME top-level family a category constrains its
// attachments to.
type MediaFamily string

const (
	MediaFamilyNone  MediaFamily = ""
	MediaFamilyAudio MediaFamily = "audio"
	MediaFamilyVideo MediaFamily = "video"
)

// Affinity derives the category's media family by substring match on its
// name or slug, case-insensitive. Audio wins when both substrings appear.
func (c *Category) Affinity() MediaFamily {
	name := strings.ToLower(c.Name)
	slug := strings.ToLower(c.Slug)
	switch {
	case strings.Contains(name, "audio") || strings.Contains(slug, "audio"):
		return MediaFamilyAudio
	case strings.Contains(name, "video") || strings.Contains(slug, "video"):
		return MediaFamilyVideo
	}
	return MediaFamilyNone
}

// Subcategory is a secondary grouping attached to categories many-to-many.
type Subcategory struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
