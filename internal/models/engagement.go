// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is one user's like on one publication. The (publication, user)
// pair is unique; a repeated like is a no-op at the store level.
type Like struct {
	ID            uuid.UUID `json:"id"`
	PublicationID uuid.UUID `json:"publication_id"`
	UserID        uuid.UUID `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment is a user comment on a publication.
type Comment struct {
	ID            uuid.UUID `json:"id"`
	PublicationID uuid.UUID `json:"publication_id"`
	AuthorID      uuid.UUID `json:"author_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// View registers a viewer identity seen on a publication: one row per
// (publication, viewer), not one per hit. ViewerToken is an opaque
// cookie-issued identifier; UserID is set instead when the viewer is
// authenticated. Either one keys the unique-hit deduplication.
type View struct {
	ID            uuid.UUID  `json:"id"`
	PublicationID uuid.UUID  `json:"publication_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	ViewerToken   *string    `json:"viewer_token,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
