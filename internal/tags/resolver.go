// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tags resolves free-text tag names to persisted Tag rows,
// creating missing ones. The normalized slug is the identity: names that
// normalize alike are one tag.
package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"mediapress/internal/apperr"
	"mediapress/internal/models"
	"mediapress/internal/slug"
	"mediapress/internal/store"
)

// Resolver turns tag name lists into Tag rows.
type Resolver struct {
	store *store.TagStore
}

// NewResolver returns a Resolver backed by the given store.
func NewResolver(s *store.TagStore) *Resolver {
	return &Resolver{store: s}
}

// Resolve deduplicates names by normalized slug (first occurrence wins
// for display name), fetches existing tags in one batch, creates the
// missing ones, and returns the full set sorted by display name.
//
// Creation is not serialized across concurrent resolvers: a unique
// violation on insert means another caller just created the same slug,
// so the resolver re-fetches instead of failing.
func (r *Resolver) Resolve(names []string) ([]models.Tag, error) {
	type pending struct {
		name string
		slug string
	}

	seen := make(map[string]bool)
	var wanted []pending
	for _, name := range names {
		name = strings.TrimSpace(name)
		normalized := slug.Normalize(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		wanted = append(wanted, pending{name: name, slug: normalized})
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	slugs := make([]string, len(wanted))
	for i, w := range wanted {
		slugs[i] = w.slug
	}

	existing, err := r.store.FindBySlugs(slugs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	bySlug := make(map[string]models.Tag, len(existing))
	for _, t := range existing {
		bySlug[t.Slug] = t
	}

	result := make([]models.Tag, 0, len(wanted))
	for _, w := range wanted {
		if t, ok := bySlug[w.slug]; ok {
			result = append(result, t)
			continue
		}

		created, err := r.store.Create(w.name, w.slug)
		if err != nil {
			if !apperr.IsUniqueViolation(err, "tags_slug_key") {
				return nil, fmt.Errorf("create tag %q: %w", w.name, err)
			}
			// Lost the creation race; the row exists now.
			created, err = r.store.FindBySlug(w.slug)
			if err != nil {
				return nil, fmt.Errorf("refetch tag %q: %w", w.slug, err)
			}
			if created == nil {
				return nil, fmt.Errorf("tag %q vanished after unique violation", w.slug)
			}
		}
		result = append(result, *created)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// AssignToPublication wholesale-replaces a publication's tag set with the
// given tag ids. An empty list clears the associations.
func (r *Resolver) AssignToPublication(publicationID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.store.ReplaceForPublication(publicationID, tagIDs)
}
