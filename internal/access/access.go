// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access resolves the effective access type for a new file from
// its parent folder. Resolution is copy-on-create: it runs once when the
// file is created and is never re-applied, so a later visibility change
// on the folder does not touch existing files.
package access

import "mediapress/internal/models"

// Effective returns the access type a new file should be stored with.
// A public parent folder forces public regardless of the request; in
// every other case (no folder, private folder) the requested type wins.
// An empty request defaults to private.
func Effective(requested models.AccessType, parent *models.Folder) models.AccessType {
	if parent != nil && parent.IsPublic {
		return models.AccessPublic
	}
	if requested == "" {
		return models.AccessPrivate
	}
	return requested
}
