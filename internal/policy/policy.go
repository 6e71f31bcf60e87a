// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy decides whether a publication's ordered attachment list
// satisfies its category's media constraints. The decision is pure: it
// depends only on the category and the attachments handed in, so the
// lifecycle manager re-runs it on every submit and on every mutation of
// an already-submitted publication — attachments can be reassigned
// through the file manager behind the client's back. Drafts are exempt:
// they are never publicly visible, and the check gates the way out of
// draft.
package policy

import (
	"fmt"
	"strings"

	"mediapress/internal/models"
)

// Violation describes why an attachment list fails the category policy.
// The Reason is user-facing.
type Violation struct {
	Family models.MediaFamily
	Reason string
}

// Evaluate checks the ordered attachment list against the category's
// media affinity. A nil return means the policy is satisfied.
//
// Categories with no audio/video affinity accept anything, including an
// empty list. Affine categories require a non-empty list, a first
// attachment of the matching MIME family, and at least one matching
// attachment overall. The last check is implied by the first-element rule
// but kept separate so each rule stays independently testable.
func Evaluate(category *models.Category, attachments []models.Attachment) *Violation {
	family := category.Affinity()
	if family == models.MediaFamilyNone {
		return nil
	}

	prefix := string(family) + "/"

	if len(attachments) == 0 {
		return &Violation{
			Family: family,
			Reason: fmt.Sprintf("category %q requires at least one %s attachment", category.Name, family),
		}
	}

	if !strings.HasPrefix(attachments[0].MimeType, prefix) {
		return &Violation{
			Family: family,
			Reason: fmt.Sprintf("category %q requires the first attachment to be %s, got %q",
				category.Name, family, attachments[0].MimeType),
		}
	}

	for _, a := range attachments {
		if strings.HasPrefix(a.MimeType, prefix) {
			return nil
		}
	}
	return &Violation{
		Family: family,
		Reason: fmt.Sprintf("category %q requires at least one %s attachment", category.Name, family),
	}
}
