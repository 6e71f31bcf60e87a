// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lifecycle owns the publication moderation state machine and
// the manager that orchestrates validation, tag resolution, and
// transactional persistence around it. It is the only component with
// write authority over a publication's core record and its join tables.
package lifecycle

import (
	"mediapress/internal/apperr"
	"mediapress/internal/models"
)

// transitions enumerates every legal status move. Anything absent is
// illegal and fails with a state-conflict validation error naming the
// pair.
var transitions = map[models.PublicationStatus][]models.PublicationStatus{
	models.StatusDraft:    {models.StatusPending},
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusDraft},
	models.StatusRejected: {models.StatusDraft},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to models.PublicationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status move, returning a state-conflict error
// naming the illegal pair when the move is not allowed.
func Transition(from, to models.PublicationStatus) error {
	if !CanTransition(from, to) {
		return apperr.Validationf("status", "illegal transition from %s to %s", from, to)
	}
	return nil
}
