package models

import "testing"

func TestPublicationStatusValid(t *testing.T) {
	for _, s := range []PublicationStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Errorf("PublicationStatus(%q).Valid() = false, want true", s)
		}
	}
	for _, s := range []PublicationStatus{"", "published", "Draft", "APPROVED", "pending "} {
		if s.Valid() {
			t.Errorf("PublicationStatus(%q).Valid() = true, want false", s)
		}
	}
}

func TestPublicationIsApproved(t *testing.T) {
	p := &Publication{Status: StatusApproved}
	if !p.IsApproved() {
		t.Error("approved publication reported as not approved")
	}
	for _, s := range []PublicationStatus{StatusDraft, StatusPending, StatusRejected} {
		p.Status = s
		if p.IsApproved() {
			t.Errorf("status %q reported as approved", s)
		}
	}
}
