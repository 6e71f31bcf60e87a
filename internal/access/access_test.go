package access

import (
	"testing"

	"mediapress/internal/models"
)

func TestEffective(t *testing.T) {
	publicFolder := &models.Folder{Name: "shared", IsPublic: true}
	privateFolder := &models.Folder{Name: "drafts", IsPublic: false}

	tests := []struct {
		name      string
		requested models.AccessType
		parent    *models.Folder
		want      models.AccessType
	}{
		{
			name:      "public folder forces public over private request",
			requested: models.AccessPrivate,
			parent:    publicFolder,
			want:      models.AccessPublic,
		},
		{
			name:      "public folder keeps public request",
			requested: models.AccessPublic,
			parent:    publicFolder,
			want:      models.AccessPublic,
		},
		{
			name:      "private folder preserves requested private",
			requested: models.AccessPrivate,
			parent:    privateFolder,
			want:      models.AccessPrivate,
		},
		{
			name:      "private folder preserves requested public",
			requested: models.AccessPublic,
			parent:    privateFolder,
			want:      models.AccessPublic,
		},
		{
			name:      "root file keeps requested type",
			requested: models.AccessPublic,
			parent:    nil,
			want:      models.AccessPublic,
		},
		{
			name:      "empty request defaults to private",
			requested: "",
			parent:    nil,
			want:      models.AccessPrivate,
		},
		{
			name:      "empty request in private folder defaults to private",
			requested: "",
			parent:    privateFolder,
			want:      models.AccessPrivate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Effective(tt.requested, tt.parent); got != tt.want {
				t.Errorf("Effective(%q, %v) = %q, want %q", tt.requested, tt.parent, got, tt.want)
			}
		})
	}
}

// TestEffectiveIsCopyOnCreate documents the staleness property: flipping
// the folder's visibility after resolution does not change an already
// resolved value. The resolver is pure; persistence happens elsewhere.
func TestEffectiveIsCopyOnCreate(t *testing.T) {
	folder := &models.Folder{Name: "was-private", IsPublic: false}

	resolved := Effective(models.AccessPrivate, folder)
	if resolved != models.AccessPrivate {
		t.Fatalf("resolved = %q, want private", resolved)
	}

	// The folder becomes public afterward; the earlier resolution stands.
	folder.IsPublic = true
	if resolved != models.AccessPrivate {
		t.Errorf("resolution changed retroactively to %q", resolved)
	}
}
