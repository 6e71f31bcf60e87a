package models

import "testing"

// TestFileMimeHelpers verifies that IsAudio and IsVideo classify by MIME
// prefix only, never by extension or case-folded input.
func TestFileMimeHelpers(t *testing.T) {
	tests := []struct {
		name      string
		mimeType  string
		wantAudio bool
		wantVideo bool
	}{
		{name: "mp3", mimeType: "audio/mpeg", wantAudio: true},
		{name: "flac", mimeType: "audio/flac", wantAudio: true},
		{name: "ogg audio", mimeType: "audio/ogg", wantAudio: true},
		{name: "mp4", mimeType: "video/mp4", wantVideo: true},
		{name: "webm", mimeType: "video/webm", wantVideo: true},
		{name: "quicktime", mimeType: "video/quicktime", wantVideo: true},

		{name: "png is neither", mimeType: "image/png"},
		{name: "pdf is neither", mimeType: "application/pdf"},
		{name: "empty", mimeType: ""},
		{name: "bare prefix no slash", mimeType: "audio"},
		{name: "uppercase not matched", mimeType: "VIDEO/MP4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{MimeType: tt.mimeType}
			if got := f.IsAudio(); got != tt.wantAudio {
				t.Errorf("File{MimeType: %q}.IsAudio() = %v, want %v", tt.mimeType, got, tt.wantAudio)
			}
			if got := f.IsVideo(); got != tt.wantVideo {
				t.Errorf("File{MimeType: %q}.IsVideo() = %v, want %v", tt.mimeType, got, tt.wantVideo)
			}
		})
	}
}

// TestFileHumanSize verifies the human-readable file size formatting
// across byte, kilobyte, and megabyte ranges.
func TestFileHumanSize(t *testing.T) {
	tests := []struct {
		name     string
		fileSize int64
		want     string
	}{
		{name: "zero bytes", fileSize: 0, want: "0 B"},
		{name: "one byte", fileSize: 1, want: "1 B"},
		{name: "1023 bytes", fileSize: 1023, want: "1023 B"},

		{name: "exactly 1 KB", fileSize: 1024, want: "1 KB"},
		{name: "1.5 KB rounds", fileSize: 1536, want: "2 KB"},
		{name: "512 KB", fileSize: 524288, want: "512 KB"},
		{name: "just under 1 MB", fileSize: 1048575, want: "1024 KB"},

		{name: "exactly 1 MB", fileSize: 1048576, want: "1.0 MB"},
		{name: "1.5 MB", fileSize: 1572864, want: "1.5 MB"},
		{name: "2.3 MB", fileSize: 2411724, want: "2.3 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{FileSize: tt.fileSize}
			if got := f.HumanSize(); got != tt.want {
				t.Errorf("File{FileSize: %d}.HumanSize() = %q, want %q", tt.fileSize, got, tt.want)
			}
		})
	}
}

func TestAccessTypeValid(t *testing.T) {
	for _, a := range []AccessType{AccessPrivate, AccessPublic} {
		if !a.Valid() {
			t.Errorf("AccessType(%q).Valid() = false, want true", a)
		}
	}
	for _, a := range []AccessType{"", "internal", "Public", "PRIVATE"} {
		if a.Valid() {
			t.Errorf("AccessType(%q).Valid() = true, want false", a)
		}
	}
}
