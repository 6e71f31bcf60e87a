package slug

import (
	"strings"
	"testing"
)

// TestNormalize exercises the slug normalizer with a broad range of
// inputs covering typical tag names, special characters, diacritics,
// edge cases, and boundary conditions.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "name with year",
			input: "Field Report 2026",
			want:  "field-report-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "Ebola",
			want:  "ebola",
		},

		// --- Dedup equivalence classes ---
		{
			name:  "trailing whitespace",
			input: "Ebola ",
			want:  "ebola",
		},
		{
			name:  "uppercase with acute accents",
			input: "ÉBOLA",
			want:  "ebola",
		},
		{
			name:  "mixed diacritics",
			input: "Crème Brûlée",
			want:  "creme-brulee",
		},
		{
			name:  "german umlauts",
			input: "Köln Über Alles",
			want:  "koln-uber-alles",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello-world-how-s-it-going",
		},
		{
			name:  "ampersand and at sign",
			input: "Rock & Roll @ the Arena",
			want:  "rock-roll-the-arena",
		},
		{
			name:  "consecutive separators collapse",
			input: "a --- b",
			want:  "a-b",
		},
		{
			name:  "leading and trailing symbols",
			input: "***sparkle***",
			want:  "sparkle",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only symbols",
			input: "!!!",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "digits preserved",
			input: "Top 10 of '26",
			want:  "top-10-of-26",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestNormalizeTruncation verifies long inputs are capped at MaxLen with
// no dangling hyphen left by the cut.
func TestNormalizeTruncation(t *testing.T) {
	long := strings.Repeat("abcde ", 20)
	got := Normalize(long)

	if len(got) > MaxLen {
		t.Errorf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Errorf("truncated slug has dangling hyphen: %q", got)
	}
}

// TestNormalizeEquivalence confirms the documented dedup property: all
// spellings of a tag name collapse to one slug.
func TestNormalizeEquivalence(t *testing.T) {
	variants := []string{"Ebola ", "ebola", "ÉBOLA", " EBOLA"}
	want := "ebola"
	for _, v := range variants {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}
