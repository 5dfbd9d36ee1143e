package sanitizer

import (
	"strings"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "non latin characters",
			input: " חדר   ישיבות ",
			want:  "חדר ישיבות",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace",
			input: "  Weekly   sync\n",
			want:  "Weekly sync",
		},
		{
			name:  "drops control characters",
			input: "Plan\x00ning\x07",
			want:  "Planning",
		},
		{
			name:  "keeps punctuation",
			input: "Q3 review: budget & hiring",
			want:  "Q3 review: budget & hiring",
		},
		{
			name:  "only whitespace becomes empty",
			input: " \t ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTitle(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeTitle(got); again != got {
				t.Errorf("SanitizeTitle is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeTitle_Truncates(t *testing.T) {
	got := SanitizeTitle(strings.Repeat("a", 250))
	if len([]rune(got)) != 200 {
		t.Errorf("expected 200 runes, got %d", len([]rune(got)))
	}
}

func TestSanitizeRoomName(t *testing.T) {
	got := SanitizeRoomName("  Conference\tRoom   A ")
	if got != "Conference Room A" {
		t.Errorf("unexpected room name %q", got)
	}
}
