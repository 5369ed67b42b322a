package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanCaption(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted", `"The Moment Everything Changed"`, "The Moment Everything Changed"},
		{"first line only", "\n\nBig reveal\nSecond line", "Big reveal"},
		{"title prefix", "Title: When The Drums Kick In", "When The Drums Kick In"},
		{"list marker", "- Why this works", "Why this works"},
		{"whitespace", "  too   many    spaces ", "too many spaces"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCaption(tt.input); got != tt.want {
				t.Fatalf("CleanCaption(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCaptionTruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := CleanCaption(long)
	if utf8.RuneCountInString(got) > MaxCaptionRunes {
		t.Fatalf("caption too long: %d runes", utf8.RuneCountInString(got))
	}
	if strings.HasSuffix(got, " ") || strings.HasSuffix(got, "wor") {
		t.Fatalf("expected cut at word boundary, got %q", got)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := TruncateWords("hello, wonderful world", 12); got != "hello" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateWords("short", 12); got != "short" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("the NASA launch went wrong"); got != "The NASA Launch Went Wrong" {
		t.Fatalf("unexpected title case %q", got)
	}
}
