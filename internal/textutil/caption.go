package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxCaptionRunes bounds the social caption length burned into clips.
const MaxCaptionRunes = 80

var captionQuotes = "\"'`“”‘’«»"

// CleanCaption normalizes model output into a single caption line: it keeps
// the first non-empty line, strips wrapping quotes and list markers, collapses
// whitespace, and truncates at a word boundary to MaxCaptionRunes.
func CleanCaption(raw string) string {
	var line string
	for candidate := range strings.SplitSeq(raw, "\n") {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			line = trimmed
			break
		}
	}
	line = strings.TrimLeft(line, "-*#•> ")
	if idx := strings.Index(line, ":"); idx > 0 && idx < 16 && strings.EqualFold(strings.TrimSpace(line[:idx]), "title") {
		line = line[idx+1:]
	}
	line = strings.Trim(strings.TrimSpace(line), captionQuotes)
	line = strings.Join(strings.Fields(line), " ")
	return TruncateWords(line, MaxCaptionRunes)
}

// TruncateWords shortens text to at most limit runes, cutting at the last
// word boundary and trimming trailing punctuation left behind by the cut.
func TruncateWords(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// TitleCase capitalizes each word of a caption using English casing rules.
func TitleCase(text string) string {
	return cases.Title(language.English, cases.NoLower).String(text)
}
