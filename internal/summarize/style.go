package summarize

import (
	"fmt"
	"strings"
)

// Style selects the shape of the generated text.
type Style string

const (
	StyleConcise     Style = "concise"
	StyleDetailed    Style = "detailed"
	StyleBullets     Style = "bullets"
	StyleSocialTitle Style = "social_title"
)

// ParseStyle maps a configured summary style onto a Style. Empty input is
// concise. social_title is internal and not accepted here.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "concise":
		return StyleConcise, nil
	case "detailed":
		return StyleDetailed, nil
	case "bullets", "bullet", "bulleted":
		return StyleBullets, nil
	default:
		return "", fmt.Errorf("unknown summary style %q", name)
	}
}

type prompt struct {
	system      string
	instruction string
	temperature float64
}

var prompts = map[Style]prompt{
	StyleConcise: {
		system:      "You summarize short video clips from their transcripts. Reply with plain text only, no preamble.",
		instruction: "Summarize the transcript below in two or three sentences.",
		temperature: 0.3,
	},
	StyleDetailed: {
		system:      "You summarize short video clips from their transcripts. Reply with plain text only, no preamble.",
		instruction: "Write a detailed summary of the transcript below in one or two paragraphs. Mention the speakers' main points in order.",
		temperature: 0.3,
	},
	StyleBullets: {
		system:      "You summarize short video clips from their transcripts. Reply with a bulleted list only, one point per line, each line starting with \"- \".",
		instruction: "Summarize the transcript below as three to five bullet points.",
		temperature: 0.3,
	},
	StyleSocialTitle: {
		system:      "You write punchy titles for short social media videos. Reply with the title only: one line, no quotes, no hashtags, no emoji.",
		instruction: "Write a title of at most eight words for a clip described by the text below.",
		temperature: 0.7,
	},
}

func promptFor(style Style) (prompt, bool) {
	p, ok := prompts[style]
	return p, ok
}

func buildUserPrompt(p prompt, text string) string {
	return p.instruction + "\n\n" + text
}
