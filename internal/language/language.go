package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// aliases covers English word forms and ISO 639-2/B codes that BCP 47 parsing
// does not accept.
var aliases = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
	"fre":        "fr",
	"ger":        "de",
	"chi":        "zh",
	"dut":        "nl",
}

// ToISO2 converts a language code, BCP 47 tag, or English word to ISO 639-1.
// Unrecognized two-letter input passes through; anything else yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "und" {
		return ""
	}
	if mapped, ok := aliases[code]; ok {
		return mapped
	}
	if tag, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			if iso := base.String(); len(iso) == 2 {
				return iso
			}
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns the English name for a language code, "Unknown" for
// empty input, or the uppercased code when it cannot be resolved.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if iso := ToISO2(trimmed); iso != "" {
		if tag, err := language.Parse(iso); err == nil {
			if name := display.English.Languages().Name(tag); name != "" {
				return name
			}
		}
	}
	return strings.ToUpper(trimmed)
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return ToISO2(value)
			}
		}
	}
	return ""
}
