package segment

import (
	"errors"
	"math"
	"strings"
)

// VideoAsset is an immutable description of the source video.
type VideoAsset struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	// AudioLanguage is the ISO 639-1 tag of the first audio stream, when known.
	AudioLanguage string `json:"audio_language,omitempty"`
	HasAudio      bool   `json:"has_audio"`
}

// Validate reports whether the asset can be planned against.
func (a VideoAsset) Validate() error {
	if strings.TrimSpace(a.Path) == "" {
		return errors.New("video asset: path required")
	}
	if a.DurationSeconds <= 0 || math.IsNaN(a.DurationSeconds) || math.IsInf(a.DurationSeconds, 0) {
		return errors.New("video asset: duration must be a positive number of seconds")
	}
	return nil
}
