package transcribe

import (
	"fmt"
	"strings"
)

// Backend names one speech-to-text implementation.
type Backend string

const (
	BackendWhisperX Backend = "whisperx"
	BackendOpenAI   Backend = "openai"
	BackendNone     Backend = "none"
)

// ParseBackend maps a configured name onto a Backend.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case BackendWhisperX:
		return BackendWhisperX, nil
	case BackendOpenAI:
		return BackendOpenAI, nil
	case BackendNone:
		return BackendNone, nil
	default:
		return "", fmt.Errorf("unknown transcription backend %q", name)
	}
}

// ParseBackends parses a priority list, rejecting unknown names.
func ParseBackends(names []string) ([]Backend, error) {
	out := make([]Backend, 0, len(names))
	for _, name := range names {
		b, err := ParseBackend(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Credentials records what is available for each backend. It is gathered once
// at startup; backends never read the environment themselves.
type Credentials struct {
	WhisperXEnabled   bool
	WhisperXAvailable bool
	OpenAIAPIKey      string
}

// Check reports whether b is usable and, if not, why.
func (c Credentials) Check(b Backend) (bool, string) {
	switch b {
	case BackendWhisperX:
		if !c.WhisperXEnabled {
			return false, "whisperx disabled"
		}
		if !c.WhisperXAvailable {
			return false, "uvx not found on PATH"
		}
		return true, ""
	case BackendOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return false, "openai api key not set"
		}
		return true, ""
	default:
		return false, "not a transcription backend"
	}
}

// Candidate is one entry of the priority list with its availability.
type Candidate struct {
	Backend    Backend
	Configured bool
	Reason     string
}

// Selection is the once-resolved transcription backend.
type Selection struct {
	Backend    Backend
	Candidates []Candidate
}

// Select returns the first configured backend in priority order, or
// BackendNone when nothing is configured.
func Select(priority []Backend, creds Credentials) Selection {
	sel := Selection{Backend: BackendNone}
	for _, b := range priority {
		if b == BackendNone {
			continue
		}
		ok, reason := creds.Check(b)
		sel.Candidates = append(sel.Candidates, Candidate{Backend: b, Configured: ok, Reason: reason})
		if ok && sel.Backend == BackendNone {
			sel.Backend = b
		}
	}
	return sel
}
