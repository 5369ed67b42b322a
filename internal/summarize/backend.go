package summarize

import (
	"fmt"
	"strings"
)

// Backend names one LLM provider.
type Backend string

const (
	BackendOpenRouter Backend = "openrouter"
	BackendOpenAI     Backend = "openai"
	BackendDeepSeek   Backend = "deepseek"
	BackendNone       Backend = "none"
)

// ParseBackend maps a configured name onto a Backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendOpenRouter, BackendOpenAI, BackendDeepSeek, BackendNone:
		return b, nil
	default:
		return "", fmt.Errorf("unknown summarization backend %q", name)
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

// Credentials holds the API keys resolved from configuration.
type Credentials struct {
	OpenRouterAPIKey string
	OpenAIAPIKey     string
	DeepSeekAPIKey   string
}

// Check reports whether b has credentials and, if not, why.
func (c Credentials) Check(b Backend) (bool, string) {
	var key string
	switch b {
	case BackendOpenRouter:
		key = c.OpenRouterAPIKey
	case BackendOpenAI:
		key = c.OpenAIAPIKey
	case BackendDeepSeek:
		key = c.DeepSeekAPIKey
	default:
		return false, "not a summarization backend"
	}
	if strings.TrimSpace(key) == "" {
		return false, string(b) + " api key not set"
	}
	return true, ""
}

// Candidate is one entry of the priority list with its availability.
type Candidate struct {
	Backend    Backend
	Configured bool
	Reason     string
}

// Selection is the once-resolved summarization backend.
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
