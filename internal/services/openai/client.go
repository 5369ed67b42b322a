package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultChatModel          = "gpt-4.1-mini"
	DefaultTranscriptionModel = "whisper-1"
	defaultTimeout            = 120 * time.Second
	defaultMaxRetries         = 2
)

// Config captures credentials and endpoint settings for the OpenAI API.
type Config struct {
	APIKey             string
	BaseURL            string
	ChatModel          string
	TranscriptionModel string
	TimeoutSeconds     int
}

// Client wraps the OpenAI SDK for the two calls the pipeline needs: chat
// completions for summaries and audio transcriptions for transcripts.
type Client struct {
	cfg    Config
	client sdk.Client
}

// Option customizes the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	maxRetries int
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithMaxRetries overrides the SDK retry count.
func WithMaxRetries(n int) Option {
	return func(o *clientOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// NewClient builds a client. An empty API key is allowed here; calls fail
// with ErrMissingAPIKey.
func NewClient(cfg Config, opts ...Option) *Client {
	settings := clientOptions{maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(&settings)
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if strings.TrimSpace(cfg.TranscriptionModel) == "" {
		cfg.TranscriptionModel = DefaultTranscriptionModel
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(settings.maxRetries),
		option.WithRequestTimeout(timeout),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(base))
	}
	if settings.httpClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(settings.httpClient))
	}
	return &Client{cfg: cfg, client: sdk.NewClient(requestOpts...)}
}

// ErrMissingAPIKey is returned when a call is attempted without credentials.
var ErrMissingAPIKey = errors.New("openai api key required")

// ChatModel reports the configured chat model.
func (c *Client) ChatModel() string {
	if c == nil {
		return ""
	}
	return c.cfg.ChatModel
}

// TranscriptionModel reports the configured transcription model.
func (c *Client) TranscriptionModel() string {
	if c == nil {
		return ""
	}
	return c.cfg.TranscriptionModel
}

// Complete sends a system and user prompt and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if c == nil {
		return "", errors.New("openai client unavailable")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", errors.New("user prompt required")
	}

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, sdk.SystemMessage(systemPrompt))
	}
	messages = append(messages, sdk.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages:    messages,
		Model:       c.cfg.ChatModel,
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		return "", describeError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return content, nil
}

// Segment is one timed span of a verbose transcription.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the verbose transcription result.
type Transcription struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Transcribe uploads the media file at path and returns the transcript.
// language is an optional ISO-639-1 hint.
func (c *Client) Transcribe(ctx context.Context, path, language string) (Transcription, error) {
	var result Transcription
	if c == nil {
		return result, errors.New("openai client unavailable")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return result, ErrMissingAPIKey
	}
	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	params := sdk.AudioTranscriptionNewParams{
		File:           file,
		Model:          sdk.AudioModel(c.cfg.TranscriptionModel),
		ResponseFormat: sdk.AudioResponseFormatVerboseJSON,
	}
	if lang := strings.TrimSpace(language); lang != "" {
		params.Language = sdk.String(lang)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return result, describeError("transcription", err)
	}
	if raw := resp.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return result, fmt.Errorf("decode transcription: %w", err)
		}
	}
	if result.Text == "" {
		result.Text = resp.Text
	}
	result.Text = strings.TrimSpace(result.Text)
	return result, nil
}

func describeError(op string, err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: status %d: %w", op, apiErr.StatusCode, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// StatusCode extracts the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
