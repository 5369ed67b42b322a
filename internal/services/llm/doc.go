// Package llm provides a chat client for OpenAI-compatible completion
// endpoints. Clipper points it at OpenRouter and DeepSeek for segment
// summaries and social captions.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteText: send system/user prompts, receive the assistant text.
// Client.CompleteJSON: same, with a JSON response format.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, network timeouts, and empty
// completions with exponential backoff (base 1s, max 10s, 4 attempts by
// default). Context cancellation aborts retries immediately.
package llm
