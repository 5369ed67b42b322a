// Package summarize condenses transcripts into summaries and social titles
// through a chat-completion backend.
//
// OpenRouter and DeepSeek are reached with the OpenAI-compatible client in
// services/llm; OpenAI itself goes through the official SDK wrapper in
// services/openai. Like transcription, the backend is selected once from a
// priority list and an unconfigured selection fails every call with
// services.ErrConfiguration.
package summarize
