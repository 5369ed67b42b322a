// Package openai adapts the official OpenAI Go SDK to the two calls clipper
// makes against the OpenAI API: chat completions for summaries and captions,
// and verbose-JSON audio transcription.
package openai
