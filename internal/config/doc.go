// Package config loads, normalizes, and validates Clipper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and OPENROUTER_API_KEY. Environment lookups happen once, during
// Load; the resulting Config is treated as immutable and handed to the batch
// coordinator so stages never consult process-wide state.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
