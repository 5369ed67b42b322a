// Package services defines shared utilities consumed by the pipeline stages
// and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, segment indexes, stage names, and
//     backend names for logging.
//   - Structured error markers plus the Wrap helper that tag failures so the
//     orchestrator can record a short, classified reason per stage.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// reporting, observability) stays uniform across the pipeline.
package services
