// Package pipeline runs the per-segment stage chain:
//
//	planned → transcoded → transcribed → summarized → caption_composed → finalized
//
// Transcoding is the only fatal stage. Every optional stage records a
// StageOutcome in the segment's Bundle and the chain moves on, so a failed
// optional stage never discards the clip. A stage whose input is missing is
// still reached and advances the state, but records a skip without calling
// its provider: with no transcript, summarization is skipped with
// ReasonTranscriptUnavailable. Artifacts are addressed by the
// segment_{index}_{id} file naming convention in ArtifactPaths.
package pipeline
