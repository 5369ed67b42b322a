// Package ffprobe provides a typed wrapper around ffprobe JSON output and
// converts it into the segment.VideoAsset the planner consumes.
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes captured ffprobe JSON
//   - Result.Asset: duration, dimensions, and audio language for planning
package ffprobe
