// Package segment plans randomized, non-overlapping time slices of a video.
//
// Planning is pure: a Planner owns its random source and never performs I/O.
// Each slot draws a duration in [min, min(max, remaining budget)] and a start
// in [0, videoDuration-duration], and is retried up to the planner's attempt
// budget before being skipped. Accepted plans are sorted by start and
// re-indexed from 0. Infeasible requests return an empty plan.
package segment
