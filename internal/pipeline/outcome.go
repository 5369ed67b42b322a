package pipeline

import "time"

// Status is the result of one stage for one segment.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Skip reasons recorded on stages that never ran.
const (
	ReasonCancelled             = "batch cancelled"
	ReasonClipUnavailable       = "clip unavailable"
	ReasonDisabled              = "disabled by configuration"
	ReasonNoAudio               = "source has no audio stream"
	ReasonTranscriptUnavailable = "transcript unavailable"
	ReasonCaptionSource         = "no summary or transcript available"
	ReasonCaptionUnavailable    = "caption unavailable"
)

// StageOutcome records what happened to one artifact slot.
type StageOutcome struct {
	Status   Status        `json:"status"`
	Artifact string        `json:"artifact,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Marker   string        `json:"marker,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Succeeded reports whether the stage produced its artifact.
func (o StageOutcome) Succeeded() bool { return o.Status == StatusSucceeded }

// Failed reports whether the stage ran and failed.
func (o StageOutcome) Failed() bool { return o.Status == StatusFailed }

func succeeded(artifact string, elapsed time.Duration) StageOutcome {
	return StageOutcome{Status: StatusSucceeded, Artifact: artifact, Duration: elapsed}
}

func failed(reason, marker string, elapsed time.Duration) StageOutcome {
	return StageOutcome{Status: StatusFailed, Reason: reason, Marker: marker, Duration: elapsed}
}

func skipped(reason string) StageOutcome {
	return StageOutcome{Status: StatusSkipped, Reason: reason}
}
