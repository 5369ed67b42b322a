package batch

import (
	"time"

	"clipper/internal/pipeline"
	"clipper/internal/segment"
)

// Status is the batch-level outcome.
type Status string

const (
	StatusAllSucceeded   Status = "all_succeeded"
	StatusPartial        Status = "partial"
	StatusPlanningFailed Status = "planning_failed"
)

// Result aggregates every segment bundle of one batch in plan order.
type Result struct {
	BatchID     string             `json:"batch_id"`
	Status      Status             `json:"status"`
	Asset       segment.VideoAsset `json:"asset"`
	Bundles     []pipeline.Bundle  `json:"bundles"`
	Transcriber string             `json:"transcriber"`
	Summarizer  string             `json:"summarizer"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// Counts tallies clip outcomes across the batch.
type Counts struct {
	Segments  int
	Succeeded int
	Failed    int
	Cancelled int
	// Degraded counts clips whose optional stages did not all succeed.
	Degraded int
}

// Counts summarizes the bundles.
func (r Result) Counts() Counts {
	c := Counts{Segments: len(r.Bundles)}
	for _, b := range r.Bundles {
		switch b.Outcomes.Clip.Status {
		case pipeline.StatusSucceeded:
			c.Succeeded++
			for _, slot := range b.Slots()[1:] {
				if slot.Outcome.Failed() {
					c.Degraded++
					break
				}
			}
		case pipeline.StatusFailed:
			c.Failed++
		default:
			c.Cancelled++
		}
	}
	return c
}

func statusFor(bundles []pipeline.Bundle) Status {
	if len(bundles) == 0 {
		return StatusPlanningFailed
	}
	for _, b := range bundles {
		if !b.Succeeded() {
			return StatusPartial
		}
	}
	return StatusAllSucceeded
}
