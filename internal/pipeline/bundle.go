package pipeline

import (
	"clipper/internal/segment"
	"clipper/internal/transcribe"
)

// State is the furthest point a segment reached in the stage chain.
type State string

const (
	StatePlanned         State = "planned"
	StateTranscoded      State = "transcoded"
	StateTranscribed     State = "transcribed"
	StateSummarized      State = "summarized"
	StateCaptionComposed State = "caption_composed"
	StateFinalized       State = "finalized"
)

// Outcomes holds one StageOutcome per artifact slot.
type Outcomes struct {
	Clip          StageOutcome `json:"clip"`
	Transcript    StageOutcome `json:"transcript"`
	Summary       StageOutcome `json:"summary"`
	SocialCaption StageOutcome `json:"social_caption"`
	TitleOverlay  StageOutcome `json:"title_overlay"`
}

// Bundle is everything produced for one planned segment. It is owned by a
// single orchestrator run and handed back immutable once finalized.
type Bundle struct {
	BatchID  string       `json:"batch_id"`
	Plan     segment.Plan `json:"plan"`
	Outcomes Outcomes     `json:"outcomes"`

	Transcript  *transcribe.Transcript `json:"transcript,omitempty"`
	SummaryText string                 `json:"summary_text,omitempty"`
	CaptionText string                 `json:"caption_text,omitempty"`

	// Reached is the last stage state entered before finalization.
	Reached State `json:"reached"`
	State   State `json:"state"`
}

func newBundle(batchID string, plan segment.Plan) *Bundle {
	return &Bundle{BatchID: batchID, Plan: plan, Reached: StatePlanned, State: StatePlanned}
}

// CancelledBundle is the bundle for a segment that was never dispatched.
func CancelledBundle(batchID string, plan segment.Plan) Bundle {
	b := newBundle(batchID, plan)
	b.Outcomes.Clip = skipped(ReasonCancelled)
	b.skipAfterClip(ReasonCancelled)
	b.finalize()
	return *b
}

// Succeeded reports whether the required clip was produced.
func (b Bundle) Succeeded() bool {
	return b.Outcomes.Clip.Succeeded()
}

// Finalized reports whether the stage chain ended for this segment.
func (b Bundle) Finalized() bool {
	return b.State == StateFinalized
}

// Slots returns the outcomes keyed by slot name in chain order.
func (b Bundle) Slots() []Slot {
	return []Slot{
		{Name: "clip", Outcome: b.Outcomes.Clip},
		{Name: "transcript", Outcome: b.Outcomes.Transcript},
		{Name: "summary", Outcome: b.Outcomes.Summary},
		{Name: "social_caption", Outcome: b.Outcomes.SocialCaption},
		{Name: "title_overlay", Outcome: b.Outcomes.TitleOverlay},
	}
}

// Slot names one outcome of a bundle.
type Slot struct {
	Name    string
	Outcome StageOutcome
}

func (b *Bundle) advance(state State) {
	b.Reached = state
	b.State = state
}

// skipAfterClip marks every optional slot that has not been decided yet.
func (b *Bundle) skipAfterClip(reason string) {
	for _, slot := range []*StageOutcome{
		&b.Outcomes.Transcript,
		&b.Outcomes.Summary,
		&b.Outcomes.SocialCaption,
		&b.Outcomes.TitleOverlay,
	} {
		if slot.Status == "" {
			*slot = skipped(reason)
		}
	}
}

func (b *Bundle) finalize() {
	if b.State == StateFinalized {
		return
	}
	b.State = StateFinalized
}
