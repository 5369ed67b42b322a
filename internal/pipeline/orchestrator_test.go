package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipper/internal/segment"
	"clipper/internal/services"
	"clipper/internal/summarize"
	"clipper/internal/transcribe"
)

const testBatchID = "3f2a9c1b-7d4e-4a2b-9c1d-0e5f6a7b8c9d"

type harness struct {
	transcoder  *fakeTranscoder
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	renderer    *fakeRenderer
	enrichment  EnrichmentConfig
	timeouts    Timeouts
	outputDir   string
	workDir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	out := t.TempDir()
	work := filepath.Join(out, ".work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	return &harness{
		transcoder:  &fakeTranscoder{},
		transcriber: &fakeTranscriber{text: "the moon pulls the oceans"},
		summarizer:  &fakeSummarizer{},
		renderer:    &fakeRenderer{},
		enrichment: EnrichmentConfig{
			TargetAspectWidth:   9,
			TargetAspectHeight:  16,
			OutputHeight:        1920,
			EnableTranscription: true,
			EnableSummarization: true,
			SummaryStyle:        summarize.StyleConcise,
			EnableSocialCaption: true,
			EnableTitleOverlay:  true,
			TitlePosition:       0.1,
		},
		outputDir: out,
		workDir:   work,
	}
}

func (h *harness) orchestrator() *Orchestrator {
	return New(Options{
		BatchID:    testBatchID,
		OutputDir:  h.outputDir,
		WorkDir:    h.workDir,
		FrameWidth: 1080,
		Enrichment: h.enrichment,
		Timeouts:   h.timeouts,
		Providers: Providers{
			Transcoder:  h.transcoder,
			Transcriber: h.transcriber,
			Summarizer:  h.summarizer,
			Renderer:    h.renderer,
		},
	})
}

var (
	testAsset = segment.VideoAsset{Path: "/videos/source.mp4", DurationSeconds: 120, HasAudio: true, AudioLanguage: "en"}
	testPlan  = segment.Plan{Index: 1, Start: 10, End: 25, Duration: 15}
)

func TestRunAllStagesSucceed(t *testing.T) {
	h := newHarness(t)
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	for _, slot := range b.Slots() {
		if !slot.Outcome.Succeeded() {
			t.Fatalf("slot %s not succeeded: %+v", slot.Name, slot.Outcome)
		}
	}
	if !b.Finalized() || b.Reached != StateCaptionComposed {
		t.Fatalf("unexpected state reached=%s state=%s", b.Reached, b.State)
	}
	want := NewArtifactPaths(h.outputDir, h.workDir, 1, testBatchID)
	if b.Outcomes.Clip.Artifact != want.Clip || b.Outcomes.TitleOverlay.Artifact != want.Clip {
		t.Fatalf("expected clip %s replaced in place, got %+v", want.Clip, b.Outcomes)
	}
	for path, content := range map[string]string{
		want.Transcript: "the moon pulls the oceans\n",
		want.Summary:    "Summary of: the moon pulls the oceans\n",
		want.Caption:    "Moon Moves Oceans\n",
		want.Clip:       "titled",
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != content {
			t.Fatalf("%s: expected %q, got %q", filepath.Base(path), content, data)
		}
	}
	if _, err := os.Stat(want.TitleCard); !os.IsNotExist(err) {
		t.Fatal("expected title card scratch file removed")
	}
	if b.CaptionText != "Moon Moves Oceans" || b.Transcript == nil || b.Transcript.Language != "en" {
		t.Fatalf("unexpected bundle values %+v", b)
	}
	if captions := h.summarizer.callsFor(summarize.StyleSocialTitle); len(captions) != 1 || !strings.HasPrefix(captions[0].text, "Summary of:") {
		t.Fatalf("expected caption generated from summary, got %+v", captions)
	}
}

func TestRunTranscodeFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.transcoder.failFor = map[int]error{1: services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg", "decode failure", errors.New("exit status 1"))}
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Clip.Failed() || b.Outcomes.Clip.Marker != "external_tool" {
		t.Fatalf("expected clip failure, got %+v", b.Outcomes.Clip)
	}
	for _, slot := range b.Slots()[1:] {
		if slot.Outcome.Status != StatusSkipped || slot.Outcome.Reason != ReasonClipUnavailable {
			t.Fatalf("slot %s: expected skipped clip unavailable, got %+v", slot.Name, slot.Outcome)
		}
	}
	if h.transcriber.calls != 0 || len(h.summarizer.calls) != 0 || len(h.renderer.renders) != 0 {
		t.Fatal("expected no downstream provider calls")
	}
	if !b.Finalized() || b.Reached != StatePlanned {
		t.Fatalf("unexpected state reached=%s state=%s", b.Reached, b.State)
	}
}

func TestRunTranscriptionFailureContinuesChain(t *testing.T) {
	h := newHarness(t)
	h.transcriber.err = errors.New("model crashed")
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Clip.Succeeded() {
		t.Fatalf("clip should survive transcription failure: %+v", b.Outcomes.Clip)
	}
	if !b.Outcomes.Transcript.Failed() || !strings.Contains(b.Outcomes.Transcript.Reason, "model crashed") {
		t.Fatalf("unexpected transcript outcome %+v", b.Outcomes.Transcript)
	}
	if b.Outcomes.Summary.Reason != ReasonTranscriptUnavailable {
		t.Fatalf("unexpected summary outcome %+v", b.Outcomes.Summary)
	}
	if b.Outcomes.SocialCaption.Reason != ReasonCaptionSource {
		t.Fatalf("unexpected caption outcome %+v", b.Outcomes.SocialCaption)
	}
	if b.Outcomes.TitleOverlay.Reason != ReasonCaptionUnavailable || len(h.renderer.renders) != 0 {
		t.Fatalf("expected overlay skipped without rendering, got %+v", b.Outcomes.TitleOverlay)
	}
	if b.Reached != StateCaptionComposed || !b.Finalized() {
		t.Fatalf("unexpected state reached=%s", b.Reached)
	}
}

func TestRunSilentSourceSkipsTranscription(t *testing.T) {
	h := newHarness(t)
	silent := segment.VideoAsset{Path: "/videos/screen.mp4", DurationSeconds: 120}
	b := h.orchestrator().Run(context.Background(), silent, testPlan)

	if !b.Outcomes.Clip.Succeeded() {
		t.Fatalf("expected clip for a silent source, got %+v", b.Outcomes.Clip)
	}
	if b.Outcomes.Transcript.Status != StatusSkipped || b.Outcomes.Transcript.Reason != ReasonNoAudio {
		t.Fatalf("expected transcript skipped for missing audio, got %+v", b.Outcomes.Transcript)
	}
	if h.transcriber.calls != 0 {
		t.Fatalf("expected no transcriber call, got %d", h.transcriber.calls)
	}
	if b.Outcomes.Summary.Reason != ReasonTranscriptUnavailable || b.Outcomes.SocialCaption.Reason != ReasonCaptionSource {
		t.Fatalf("unexpected downstream outcomes %+v", b.Outcomes)
	}
	if !b.Succeeded() || !b.Finalized() {
		t.Fatalf("a silent source should still yield a finalized clip, reached=%s", b.Reached)
	}
}

func TestRunLanguageHintFallsBackToAudioTag(t *testing.T) {
	h := newHarness(t)
	asset := testAsset
	asset.AudioLanguage = "de"
	h.orchestrator().Run(context.Background(), asset, testPlan)

	h.enrichment.LanguageHint = "fr"
	h.orchestrator().Run(context.Background(), asset, testPlan)

	if len(h.transcriber.hints) != 2 || h.transcriber.hints[0] != "de" || h.transcriber.hints[1] != "fr" {
		t.Fatalf("expected hints [de fr], got %v", h.transcriber.hints)
	}
}

func TestRunSummaryFailureCaptionFallsBackToTranscript(t *testing.T) {
	h := newHarness(t)
	h.summarizer.failStyle = map[summarize.Style]bool{summarize.StyleConcise: true}
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Summary.Failed() {
		t.Fatalf("expected summary failure, got %+v", b.Outcomes.Summary)
	}
	captions := h.summarizer.callsFor(summarize.StyleSocialTitle)
	if len(captions) != 1 || captions[0].text != "the moon pulls the oceans" {
		t.Fatalf("expected caption from transcript, got %+v", captions)
	}
	if !b.Outcomes.SocialCaption.Succeeded() || !b.Outcomes.TitleOverlay.Succeeded() {
		t.Fatalf("expected caption and overlay to succeed, got %+v", b.Outcomes)
	}
}

func TestRunCaptionFailureSkipsOverlay(t *testing.T) {
	h := newHarness(t)
	h.summarizer.failStyle = map[summarize.Style]bool{summarize.StyleSocialTitle: true}
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.SocialCaption.Failed() {
		t.Fatalf("expected caption failure, got %+v", b.Outcomes.SocialCaption)
	}
	if b.Outcomes.TitleOverlay.Status != StatusSkipped || len(h.renderer.renders) != 0 {
		t.Fatalf("expected overlay skipped, got %+v", b.Outcomes.TitleOverlay)
	}
	data, _ := os.ReadFile(b.Outcomes.Clip.Artifact)
	if string(data) != "clip" {
		t.Fatalf("clip should be untouched, got %q", data)
	}
}

func TestRunRenderFailureKeepsClip(t *testing.T) {
	h := newHarness(t)
	h.renderer.failRender = true
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.TitleOverlay.Failed() || h.renderer.composites != 0 {
		t.Fatalf("expected overlay failure before compositing, got %+v", b.Outcomes.TitleOverlay)
	}
	if !b.Outcomes.Clip.Succeeded() {
		t.Fatal("clip slot must not change when the overlay fails")
	}
}

func TestRunDisabledStagesSkipped(t *testing.T) {
	h := newHarness(t)
	h.enrichment.EnableTranscription = false
	h.enrichment.EnableSummarization = false
	h.enrichment.EnableSocialCaption = false
	h.enrichment.EnableTitleOverlay = false
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	for _, slot := range b.Slots()[1:] {
		if slot.Outcome.Status != StatusSkipped || slot.Outcome.Reason != ReasonDisabled {
			t.Fatalf("slot %s: expected disabled, got %+v", slot.Name, slot.Outcome)
		}
	}
	if h.transcriber.calls != 0 || len(h.summarizer.calls) != 0 {
		t.Fatal("disabled stages must not call providers")
	}
}

func TestRunRecoversProviderPanic(t *testing.T) {
	h := newHarness(t)
	h.transcriber.panic = true
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Transcript.Failed() || !strings.Contains(b.Outcomes.Transcript.Reason, "decoder exploded") {
		t.Fatalf("expected recovered panic, got %+v", b.Outcomes.Transcript)
	}
	if !b.Finalized() {
		t.Fatal("bundle must be finalized after a panic")
	}
}

func TestRunStageTimeout(t *testing.T) {
	h := newHarness(t)
	h.transcriber.block = true
	h.timeouts = Timeouts{Transcribe: 20 * time.Millisecond}
	b := h.orchestrator().Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Transcript.Failed() || b.Outcomes.Transcript.Marker != "timeout" {
		t.Fatalf("expected timeout failure, got %+v", b.Outcomes.Transcript)
	}
	if !b.Outcomes.Clip.Succeeded() {
		t.Fatal("clip should survive a transcription timeout")
	}
}

func TestRunUnconfiguredBackendsRecordConfigurationFailure(t *testing.T) {
	h := newHarness(t)
	o := h.orchestrator()
	o.providers.Transcriber = transcribe.New(transcribe.Selection{Backend: transcribe.BackendNone}, transcribe.Options{})
	b := o.Run(context.Background(), testAsset, testPlan)

	if !b.Outcomes.Transcript.Failed() || b.Outcomes.Transcript.Marker != "configuration" {
		t.Fatalf("expected configuration failure, got %+v", b.Outcomes.Transcript)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := h.orchestrator().Run(ctx, testAsset, testPlan)

	if h.transcoder.callCount() != 0 {
		t.Fatal("transcoder must not run after cancellation")
	}
	for _, slot := range b.Slots() {
		if slot.Outcome.Status != StatusSkipped || slot.Outcome.Reason != ReasonCancelled {
			t.Fatalf("slot %s: expected cancelled, got %+v", slot.Name, slot.Outcome)
		}
	}
	if !b.Finalized() {
		t.Fatal("cancelled bundle must be finalized")
	}
}

func TestRunCancelledMidStageFinishesCurrentStage(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stageCtxErr error
	h.transcoder.hook = func(stageCtx context.Context) {
		cancel()
		stageCtxErr = stageCtx.Err()
	}
	b := h.orchestrator().Run(ctx, testAsset, testPlan)

	if stageCtxErr != nil {
		t.Fatalf("in-flight stage context should not be cancelled, got %v", stageCtxErr)
	}
	if !b.Outcomes.Clip.Succeeded() {
		t.Fatalf("in-flight transcode should complete, got %+v", b.Outcomes.Clip)
	}
	if b.Outcomes.Transcript.Reason != ReasonCancelled || h.transcriber.calls != 0 {
		t.Fatalf("expected remaining stages cancelled, got %+v", b.Outcomes.Transcript)
	}
	if b.Reached != StateTranscoded {
		t.Fatalf("expected reached transcoded, got %s", b.Reached)
	}
}

func TestCancelledBundle(t *testing.T) {
	b := CancelledBundle(testBatchID, testPlan)
	if b.Succeeded() || !b.Finalized() || b.Outcomes.Clip.Reason != ReasonCancelled {
		t.Fatalf("unexpected cancelled bundle %+v", b)
	}
}
