package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"clipper/internal/logging"
	"clipper/internal/segment"
	"clipper/internal/services"
	"clipper/internal/summarize"
	"clipper/internal/transcode"
	"clipper/internal/transcribe"
)

// Stage names used in logs and error details.
const (
	StageTranscode     = "transcode"
	StageTranscribe    = "transcribe"
	StageSummarize     = "summarize"
	StageSocialCaption = "social_caption"
	StageTitleOverlay  = "title_overlay"
)

// TitleRenderer draws caption text into an image and burns it onto a clip.
type TitleRenderer interface {
	Render(ctx context.Context, text, dest string, frameWidth int) (string, error)
	Composite(ctx context.Context, clip, image string, verticalFraction float64) (string, error)
}

// Providers is the set of stage implementations a run calls into.
type Providers struct {
	Transcoder  transcode.Transcoder
	Transcriber transcribe.Transcriber
	Summarizer  summarize.Summarizer
	Renderer    TitleRenderer
}

// Options configures an Orchestrator for one batch.
type Options struct {
	BatchID    string
	OutputDir  string
	WorkDir    string
	FrameWidth int
	Enrichment EnrichmentConfig
	Timeouts   Timeouts
	Providers  Providers
	Logger     *slog.Logger
}

// Orchestrator drives the stage chain for individual segments. It holds no
// per-segment state, so one value may serve concurrent runs.
type Orchestrator struct {
	batchID    string
	outputDir  string
	workDir    string
	frameWidth int
	enrichment EnrichmentConfig
	timeouts   Timeouts
	providers  Providers
	logger     *slog.Logger
}

// New builds an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		batchID:    opts.BatchID,
		outputDir:  opts.OutputDir,
		workDir:    opts.WorkDir,
		frameWidth: opts.FrameWidth,
		enrichment: opts.Enrichment,
		timeouts:   opts.Timeouts.withDefaults(),
		providers:  opts.Providers,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes one planned segment and returns its finalized bundle.
// Optional stage failures are recorded in the bundle and never stop the
// chain. If ctx is cancelled, the stage in flight completes and the remaining
// stages are skipped.
func (o *Orchestrator) Run(ctx context.Context, asset segment.VideoAsset, plan segment.Plan) Bundle {
	ctx = services.WithSegmentIndex(services.WithBatchID(ctx, o.batchID), plan.Index)
	b := newBundle(o.batchID, plan)
	r := &run{o: o, ctx: ctx, asset: asset, bundle: b, paths: NewArtifactPaths(o.outputDir, o.workDir, plan.Index, o.batchID)}

	for _, step := range []func() bool{r.transcode, r.transcribe, r.summarize, r.composeCaption} {
		if ctx.Err() != nil {
			if b.Outcomes.Clip.Status == "" {
				b.Outcomes.Clip = skipped(ReasonCancelled)
			}
			b.skipAfterClip(ReasonCancelled)
			logging.WithContext(ctx, o.logger).Info(
				"segment cancelled",
				logging.String(logging.FieldEventType, "segment_cancelled"),
				logging.String("reached", string(b.Reached)),
			)
			break
		}
		if !step() {
			break
		}
	}
	b.finalize()

	logging.WithContext(ctx, o.logger).Info(
		"segment finalized",
		logging.String(logging.FieldEventType, "segment_finalized"),
		logging.String("reached", string(b.Reached)),
		logging.Bool("clip_ok", b.Succeeded()),
	)
	return *b
}

type run struct {
	o      *Orchestrator
	ctx    context.Context
	asset  segment.VideoAsset
	bundle *Bundle
	paths  ArtifactPaths
}

func (r *run) transcode() bool {
	b := r.bundle
	b.Outcomes.Clip = r.o.stage(r.ctx, StageTranscode, r.o.timeouts.Transcode, func(ctx context.Context) (string, error) {
		if r.o.providers.Transcoder == nil {
			return "", services.Wrap(services.ErrConfiguration, StageTranscode, "", "no transcoder configured", nil)
		}
		return r.o.providers.Transcoder.Transform(ctx, r.asset.Path, b.Plan, r.paths.Clip)
	})
	if !b.Outcomes.Clip.Succeeded() {
		b.skipAfterClip(ReasonClipUnavailable)
		return false
	}
	b.advance(StateTranscoded)
	return true
}

func (r *run) transcribe() bool {
	b := r.bundle
	switch {
	case !r.o.enrichment.EnableTranscription:
		b.Outcomes.Transcript = skipped(ReasonDisabled)
	case !r.asset.HasAudio:
		b.Outcomes.Transcript = skipped(ReasonNoAudio)
	default:
		b.Outcomes.Transcript = r.o.stage(r.ctx, StageTranscribe, r.o.timeouts.Transcribe, func(ctx context.Context) (string, error) {
			if r.o.providers.Transcriber == nil {
				return "", services.Wrap(services.ErrConfiguration, StageTranscribe, "", "no transcriber configured", nil)
			}
			tr, err := r.o.providers.Transcriber.Transcribe(ctx, b.Outcomes.Clip.Artifact, r.languageHint())
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(tr.Text) == "" {
				return "", services.Wrap(services.ErrNotFound, StageTranscribe, "", "no speech detected", nil)
			}
			if err := writeText(r.paths.Transcript, tr.Text); err != nil {
				return "", services.Wrap(services.ErrExternalTool, StageTranscribe, "write transcript", r.paths.Transcript, err)
			}
			b.Transcript = &tr
			return r.paths.Transcript, nil
		})
	}
	b.advance(StateTranscribed)
	return true
}

// languageHint prefers the configured hint over the source's audio tag.
func (r *run) languageHint() string {
	if hint := strings.TrimSpace(r.o.enrichment.LanguageHint); hint != "" {
		return hint
	}
	return r.asset.AudioLanguage
}

func (r *run) summarize() bool {
	b := r.bundle
	switch {
	case !r.o.enrichment.EnableSummarization:
		b.Outcomes.Summary = skipped(ReasonDisabled)
	case b.Transcript == nil:
		b.Outcomes.Summary = skipped(ReasonTranscriptUnavailable)
	default:
		b.Outcomes.Summary = r.o.stage(r.ctx, StageSummarize, r.o.timeouts.Summarize, func(ctx context.Context) (string, error) {
			text, err := r.o.summarizer().Summarize(ctx, b.Transcript.Text, r.o.enrichment.SummaryStyle)
			if err != nil {
				return "", err
			}
			if err := writeText(r.paths.Summary, text); err != nil {
				return "", services.Wrap(services.ErrExternalTool, StageSummarize, "write summary", r.paths.Summary, err)
			}
			b.SummaryText = text
			return r.paths.Summary, nil
		})
	}
	b.advance(StateSummarized)
	return true
}

func (r *run) composeCaption() bool {
	b := r.bundle
	source := b.SummaryText
	if source == "" && b.Transcript != nil {
		source = b.Transcript.Text
	}

	switch {
	case !r.o.enrichment.EnableSocialCaption:
		b.Outcomes.SocialCaption = skipped(ReasonDisabled)
	case source == "":
		b.Outcomes.SocialCaption = skipped(ReasonCaptionSource)
	default:
		b.Outcomes.SocialCaption = r.o.stage(r.ctx, StageSocialCaption, r.o.timeouts.Summarize, func(ctx context.Context) (string, error) {
			caption, err := r.o.summarizer().Summarize(ctx, source, summarize.StyleSocialTitle)
			if err != nil {
				return "", err
			}
			if err := writeText(r.paths.Caption, caption); err != nil {
				return "", services.Wrap(services.ErrExternalTool, StageSocialCaption, "write caption", r.paths.Caption, err)
			}
			b.CaptionText = caption
			return r.paths.Caption, nil
		})
	}

	if r.ctx.Err() != nil {
		b.Outcomes.TitleOverlay = skipped(ReasonCancelled)
		return false
	}

	switch {
	case !r.o.enrichment.EnableTitleOverlay:
		b.Outcomes.TitleOverlay = skipped(ReasonDisabled)
	case b.CaptionText == "":
		b.Outcomes.TitleOverlay = skipped(ReasonCaptionUnavailable)
	case r.o.providers.Renderer == nil:
		b.Outcomes.TitleOverlay = failed("no title renderer configured", services.Marker(services.ErrConfiguration), 0)
	default:
		b.Outcomes.TitleOverlay = r.overlay()
	}
	b.advance(StateCaptionComposed)
	return true
}

// overlay renders the card and composites it. Each call gets its own
// deadline; compositing re-encodes the clip, so it uses the transcode budget.
func (r *run) overlay() StageOutcome {
	b := r.bundle
	renderer := r.o.providers.Renderer
	start := time.Now()
	out := r.o.stage(r.ctx, StageTitleOverlay, r.o.timeouts.Render, func(ctx context.Context) (string, error) {
		return renderer.Render(ctx, b.CaptionText, r.paths.TitleCard, r.o.frameWidth)
	})
	if !out.Succeeded() {
		return out
	}
	defer os.Remove(out.Artifact)

	out = r.o.stage(r.ctx, StageTitleOverlay, r.o.timeouts.Transcode, func(ctx context.Context) (string, error) {
		return renderer.Composite(ctx, b.Outcomes.Clip.Artifact, out.Artifact, r.o.enrichment.TitlePosition)
	})
	out.Duration = time.Since(start)
	return out
}

func (o *Orchestrator) summarizer() summarize.Summarizer {
	if o.providers.Summarizer == nil {
		return summarize.New(summarize.Selection{Backend: summarize.BackendNone}, summarize.Options{})
	}
	return o.providers.Summarizer
}

// stage runs fn under its own deadline, detached from batch cancellation so a
// started call always finishes, and converts the result into an outcome.
// Panics are recovered and recorded as failures.
func (o *Orchestrator) stage(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) (string, error)) StageOutcome {
	ctx = services.WithStage(ctx, name)
	logger := logging.WithContext(ctx, o.logger)
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	start := time.Now()
	artifact, err := call(callCtx, name, fn)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, services.ErrTimeout) {
			err = services.Wrap(services.ErrTimeout, name, "", fmt.Sprintf("exceeded %s", timeout), err)
		}
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("marker", services.Marker(err)),
			logging.Duration("stage_duration", elapsed),
			logging.Error(err),
		}
		if name == StageTranscode {
			logging.ErrorWithContext(logger, "stage failed", "stage_failure", attrs...)
		} else {
			logging.WarnWithContext(logger, "stage failed", "stage_failure", attrs...)
		}
		return failed(services.Reason(err), services.Marker(err), elapsed)
	}

	logger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("artifact", artifact),
		logging.Duration("stage_duration", elapsed),
	)
	return succeeded(artifact, elapsed)
}

func call(ctx context.Context, name string, fn func(context.Context) (string, error)) (artifact string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = services.Wrap(services.ErrExternalTool, name, "panic", fmt.Sprint(rec), nil)
		}
	}()
	return fn(ctx)
}

func writeText(path, text string) error {
	return os.WriteFile(path, []byte(strings.TrimSpace(text)+"\n"), 0o644)
}
