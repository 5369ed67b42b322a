package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipper/internal/logging"
	"clipper/internal/pipeline"
	"clipper/internal/segment"
	"clipper/internal/services"
	"clipper/internal/transcode"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 2

// Planner produces the segment plan for a batch.
type Planner interface {
	Plan(videoDuration float64, requestedCount int, minDuration, maxDuration float64) []segment.Plan
}

// Options configures a Coordinator. The values are fixed for the process;
// nothing here is re-read while a batch runs.
type Options struct {
	Planner     Planner
	Providers   pipeline.Providers
	Transcriber string
	Summarizer  string
	OutputDir   string
	WorkDir     string
	Workers     int
	Timeouts    pipeline.Timeouts
	Logger      *slog.Logger
	// NewID overrides batch id generation in tests.
	NewID func() string
}

// Coordinator fans segments out over a bounded worker pool.
type Coordinator struct {
	opts   Options
	logger *slog.Logger
}

// NewCoordinator builds a Coordinator.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Planner == nil {
		opts.Planner = segment.NewPlanner(nil, segment.DefaultMaxAttempts)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{opts: opts, logger: logging.NewComponentLogger(logger, "batch")}
}

// Run plans the asset and processes every segment. It always returns a
// Result: an empty plan yields planning_failed without calling any stage,
// and cancelling ctx stops dispatch while in-flight stages finish.
func (c *Coordinator) Run(ctx context.Context, asset segment.VideoAsset, planning segment.Config, enrichment pipeline.EnrichmentConfig) Result {
	result := Result{
		BatchID:     c.opts.NewID(),
		Asset:       asset,
		Transcriber: c.opts.Transcriber,
		Summarizer:  c.opts.Summarizer,
		StartedAt:   time.Now().UTC(),
	}
	ctx = services.WithBatchID(ctx, result.BatchID)
	logger := logging.WithContext(ctx, c.logger)

	plans := c.opts.Planner.Plan(asset.DurationSeconds, planning.Count, planning.MinDuration, planning.MaxDuration)
	if len(plans) == 0 {
		result.Status = StatusPlanningFailed
		result.Bundles = []pipeline.Bundle{}
		result.FinishedAt = time.Now().UTC()
		logging.WarnWithContext(logger, "no segments could be planned", "planning_failed",
			logging.Float64("video_seconds", asset.DurationSeconds),
			logging.Int("requested", planning.Count),
			logging.Float64("min_seconds", planning.MinDuration),
			logging.Float64("max_seconds", planning.MaxDuration),
			logging.String(logging.FieldErrorHint, "lower min_seconds or use a longer video"),
		)
		return result
	}
	if err := segment.Validate(plans, asset.DurationSeconds, planning.MinDuration, planning.MaxDuration); err != nil {
		logger.Error("planner produced an invalid plan", logging.Error(err))
	}

	workers := min(c.opts.Workers, len(plans))
	logger.Info(
		"batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("segments", len(plans)),
		logging.Int("requested", planning.Count),
		logging.Int("workers", workers),
		logging.String("transcriber", c.opts.Transcriber),
		logging.String("summarizer", c.opts.Summarizer),
	)

	frameWidth := 0
	if frame, err := transcode.NewFrame(enrichment.TargetAspectWidth, enrichment.TargetAspectHeight, enrichment.OutputHeight); err == nil {
		frameWidth = frame.Width
	}
	orch := pipeline.New(pipeline.Options{
		BatchID:    result.BatchID,
		OutputDir:  c.opts.OutputDir,
		WorkDir:    c.opts.WorkDir,
		FrameWidth: frameWidth,
		Enrichment: enrichment,
		Timeouts:   c.opts.Timeouts,
		Providers:  c.opts.Providers,
		Logger:     c.logger,
	})

	result.Bundles = dispatch(ctx, workers, plans, func(p segment.Plan) pipeline.Bundle {
		return orch.Run(ctx, asset, p)
	}, func(p segment.Plan) pipeline.Bundle {
		return pipeline.CancelledBundle(result.BatchID, p)
	})
	result.Status = statusFor(result.Bundles)
	result.FinishedAt = time.Now().UTC()

	counts := result.Counts()
	logger.Info(
		"batch completed",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.String("status", string(result.Status)),
		logging.Int("segments", counts.Segments),
		logging.Int("succeeded", counts.Succeeded),
		logging.Int("failed", counts.Failed),
		logging.Int("cancelled", counts.Cancelled),
		logging.Int("degraded", counts.Degraded),
		logging.Duration("batch_duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result
}

// dispatch feeds plan indexes to a fixed pool of workers over an unbuffered
// channel. Each bundle is written only by the worker that ran it; plans that
// were never handed out get a cancelled bundle.
func dispatch(ctx context.Context, workers int, plans []segment.Plan, run, cancelled func(segment.Plan) pipeline.Bundle) []pipeline.Bundle {
	bundles := make([]pipeline.Bundle, len(plans))
	sent := make([]bool, len(plans))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				bundles[i] = run(plans[i])
			}
		}()
	}

feed:
	for i := range plans {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
			sent[i] = true
		}
	}
	close(jobs)
	wg.Wait()

	for i, ok := range sent {
		if !ok {
			bundles[i] = cancelled(plans[i])
		}
	}
	return bundles
}
