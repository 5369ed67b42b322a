package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"clipper/internal/batch"
	"clipper/internal/config"
	"clipper/internal/logging"
	"clipper/internal/pipeline"
	"clipper/internal/preflight"
	"clipper/internal/providers"
	"clipper/internal/workspace"
)

type runFlags struct {
	count         int
	min           float64
	max           float64
	workers       int
	output        string
	style         string
	language      string
	noTranscribe  bool
	noSummary     bool
	noCaption     bool
	noTitle       bool
	skipPreflight bool
	json          bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Plan segments and produce enriched clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if err := flags.apply(cmd, &runCfg); err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			runCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !flags.skipPreflight {
				if err := os.MkdirAll(runCfg.Paths.OutputDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				if failed := preflight.Failed(preflight.RunAll(runCtx, &runCfg)); len(failed) > 0 {
					for _, r := range failed {
						fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine(r.Name, statusError, r.Detail, shouldColorize(cmd.ErrOrStderr())))
					}
					return errors.New("preflight checks failed")
				}
			}

			planning := planningConfig(&runCfg, cmd, flags.count, flags.min, flags.max)
			if err := planning.Validate(); err != nil {
				return err
			}
			enrichment, err := pipeline.EnrichmentFromConfig(&runCfg)
			if err != nil {
				return err
			}

			asset, err := probeAsset(runCtx, &runCfg, args[0])
			if err != nil {
				return err
			}

			ws, err := workspace.Open(runCfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := ws.Close(); err != nil {
					logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup", logging.Error(err))
				}
			}()

			set, err := providers.Build(&runCfg, ws.WorkDir, providers.Options{})
			if err != nil {
				return err
			}
			providers.LogSelections(logger, set)

			coordinator := batch.NewCoordinator(batch.Options{
				Providers:   set.Providers,
				Transcriber: string(set.Transcription.Backend),
				Summarizer:  string(set.Summarization.Backend),
				OutputDir:   ws.OutputDir,
				WorkDir:     ws.WorkDir,
				Workers:     runCfg.Batch.Workers,
				Timeouts:    pipeline.TimeoutsFromConfig(&runCfg),
				Logger:      logger,
				Planner:     newConfiguredPlanner(&runCfg),
			})
			result := coordinator.Run(runCtx, asset, planning, enrichment)

			manifest, err := ws.WriteManifest(result)
			if err != nil {
				return err
			}

			if flags.json {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderResult(result, colorize))
				fmt.Fprintf(out, "Manifest: %s\n", manifest)
			}

			if runCtx.Err() != nil {
				return context.Canceled
			}
			if result.Status == batch.StatusPlanningFailed {
				return fmt.Errorf("no segments could be planned for a %.1fs video with min %.1fs", asset.DurationSeconds, planning.MinDuration)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.count, "count", "n", 0, "Number of segments (default from config)")
	f.Float64Var(&flags.min, "min", 0, "Minimum segment seconds (default from config)")
	f.Float64Var(&flags.max, "max", 0, "Maximum segment seconds (default from config)")
	f.IntVarP(&flags.workers, "workers", "w", 0, "Segments processed concurrently (default from config)")
	f.StringVarP(&flags.output, "output", "o", "", "Output directory (default from config)")
	f.StringVar(&flags.style, "style", "", "Summary style: concise, detailed, or bullets")
	f.StringVar(&flags.language, "language", "", "Transcription language hint, e.g. en")
	f.BoolVar(&flags.noTranscribe, "no-transcribe", false, "Skip transcription")
	f.BoolVar(&flags.noSummary, "no-summary", false, "Skip summarization")
	f.BoolVar(&flags.noCaption, "no-caption", false, "Skip the social caption")
	f.BoolVar(&flags.noTitle, "no-title", false, "Skip the title overlay")
	f.BoolVar(&flags.skipPreflight, "skip-preflight", false, "Skip dependency and disk checks")
	f.BoolVar(&flags.json, "json", false, "Print the batch result as JSON")
	return cmd
}

// apply overlays command-line overrides on a copy of the loaded config.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("workers") {
		if f.workers < 1 {
			return errors.New("--workers must be at least 1")
		}
		cfg.Batch.Workers = f.workers
	}
	if changed("output") {
		dir, err := config.ExpandPath(strings.TrimSpace(f.output))
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = dir
	}
	if changed("style") {
		cfg.Enrichment.SummaryStyle = config.NormalizeSummaryStyle(f.style)
	}
	if changed("language") {
		cfg.Enrichment.Language = strings.TrimSpace(f.language)
	}
	if f.noTranscribe {
		cfg.Enrichment.Transcription = false
	}
	if f.noSummary {
		cfg.Enrichment.Summarization = false
	}
	if f.noCaption {
		cfg.Enrichment.SocialCaption = false
	}
	if f.noTitle {
		cfg.Enrichment.TitleOverlay = false
	}
	return nil
}
