package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/config"
	"clipper/internal/language"
	"clipper/internal/media/ffprobe"
	"clipper/internal/segment"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Show the duration and streams clipper sees in a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			asset, err := probeAsset(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, asset)
			}
			rows := [][]string{
				{"Path", asset.Path},
				{"Duration", formatSeconds(asset.DurationSeconds)},
				{"Resolution", fmt.Sprintf("%dx%d", asset.Width, asset.Height)},
				{"Audio", yesNo(asset.HasAudio)},
				{"Audio language", audioLanguageCell(asset.AudioLanguage)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// audioLanguageCell shows an ffprobe language tag by name, e.g. "eng" as English.
func audioLanguageCell(code string) string {
	if strings.TrimSpace(code) == "" {
		return "-"
	}
	return language.DisplayName(code)
}

func probeAsset(ctx context.Context, cfg *config.Config, path string) (segment.VideoAsset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	expanded, err := config.ExpandPath(strings.TrimSpace(path))
	if err != nil {
		return segment.VideoAsset{}, err
	}
	probe, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary(), expanded)
	if err != nil {
		return segment.VideoAsset{}, err
	}
	return probe.Asset(expanded)
}
