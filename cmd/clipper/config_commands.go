package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/config"
	"clipper/internal/providers"
	"clipper/internal/summarize"
	"clipper/internal/transcribe"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the clipper configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := refuseExisting(target, overwrite); err != nil {
				return err
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Next: set an LLM key under [summarization], then run `clipper --config %s config validate`.\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default ~/.config/clipper/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return config.ExpandPath(trimmed)
	}
	return config.DefaultConfigPath()
}

func refuseExisting(target string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(target)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("stat %s: %w", target, err)
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report what a run would use",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			tSel, sSel, err := providers.Selections(cfg, providers.Options{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, validateRows(cfg, path, exists, tSel, sSel), nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func validateRows(cfg *config.Config, path string, exists bool, tSel transcribe.Selection, sSel summarize.Selection) [][]string {
	source := path
	if !exists {
		source += " (not found, defaults used)"
	}
	return [][]string{
		{"Config file", source},
		{"Output directory", cfg.Paths.OutputDir},
		{"Segments", fmt.Sprintf("%d of %gs to %gs", cfg.Planning.Count, cfg.Planning.MinSeconds, cfg.Planning.MaxSeconds)},
		{"Workers", fmt.Sprintf("%d", cfg.Batch.Workers)},
		{"Transcription", selectedBackend(string(tSel.Backend), cfg.Enrichment.Transcription)},
		{"Summarization", selectedBackend(string(sSel.Backend), cfg.Enrichment.Summarization || cfg.Enrichment.SocialCaption)},
	}
}

func selectedBackend(backend string, enabled bool) string {
	if !enabled {
		return backend + " (stage disabled)"
	}
	return backend
}
