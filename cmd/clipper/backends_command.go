package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clipper/internal/config"
	"clipper/internal/preflight"
	"clipper/internal/providers"
	"clipper/internal/summarize"
	"clipper/internal/transcribe"
)

func newBackendsCommand(ctx *commandContext) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Show which transcription and summarization backends will be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tSel, sSel, err := providers.Selections(cfg, providers.Options{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderBackendTable(tSel, sSel))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				kind := statusOK
				detail := status.Command
				switch {
				case !status.Available && status.Optional:
					kind, detail = statusWarn, status.Detail
				case !status.Available:
					kind, detail = statusError, status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			if check {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSectionHeader("Summarization check", colorize))
				printLLMCheck(cmd, out, cfg, sSel.Backend, colorize)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Send a test request to the selected summarization backend")
	return cmd
}

func renderBackendTable(tSel transcribe.Selection, sSel summarize.Selection) string {
	var rows [][]string
	for _, c := range tSel.Candidates {
		rows = append(rows, []string{"transcription", string(c.Backend), yesNo(c.Configured), yesNo(c.Backend == tSel.Backend), dashIfEmpty(c.Reason)})
	}
	if tSel.Backend == transcribe.BackendNone {
		rows = append(rows, []string{"transcription", "none", "yes", "yes", "no backend configured"})
	}
	for _, c := range sSel.Candidates {
		rows = append(rows, []string{"summarization", string(c.Backend), yesNo(c.Configured), yesNo(c.Backend == sSel.Backend), dashIfEmpty(c.Reason)})
	}
	if sSel.Backend == summarize.BackendNone {
		rows = append(rows, []string{"summarization", "none", "yes", "yes", "no backend configured"})
	}
	return renderTable([]string{"Capability", "Backend", "Configured", "Selected", "Reason"}, rows, nil)
}

func printLLMCheck(cmd *cobra.Command, out io.Writer, cfg *config.Config, backend summarize.Backend, colorize bool) {
	var result preflight.Result
	switch backend {
	case summarize.BackendOpenRouter:
		result = preflight.CheckLLM(cmd.Context(), "OpenRouter", cfg.OpenRouterLLM())
	case summarize.BackendDeepSeek:
		result = preflight.CheckLLM(cmd.Context(), "DeepSeek", cfg.DeepSeekLLM())
	case summarize.BackendOpenAI:
		result = preflight.CheckOpenAI(cmd.Context(), "OpenAI", cfg.OpenAILLM())
	default:
		fmt.Fprintln(out, renderStatusLine("Summarizer", statusWarn, "no backend configured", colorize))
		return
	}
	kind := statusOK
	if !result.Passed {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
}
