package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"clipper/internal/batch"
	"clipper/internal/pipeline"
)

func renderResult(result batch.Result, colorize bool) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader(fmt.Sprintf("Batch %s", pipeline.ShortID(result.BatchID)), colorize))
	b.WriteString("\n")

	if len(result.Bundles) > 0 {
		rows := make([][]string, 0, len(result.Bundles))
		for _, bundle := range result.Bundles {
			row := []string{
				fmt.Sprintf("%d", bundle.Plan.Index),
				formatSeconds(bundle.Plan.Start),
				fmt.Sprintf("%.1fs", bundle.Plan.Duration),
			}
			for _, slot := range bundle.Slots() {
				row = append(row, outcomeCell(slot.Outcome))
			}
			row = append(row, string(bundle.Reached))
			rows = append(rows, row)
		}
		b.WriteString(renderTable(
			[]string{"#", "Start", "Length", "Clip", "Transcript", "Summary", "Caption", "Title", "Reached"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight},
		))
		b.WriteString("\n")
	}

	counts := result.Counts()
	kind := statusOK
	switch result.Status {
	case batch.StatusPartial:
		kind = statusWarn
	case batch.StatusPlanningFailed:
		kind = statusError
	}
	summary := fmt.Sprintf("%d of %d clips", counts.Succeeded, counts.Segments)
	if counts.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", counts.Failed)
	}
	if counts.Cancelled > 0 {
		summary += fmt.Sprintf(", %d cancelled", counts.Cancelled)
	}
	if counts.Degraded > 0 {
		summary += fmt.Sprintf(", %d degraded", counts.Degraded)
	}
	b.WriteString(renderStatusLine(string(result.Status), kind, summary, colorize))
	b.WriteString("\n")
	b.WriteString(renderStatusLine("Backends", statusInfo, fmt.Sprintf("transcriber=%s summarizer=%s", result.Transcriber, result.Summarizer), colorize))
	return b.String()
}

func outcomeCell(o pipeline.StageOutcome) string {
	switch o.Status {
	case pipeline.StatusSucceeded:
		if o.Artifact != "" {
			return filepath.Base(o.Artifact)
		}
		return "ok"
	case pipeline.StatusFailed:
		if o.Marker != "" {
			return fmt.Sprintf("failed (%s)", o.Marker)
		}
		return "failed"
	default:
		if o.Reason != "" {
			return "skipped: " + o.Reason
		}
		return "skipped"
	}
}
