package preflight

import (
	"context"

	"clipper/internal/config"
)

// MinFreeBytes is the free space required in the output directory before a
// batch starts.
const MinFreeBytes = 1 << 30

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that must pass before a batch starts: the output
// directory must be writable with enough free space and the required binaries
// must be installed. Backend credentials are not checked here; an
// unconfigured backend only degrades optional stages.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	dirCheck := CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir)
	results = append(results, dirCheck)
	if dirCheck.Passed {
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, MinFreeBytes))
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		if status.Optional && !status.Available {
			continue
		}
		detail := status.Detail
		if status.Available {
			detail = status.Command
			if status.Path != "" {
				detail = status.Path
			}
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
