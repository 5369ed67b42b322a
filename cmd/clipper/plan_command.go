package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"clipper/internal/config"
	"clipper/internal/segment"
)

type planFlags struct {
	count    int
	min      float64
	max      float64
	duration float64
	seed     uint64
	json     bool
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan [video]",
		Short: "Print a segment plan without cutting anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			duration := flags.duration
			if len(args) == 1 {
				asset, err := probeAsset(cmd.Context(), cfg, args[0])
				if err != nil {
					return err
				}
				duration = asset.DurationSeconds
			}
			if duration <= 0 {
				return errors.New("provide a video or a positive --duration")
			}

			planning := planningConfig(cfg, cmd, flags.count, flags.min, flags.max)
			if err := planning.Validate(); err != nil {
				return err
			}
			planner := segment.NewPlanner(seededRand(flags.seed), cfg.Planning.MaxAttempts)
			plans := planner.Plan(duration, planning.Count, planning.MinDuration, planning.MaxDuration)

			if flags.json {
				return writeJSON(cmd, plans)
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, "No segments fit; lower --min or use a longer video.")
				return nil
			}
			fmt.Fprintln(out, renderPlanTable(plans))
			if len(plans) < planning.Count {
				fmt.Fprintf(out, "Placed %d of %d requested segments.\n", len(plans), planning.Count)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&flags.duration, "duration", 0, "Video duration in seconds when no file is given")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 0, "Number of segments (default from config)")
	cmd.Flags().Float64Var(&flags.min, "min", 0, "Minimum segment seconds (default from config)")
	cmd.Flags().Float64Var(&flags.max, "max", 0, "Maximum segment seconds (default from config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for a reproducible plan (0 picks one at random)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output as JSON")
	return cmd
}

// planningConfig applies explicitly set flags over the configured planning
// defaults.
func planningConfig(cfg *config.Config, cmd *cobra.Command, count int, minSeconds, maxSeconds float64) segment.Config {
	out := segment.Config{
		Count:       cfg.Planning.Count,
		MinDuration: cfg.Planning.MinSeconds,
		MaxDuration: cfg.Planning.MaxSeconds,
	}
	if cmd.Flags().Changed("count") {
		out.Count = count
	}
	if cmd.Flags().Changed("min") {
		out.MinDuration = minSeconds
	}
	if cmd.Flags().Changed("max") {
		out.MaxDuration = maxSeconds
	}
	return out
}

func seededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func renderPlanTable(plans []segment.Plan) string {
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Index),
			formatSeconds(p.Start),
			formatSeconds(p.End),
			fmt.Sprintf("%.1fs", p.Duration),
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Length"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	)
}

func newConfiguredPlanner(cfg *config.Config) *segment.Planner {
	return segment.NewPlanner(nil, cfg.Planning.MaxAttempts)
}
